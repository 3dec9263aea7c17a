// Command remotebench fans a wisp benchmark script out to a fleet of
// remote hosts over SSH and reports each host's wall time, the way the
// teacher's internal/tools/test2 builds and ships go test binaries to a
// machine list — adapted here to upload and run a wisp script instead of
// a compiled test binary, since remotebench has no equivalent build step
// (wisp scripts are interpreted, not compiled).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	osuser "os/user"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/melbahja/goph"
	"golang.org/x/crypto/ssh"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Fleet is the remote-host list and shared run parameters, loaded from a
// YAML file (the config package's sibling for this standalone tool).
type Fleet struct {
	Hosts      []string `yaml:"hosts"`       // "user@host" or bare "host" entries.
	WispBinary string   `yaml:"wisp_binary"` // Path to the wisp binary on each remote host.
	RemoteDir  string   `yaml:"remote_dir"`  // Base directory scripts are uploaded under.
}

// LoadFleet reads a fleet config from path.
func LoadFleet(path string) (Fleet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Fleet{}, err
	}
	var f Fleet
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Fleet{}, err
	}
	if f.WispBinary == "" {
		f.WispBinary = "wisp"
	}
	if f.RemoteDir == "" {
		f.RemoteDir = "/tmp"
	}
	return f, nil
}

// Result is one host's outcome.
type Result struct {
	Host     string
	Duration time.Duration
	Output   string
	Err      error
}

func main() {
	fleetPath := flag.String("fleet", "", "path to a fleet YAML config")
	scriptPath := flag.String("script", "", "path to the wisp script to run on every host")
	flag.Parse()

	if *fleetPath == "" || *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "remotebench: -fleet and -script are required")
		os.Exit(1)
	}

	fleet, err := LoadFleet(*fleetPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "remotebench: loading fleet config:", err)
		os.Exit(1)
	}

	script, err := os.ReadFile(*scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "remotebench: reading script:", err)
		os.Exit(1)
	}

	runID := uuid.New().String()
	results := runFleet(context.Background(), fleet, script, runID)

	failed := false
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("FAILED\t%s\t%v\n", r.Host, r.Err)
			failed = true
			continue
		}
		fmt.Printf("ok\t%s\t%.3vs\n%s", r.Host, r.Duration.Seconds(), r.Output)
	}
	if failed {
		os.Exit(1)
	}
}

// runFleet uploads script to every host in fleet and runs it concurrently
// via errgroup, the same bounded-fan-out shape the teacher's runOverSSH
// uses a sync.WaitGroup + atomic error pointer for — errgroup.Group gives
// the same "first error wins, wait for the rest" behavior with less
// bookkeeping.
func runFleet(ctx context.Context, fleet Fleet, script []byte, runID string) []Result {
	results := make([]Result, len(fleet.Hosts))
	g, ctx := errgroup.WithContext(ctx)
	for i, host := range fleet.Hosts {
		i, host := i, host
		g.Go(func() error {
			start := time.Now()
			out, err := runOne(ctx, fleet, host, script, runID)
			results[i] = Result{Host: host, Duration: time.Since(start), Output: out, Err: err}
			return nil // Collect per-host errors in Result rather than aborting the group.
		})
	}
	_ = g.Wait()
	return results
}

func runOne(_ context.Context, fleet Fleet, remote string, script []byte, runID string) (string, error) {
	user, addr, hasUser := strings.Cut(remote, "@")
	if !hasUser {
		addr = user
		u, err := osuser.Current()
		if err != nil {
			return "", err
		}
		user = u.Username
	}

	auth, _ := goph.UseAgent()
	auth = append(auth, ssh.KeyboardInteractive(askPassphrase))

	client, err := goph.NewUnknown(user, addr, auth)
	if err != nil {
		return "", fmt.Errorf("remotebench: dialing %s: %w", remote, err)
	}
	defer client.Close()

	remotePath := path.Join(fleet.RemoteDir, "wisp-bench-"+runID+".wisp")
	sftp, err := client.NewSftp()
	if err != nil {
		return "", err
	}
	f, err := sftp.Create(remotePath)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(script); err != nil {
		f.Close()
		return "", err
	}
	f.Close()
	defer func() {
		cmd, err := client.Command("rm", "-f", remotePath)
		if err == nil {
			_ = cmd.Run()
		}
	}()

	cmd, err := client.Command(fleet.WispBinary, remotePath)
	if err != nil {
		return "", err
	}
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		return "", errors.New(string(out))
	}
	return string(out), err
}

func askPassphrase(name, instruction string, questions []string, echos []bool) ([]string, error) {
	if len(questions) == 0 && name != "" {
		fmt.Printf("%s: %s\n", name, instruction)
	}
	answers := make([]string, len(questions))
	for i, q := range questions {
		fmt.Printf("%s ", q)
		if echos[i] {
			if _, err := fmt.Scanln(&answers[i]); err != nil {
				return nil, err
			}
			continue
		}
		answer, err := term.ReadPassword(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return nil, err
		}
		answers[i] = string(answer)
	}
	return answers, nil
}
