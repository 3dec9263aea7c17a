package wisp

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// This file holds the handful of literal-text -> payload parsers scan.go
// calls once a token has already been classified by internal/scan. They
// are kept separate from scan.go's tree-building logic the same way the
// teacher keeps wire-format decoding (internal/tdp) separate from message
// layout (message.go).

func parsePair(text string) (x, y int64, err error) {
	sep := "x"
	i := strings.IndexByte(text, 'x')
	if i < 0 {
		sep = "×"
		i = strings.IndexRune(text, '×')
	}
	if i < 0 {
		return 0, 0, fmt.Errorf("malformed pair: %s", text)
	}
	xs, ys := text[:i], text[i+len(sep):]
	xv, err := strconv.ParseInt(xs, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed pair x component: %s", xs)
	}
	yv, err := strconv.ParseInt(ys, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed pair y component: %s", ys)
	}
	return xv, yv, nil
}

// parseDate accepts `YYYY-MM-DD`, `DD-MM-YYYY`, and the `/` variants,
// optionally followed by `/HH:MM:SS(.ns)` and a `±HH:MM`/`±HHMM` zone,
// per §4.6. It returns days since the Unix epoch and the zone offset in
// minutes.
func parseDate(text string) (days int64, zoneMinutes int32, err error) {
	datePart := text
	var timePart string
	if idx := strings.LastIndexAny(text, "/T"); idx >= 0 && strings.Count(text[idx+1:], ":") > 0 {
		datePart, timePart = text[:idx], text[idx+1:]
	}

	datePart = strings.ReplaceAll(datePart, "/", "-")
	fields := strings.Split(datePart, "-")
	if len(fields) != 3 {
		return 0, 0, fmt.Errorf("malformed date: %s", text)
	}

	year, month, day, err := normalizeDateFields(fields)
	if err != nil {
		return 0, 0, err
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	days = t.Unix() / 86400

	if timePart != "" {
		zoneMinutes = parseZoneSuffix(&timePart)
	}
	return days, zoneMinutes, nil
}

func normalizeDateFields(fields []string) (year, month, day int, err error) {
	// YYYY-MM-DD if the first field is 4 digits; else DD-MM-YYYY.
	if len(fields[0]) == 4 {
		y, e1 := strconv.Atoi(fields[0])
		m, e2 := parseMonth(fields[1])
		d, e3 := strconv.Atoi(fields[2])
		if e1 != nil || e2 != nil || e3 != nil {
			return 0, 0, 0, fmt.Errorf("malformed date fields")
		}
		return y, m, d, nil
	}
	d, e1 := strconv.Atoi(fields[0])
	m, e2 := parseMonth(fields[1])
	y, e3 := strconv.Atoi(fields[2])
	if e1 != nil || e2 != nil || e3 != nil {
		return 0, 0, 0, fmt.Errorf("malformed date fields")
	}
	return y, m, d, nil
}

var monthNames = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

func parseMonth(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	low := strings.ToLower(s)
	for i, name := range monthNames {
		if strings.HasPrefix(low, name) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unrecognized month: %s", s)
}

// parseZoneSuffix strips and parses a trailing `±HH:MM`/`±HHMM` zone from
// *rest, returning the offset in minutes (0 if none present).
func parseZoneSuffix(rest *string) int32 {
	s := *rest
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '+' || s[i] == '-' {
			sign := int32(1)
			if s[i] == '-' {
				sign = -1
			}
			zone := s[i+1:]
			*rest = s[:i]
			zone = strings.ReplaceAll(zone, ":", "")
			if len(zone) < 3 {
				return 0
			}
			h, _ := strconv.Atoi(zone[:2])
			m, _ := strconv.Atoi(zone[2:])
			return sign * int32(h*60+m)
		}
	}
	return 0
}

// parseTime accepts `H:M:S(.ns)` (optionally negative), returning
// nanoseconds since midnight.
func parseTime(text string) (int64, error) {
	neg := strings.HasPrefix(text, "-")
	if neg {
		text = text[1:]
	}
	parseZoneSuffix(&text) // Discard; time-of-day zone not separately tracked.
	parts := strings.Split(text, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed time: %s", text)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time hour: %s", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed time minute: %s", parts[1])
	}
	var sec float64
	if len(parts) == 3 {
		sec, err = strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, fmt.Errorf("malformed time second: %s", parts[2])
		}
	}
	nanos := int64(h)*3600e9 + int64(m)*60e9 + int64(sec*1e9)
	if neg {
		nanos = -nanos
	}
	return nanos, nil
}

// parseBinary decodes a `#{...}` literal's contents. internal/scan does
// not recognize a `16#{...}`/`64#{...}`/`2#{...}` base prefix, so no base
// reaches this function: it tries base 16 (REBOL's default) first and
// falls back to base 64 if the text is not valid hex.
func parseBinary(text string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			return -1
		}
		return r
	}, text)
	if b, err := hex.DecodeString(clean); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(clean)
}
