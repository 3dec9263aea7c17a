//go:build wispdebug

package debugx

// Enabled is true when built with the wispdebug tag.
const Enabled = true
