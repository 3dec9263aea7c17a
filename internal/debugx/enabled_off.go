//go:build !wispdebug

package debugx

// Enabled is false in release builds; Assert and Log become no-ops that the
// compiler can eliminate entirely.
const Enabled = false
