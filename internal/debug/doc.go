// Package debug writes an opt-in trace of ledger transitions.
//
// When enabled via the --debug flag, every user action the TUI applies to
// the ledger is appended to a log file, since nothing can be printed to
// the terminal while the alternate screen is active.
package debug
