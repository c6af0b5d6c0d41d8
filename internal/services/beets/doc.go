// Package beets runs music imports through the beets CLI.
//
// Imports are quiet, non-interactive, and move files into the configured
// library so the watcher never sees them twice. Command execution sits
// behind an Executor interface so tests can fake the process.
package beets
