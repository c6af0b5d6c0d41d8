// Package daemon coordinates the long-running dbvoir process.
//
// It wires configuration, the ledger store, the download watcher, and the
// import pipeline into a single lifecycle with flock-based locking to prevent
// multiple instances. The daemon exposes a status summary combining runtime
// state with ledger health.
//
// Keep orchestration logic here: import steps live in their respective
// packages while the daemon focuses on startup, shutdown, and high level
// coordination.
package daemon
