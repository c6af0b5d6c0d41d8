// Package preflight provides readiness checks for the external services and
// filesystem paths the import pipeline depends on.
//
// The daemon runs RunAll once before starting the watch loop, and the CLI
// "dbvoir check" command prints the same results for troubleshooting. The
// Jellyfin check only runs when an API key is configured; imports work
// without Jellyfin, rescans are simply skipped.
package preflight
