// Package pipeline coordinates the download-to-library flow: settled files
// from the watcher are recorded in the ledger, imported with beets, and
// followed by a Jellyfin library rescan.
package pipeline
