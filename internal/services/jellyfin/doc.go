// Package jellyfin triggers library rescans on a Jellyfin media server.
//
// The client issues a single authenticated POST to /Library/Refresh with
// recursive scanning and the default metadata refresh mode, optionally
// scoped to one library via the ItemIds filter. A missing API key fails
// before any network call is made.
package jellyfin
