// Package ledger persists the import history in SQLite and exposes helpers
// for driving item lifecycle.
//
// Each downloaded music file gets one row keyed by source path, which
// doubles as the dedupe set: a path already present is never re-imported,
// across restarts. Items move pending → importing → imported/failed; stuck
// importing rows are reset to pending on daemon startup.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package ledger
