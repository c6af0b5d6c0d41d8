// Package config loads, normalizes, and validates dBVoir configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// JELLYFIN_API_KEY and NICOTINE_DOWNLOAD_DIR. The Config type centralizes
// every knob the pipeline and CLI need, allowing the download/library
// directories and external service credentials to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
