// Package config loads, normalizes, and validates Rationale Studio CLI
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RATIONALE_API_URL. The Config type centralizes every knob the CLI needs,
// allowing the backend base URL, state directories, polling cadence, and
// notification settings to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
