// Package config loads, normalizes, and validates serieslink configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SERIESLINK_CATALOG environment
// fallback. The Config type centralizes every knob the CLI needs so library
// folders, the catalog and the matching policy are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
