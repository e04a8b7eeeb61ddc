// Package config loads, normalizes, and validates av3atool configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AV3A_DECODER. The Config type centralizes every knob the CLI needs, so
// executable overrides, the state directory, and logging are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
