// Package main hosts the av3atool CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into pipeline
// runs (extract, decode, convert), dependency and directory status checks,
// run history listings, and configuration scaffolding. Configuration
// resolution and logger setup are centralized in commandContext so
// subcommands only wire flags to the internal packages.
package main
