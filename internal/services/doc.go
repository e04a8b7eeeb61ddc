// Package services defines shared utilities consumed by the pipeline stages
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper so the CLI can label a
//     failure (missing executable, missing input, subprocess failure, or an
//     unhandled fault) without parsing message text.
//
// Use these helpers when wiring new stage logic so failures surface with the
// same labels and exit status across every flow.
package services
