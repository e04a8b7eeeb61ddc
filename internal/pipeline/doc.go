// Package pipeline sequences the external-tool stages of an av3atool flow.
//
// A Pipeline is built from a job.Job and runs its stages one at a time:
// locate the required executables, check the output directory, then invoke
// each stage's command and stop at the first non-zero exit. Every run holds
// a file lock under the state directory and, when history is enabled, leaves
// a summary row in the history store.
package pipeline
