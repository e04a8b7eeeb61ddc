// Package progress turns the AV3A decoder's textual progress lines into a
// fixed-width console bar.
//
// The decoder prints lines such as
//
//	Decoding::  42%|████      | 42/100 [00:10<00:01:30, 4.20it/s]
//
// and a literal "done" marker when it finishes. Parsing depends on that
// third-party text format: if it changes, lines stop matching and the bar
// simply stops updating.
package progress
