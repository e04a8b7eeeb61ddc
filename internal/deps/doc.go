// Package deps locates the external executables av3atool shells out to and
// reports whether they are present.
package deps
