// Package resolve turns tracked identifiers into snapshot entries.
//
// Identifiers are looked up under an ordered list of search roots; the first
// root holding the file wins and the entry identity is the root-qualified path
// with forward slashes. Class names are mapped to source paths first.
// Identifiers containing glob metacharacters are expanded against every root.
// An identifier that matches nothing is logged and reported as a miss, never
// as an error.
package resolve
