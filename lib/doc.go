// Package lib provide small helpers that are not tied up with the
// index algorithm. They are meant to be self-contained and shall not
// depend on anything other than the standard library.
package lib
