package api

import "iter"

// NoDisk is a placeholder for disabled on-disk components, every
// operation fails with ErrorNotImplemented.
type NoDisk[E any] struct{}

// Build implement TableWriter interface.
func (NoDisk[E]) Build(items iter.Seq[E], metadata []byte) error {
	return ErrorNotImplemented
}

// Get always fail.
func (NoDisk[E]) Get(key any) (e E, err error) {
	return e, ErrorNotImplemented
}
