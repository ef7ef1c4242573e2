package dbs

// Footprinter types report their approximate memory consumption in
// bytes, struct overhead plus any variable length payload.
type Footprinter interface {
	Footprint() int64
}

// Key constraint for index keys, keys are totally ordered by Compare.
type Key[K any] interface {
	Footprinter
	// Compare return -1, 0, +1 if receiver is less than, equal to,
	// or greater than other.
	Compare(other K) int
}

// Diff constraint for value types V, with delta type D. For all old
// and new, new.Merge(new.Diff(old)) == old.
type Diff[V any, D any] interface {
	Footprinter
	// Diff return the delta required to reconstruct old from the
	// receiver.
	Diff(old V) D
	// Merge apply delta on the receiver and return the older value.
	Merge(delta D) V
	// AsDelta encode the receiver as a self contained delta. Used for
	// versions that are followed by a delete, where there is no newer
	// value to merge against.
	AsDelta() D
}

// Restorer constraint for delta types, Restore is the inverse of
// AsDelta.
type Restorer[V any] interface {
	Footprinter
	Restore() V
}
