package lsm

import "errors"

import "github.com/bnclabs/rdms/api"
import "github.com/bnclabs/rdms/dbs"

// Getter lookup a key in a single level, return api.ErrorKeyMissing if
// key is not found in that level.
type Getter[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]] func(
	key K) (*dbs.Entry[K, V, D], error)

// YGet compose lookups across two levels, a is the older level and b
// the newer level. The newer level is looked up first, a deleted entry
// in the newer level shadows the older level.
func YGet[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	a, b Getter[K, V, D]) Getter[K, V, D] {

	return func(key K) (*dbs.Entry[K, V, D], error) {
		entry, err := b(key)
		if err == nil || !errors.Is(err, api.ErrorKeyMissing) {
			return entry, err
		}
		return a(key)
	}
}
