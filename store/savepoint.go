package store

import "github.com/iov-one/lockbank/errors"

// Savepoint will isolate all data written by fn and commit it only if fn
// returns no error. On failure all writes are dropped and the underlying store
// is left untouched.
//
// Stores that cannot be cache wrapped are passed directly to fn.
func Savepoint(db KVStore, fn func(KVStore) error) error {
	cstore, ok := db.(CacheableKVStore)
	if !ok {
		return fn(db)
	}

	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
