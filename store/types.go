package store

import "github.com/iov-one/lockbank"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = lockbank.ReadOnlyKVStore
type SetDeleter = lockbank.SetDeleter
type KVStore = lockbank.KVStore
type Batch = lockbank.Batch
type CacheableKVStore = lockbank.CacheableKVStore
type KVCacheWrap = lockbank.KVCacheWrap
type CommitKVStore = lockbank.CommitKVStore
type CommitID = lockbank.CommitID
