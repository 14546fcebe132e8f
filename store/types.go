package store

import "github.com/iov-one/valgov"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = valgov.ReadOnlyKVStore
type SetDeleter = valgov.SetDeleter
type KVStore = valgov.KVStore
type Batch = valgov.Batch
type Iterator = valgov.Iterator
type CacheableKVStore = valgov.CacheableKVStore
type KVCacheWrap = valgov.KVCacheWrap
type CommitKVStore = valgov.CommitKVStore
type CommitID = valgov.CommitID
type Model = valgov.Model

// Pair constructs a model from a key-value pair
var Pair = valgov.Pair
