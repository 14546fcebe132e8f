package store

import (
	"testing"

	"github.com/iov-one/valgov/weavetest/assert"
)

func TestCacheIteratorCloseRaceCondition(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))
	assert.Nil(t, db.Set([]byte("b"), []byte("B")))
	cache := db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("c"), []byte("C")))

	it, err := cache.Iterator([]byte("a"), []byte("z"))
	if err != nil {
		t.Fatalf("cannot create iterator: %s", err)
	}
	// Close must be a synchronous operation.
	it.Close()
	assert.Nil(t, cache.Delete([]byte("c")))
	assert.Nil(t, db.Delete([]byte("a")))
}

func TestCacheReverseIteratorCloseRaceCondition(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))
	cache := db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("c"), []byte("C")))

	it, err := cache.ReverseIterator([]byte("a"), []byte("z"))
	if err != nil {
		t.Fatalf("cannot create iterator: %s", err)
	}
	// Close must be a synchronous operation.
	it.Close()
	assert.Nil(t, cache.Delete([]byte("c")))
	assert.Nil(t, db.Delete([]byte("a")))
}

func TestIteratorPastTheEnd(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))

	it, err := db.Iterator(nil, nil)
	assert.Nil(t, err)
	defer it.Close()

	assert.Equal(t, true, it.Valid())
	assert.Nil(t, it.Next())
	assert.Equal(t, false, it.Valid())
	if err := it.Next(); err == nil {
		t.Fatal("advancing an exhausted iterator must fail")
	}
}
