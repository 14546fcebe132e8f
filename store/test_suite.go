package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/valgov/weavetest/assert"
)

// StoreConstructor returns a fresh, empty store together with a function
// releasing its resources.
type StoreConstructor func() (base CacheableKVStore, cleanup func())

// RunSuite runs the behaviour checks every CacheableKVStore implementation
// must pass: reads through cache wraps, isolation of uncommitted writes and
// ordered iteration over merged layers.
func RunSuite(t *testing.T, newStore StoreConstructor) {
	t.Run("get set", func(t *testing.T) { suiteGetSet(t, newStore) })
	t.Run("cache conflicts", func(t *testing.T) { suiteConflicts(t, newStore) })
	t.Run("iterate", func(t *testing.T) { suiteIterate(t, newStore) })
	t.Run("iterate random", func(t *testing.T) { suiteIterateRandom(t, newStore) })
}

// AssertGetHas fails the test unless key resolves to val. A nil val means
// the key must not exist.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, val != nil, has)
}

func suiteGetSet(t *testing.T, newStore StoreConstructor) {
	base, cleanup := newStore()
	defer cleanup()

	k1, v1 := heightKey(1), []byte("genesis set")
	AssertGetHas(t, base, k1, nil)
	assert.Nil(t, base.Set(k1, v1))
	AssertGetHas(t, base, k1, v1)

	// A cache reads through and keeps its own writes.
	cache := base.CacheWrap()
	AssertGetHas(t, cache, k1, v1)
	k2, v2 := heightKey(7), []byte("second set")
	assert.Nil(t, cache.Set(k2, v2))
	AssertGetHas(t, cache, k2, v2)
	AssertGetHas(t, base, k2, nil)

	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, k1, v1)
	AssertGetHas(t, base, k2, v2)

	// Discarded writes never reach the base.
	k3 := heightKey(9)
	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(k3, []byte("dropped")))
	discarded.Discard()
	AssertGetHas(t, base, k3, nil)

	// A delete written by one cache is visible in another.
	reader := base.CacheWrap()
	deleter := base.CacheWrap()
	assert.Nil(t, deleter.Delete(k1))
	AssertGetHas(t, reader, k1, v1)
	assert.Nil(t, deleter.Write())
	AssertGetHas(t, reader, k1, nil)
	AssertGetHas(t, reader, k2, v2)
}

func suiteConflicts(t *testing.T, newStore StoreConstructor) {
	parent, cleanup := newStore()
	defer cleanup()

	a, b, c := heightKey(1), heightKey(2), heightKey(3)
	assert.Nil(t, parent.Set(a, []byte("a1")))
	assert.Nil(t, parent.Set(b, []byte("b1")))

	child := parent.CacheWrap()
	assert.Nil(t, child.Set(a, []byte("a2")))
	assert.Nil(t, child.Delete(b))
	assert.Nil(t, child.Set(c, []byte("c2")))
	// Deleting and setting again restores the key.
	assert.Nil(t, child.Delete(c))
	assert.Nil(t, child.Set(c, []byte("c3")))

	AssertGetHas(t, parent, a, []byte("a1"))
	AssertGetHas(t, parent, b, []byte("b1"))
	AssertGetHas(t, parent, c, nil)

	want := map[string][]byte{string(a): []byte("a2"), string(b): nil, string(c): []byte("c3")}
	for k, v := range want {
		AssertGetHas(t, child, []byte(k), v)
	}
	assert.Nil(t, child.Write())
	for k, v := range want {
		AssertGetHas(t, parent, []byte(k), v)
	}
}

func suiteIterate(t *testing.T, newStore StoreConstructor) {
	h := func(n uint64, v string) Model { return Pair(heightKey(n), []byte(v)) }

	cases := map[string]struct {
		parent  []Model
		child   []Model
		deleted []uint64
		want    []Model
	}{
		"child only": {
			child: []Model{h(3, "c"), h(1, "a"), h(2, "b")},
			want:  []Model{h(1, "a"), h(2, "b"), h(3, "c")},
		},
		"parent only": {
			parent: []Model{h(2, "b"), h(1, "a")},
			want:   []Model{h(1, "a"), h(2, "b")},
		},
		"interleaved layers": {
			parent: []Model{h(1, "a"), h(3, "c"), h(5, "e")},
			child:  []Model{h(2, "b"), h(4, "d")},
			want:   []Model{h(1, "a"), h(2, "b"), h(3, "c"), h(4, "d"), h(5, "e")},
		},
		"child overwrites parent": {
			parent: []Model{h(1, "a"), h(2, "b")},
			child:  []Model{h(2, "B"), h(3, "C")},
			want:   []Model{h(1, "a"), h(2, "B"), h(3, "C")},
		},
		"deletes hide parent and child entries": {
			parent:  []Model{h(1, "a"), h(3, "c"), h(4, "d")},
			child:   []Model{h(2, "b")},
			deleted: []uint64{1, 2, 4, 9},
			want:    []Model{h(3, "c")},
		},
		"everything deleted": {
			parent:  []Model{h(1, "a")},
			child:   []Model{h(2, "b")},
			deleted: []uint64{1, 2},
			want:    nil,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := newStore()
			defer cleanup()
			for _, m := range tc.parent {
				assert.Nil(t, base.Set(m.Key, m.Value))
			}
			child := base.CacheWrap()
			for _, m := range tc.child {
				assert.Nil(t, child.Set(m.Key, m.Value))
			}
			for _, n := range tc.deleted {
				assert.Nil(t, child.Delete(heightKey(n)))
			}

			assertIterator(t, child, nil, nil, false, tc.want)
			assertIterator(t, child, nil, nil, true, reverseModels(tc.want))
			if len(tc.want) > 1 {
				// Start is inclusive, end is exclusive.
				first, last := tc.want[0].Key, tc.want[len(tc.want)-1].Key
				inner := tc.want[1 : len(tc.want)-1]
				if len(inner) == 0 {
					inner = nil
				}
				assertIterator(t, child, first, last, false, tc.want[:len(tc.want)-1])
				assertIterator(t, child, tc.want[1].Key, nil, true, reverseModels(tc.want[1:]))
				assertIterator(t, child, nil, last, true, reverseModels(tc.want[:len(tc.want)-1]))
				assertIterator(t, child, tc.want[1].Key, last, false, inner)
			}
		})
	}
}

func suiteIterateRandom(t *testing.T, newStore StoreConstructor) {
	base, cleanup := newStore()
	defer cleanup()

	rnd := rand.New(rand.NewSource(42))
	want := make(map[uint64][]byte)
	inChild := make(map[uint64]bool)
	child := base.CacheWrap()
	for i := 0; i < 200; i++ {
		n := uint64(rnd.Intn(80))
		val := []byte(fmt.Sprintf("value-%d", i))
		switch rnd.Intn(4) {
		case 0:
			assert.Nil(t, base.Set(heightKey(n), val))
			if !inChild[n] {
				want[n] = val
			}
		case 1:
			assert.Nil(t, child.Delete(heightKey(n)))
			want[n], inChild[n] = nil, true
		default:
			assert.Nil(t, child.Set(heightKey(n), val))
			want[n], inChild[n] = val, true
		}
	}

	var expected []Model
	for n, v := range want {
		if v != nil {
			expected = append(expected, Pair(heightKey(n), v))
		}
	}
	sort.Slice(expected, func(i, j int) bool {
		return bytes.Compare(expected[i].Key, expected[j].Key) < 0
	})

	assertIterator(t, child, nil, nil, false, expected)
	assertIterator(t, child, nil, nil, true, reverseModels(expected))
}

// heightKey returns a key that sorts in the numeric order of n.
func heightKey(n uint64) []byte {
	key := make([]byte, 9)
	key[0] = 'h'
	binary.BigEndian.PutUint64(key[1:], n)
	return key
}

func assertIterator(t testing.TB, kv ReadOnlyKVStore, start, end []byte, reverse bool, want []Model) {
	t.Helper()
	var (
		it  Iterator
		err error
	)
	if reverse {
		it, err = kv.ReverseIterator(start, end)
	} else {
		it, err = kv.Iterator(start, end)
	}
	assert.Nil(t, err)
	defer it.Close()

	var got []Model
	for ; it.Valid(); assert.Nil(t, it.Next()) {
		got = append(got, Pair(it.Key(), it.Value()))
	}
	if len(got) != len(want) {
		t.Fatalf("want %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if !bytes.Equal(want[i].Key, got[i].Key) || !bytes.Equal(want[i].Value, got[i].Value) {
			t.Fatalf("entry %d: want %X=%q, got %X=%q", i, want[i].Key, want[i].Value, got[i].Key, got[i].Value)
		}
	}
}

func reverseModels(models []Model) []Model {
	if models == nil {
		return nil
	}
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
