package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store"
)

// RunStorageTests runs a comprehensive test suite for a store.Storage implementation.
// Every sub test gets a fresh storage from the factory.
func RunStorageTests(t *testing.T, name string, factory store.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, open(t, factory))
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, open(t, factory))
		})

		t.Run("Contains", func(t *testing.T) {
			testContains(t, open(t, factory))
		})

		t.Run("Del", func(t *testing.T) {
			testDel(t, open(t, factory))
		})

		t.Run("AllKinds", func(t *testing.T) {
			testAllKinds(t, open(t, factory))
		})

		t.Run("GetAll", func(t *testing.T) {
			testGetAll(t, open(t, factory))
		})

		t.Run("GetIter", func(t *testing.T) {
			testGetIter(t, open(t, factory))
		})

		t.Run("GetIterEarlyStop", func(t *testing.T) {
			testGetIterEarlyStop(t, open(t, factory))
		})

		t.Run("TableIsolation", func(t *testing.T) {
			testTableIsolation(t, open(t, factory))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, open(t, factory))
		})

		t.Run("ConcurrentDistinctKeys", func(t *testing.T) {
			testConcurrentDistinctKeys(t, open(t, factory))
		})

		t.Run("ConcurrentSameKey", func(t *testing.T) {
			testConcurrentSameKey(t, open(t, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// open creates a new storage and closes it when the test finishes
func open(t testing.TB, factory store.Factory) store.Storage {
	s, err := factory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close storage: %v", err)
		}
	})
	return s
}

func mustSet(t testing.TB, s store.Storage, table, key string, value kv.Value) (kv.Value, bool) {
	old, loaded, err := s.Set(table, key, value)
	if err != nil {
		t.Fatalf("Set(%s, %s) failed: %v", table, key, err)
	}
	return old, loaded
}

func mustGet(t testing.TB, s store.Storage, table, key string) (kv.Value, bool) {
	value, loaded, err := s.Get(table, key)
	if err != nil {
		t.Fatalf("Get(%s, %s) failed: %v", table, key, err)
	}
	return value, loaded
}

func checkPairs(t testing.TB, got []kv.Kvpair, expected []kv.Kvpair) {
	if len(got) != len(expected) {
		t.Errorf("Expected %d pairs, got %d: %v", len(expected), len(got), got)
		return
	}
	for i := range expected {
		if got[i].Key != expected[i].Key || !got[i].Value.Equal(expected[i].Value) {
			t.Errorf("Pair %d: expected %s=%s, got %s=%s",
				i, expected[i].Key, expected[i].Value, got[i].Key, got[i].Value)
		}
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.Storage) {
	if _, loaded := mustGet(t, s, "t1", "hello"); loaded {
		t.Errorf("Expected never written key to be absent")
	}

	old, loaded := mustSet(t, s, "t1", "hello", kv.NewString("world"))
	if loaded || !old.IsNone() {
		t.Errorf("Expected fresh Set to return none, got %s (loaded=%v)", old, loaded)
	}

	value, loaded := mustGet(t, s, "t1", "hello")
	if !loaded {
		t.Fatalf("Expected key hello to exist after Set")
	}
	if !value.Equal(kv.NewString("world")) {
		t.Errorf("Expected value world, got %s", value)
	}

	if _, loaded := mustGet(t, s, "t2", "hello"); loaded {
		t.Errorf("Key must not exist in another table")
	}
}

func testOverwrite(t *testing.T, s store.Storage) {
	mustSet(t, s, "t1", "hello", kv.NewString("world"))

	old, loaded := mustSet(t, s, "t1", "hello", kv.NewString("world1"))
	if !loaded || !old.Equal(kv.NewString("world")) {
		t.Errorf("Expected overwrite to return world, got %s (loaded=%v)", old, loaded)
	}

	value, _ := mustGet(t, s, "t1", "hello")
	if !value.Equal(kv.NewString("world1")) {
		t.Errorf("Expected value world1, got %s", value)
	}

	// overwriting with a value of another kind is allowed
	old, _ = mustSet(t, s, "t1", "hello", kv.NewInteger(3))
	if !old.Equal(kv.NewString("world1")) {
		t.Errorf("Expected overwrite to return world1, got %s", old)
	}
}

func testContains(t *testing.T, s store.Storage) {
	if ok, err := s.Contains("t1", "hello"); err != nil || ok {
		t.Errorf("Expected Contains=false for never written key, got %v (err=%v)", ok, err)
	}

	mustSet(t, s, "t1", "hello", kv.NewString("world"))

	if ok, err := s.Contains("t1", "hello"); err != nil || !ok {
		t.Errorf("Expected Contains=true after Set, got %v (err=%v)", ok, err)
	}
	if ok, err := s.Contains("t1", "hello1"); err != nil || ok {
		t.Errorf("Expected Contains=false for other key, got %v (err=%v)", ok, err)
	}
}

func testDel(t *testing.T, s store.Storage) {
	old, loaded, err := s.Del("t1", "missing")
	if err != nil {
		t.Fatalf("Deleting a missing key must not fail: %v", err)
	}
	if loaded || !old.IsNone() {
		t.Errorf("Expected Del of missing key to return none, got %s", old)
	}

	mustSet(t, s, "t1", "hello", kv.NewString("world"))

	old, loaded, err = s.Del("t1", "hello")
	if err != nil {
		t.Fatalf("Del failed: %v", err)
	}
	if !loaded || !old.Equal(kv.NewString("world")) {
		t.Errorf("Expected Del to return world, got %s (loaded=%v)", old, loaded)
	}

	if _, loaded := mustGet(t, s, "t1", "hello"); loaded {
		t.Errorf("Expected key to be absent after Del")
	}
	if ok, _ := s.Contains("t1", "hello"); ok {
		t.Errorf("Expected Contains=false after Del")
	}

	// the table survives deleting its last key
	pairs, err := s.GetAll("t1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("Expected empty table after Del, got %v", pairs)
	}
}

func testAllKinds(t *testing.T, s store.Storage) {
	values := []kv.Value{
		kv.None(),
		kv.NewString(""),
		kv.NewString("käse"),
		kv.NewInteger(-1 << 40),
		kv.NewFloat(-0.5),
		kv.NewBinary([]byte{0x00, 0xff}),
		kv.NewBinary(nil),
		kv.NewBool(true),
		kv.NewBool(false),
	}

	for i, v := range values {
		key := fmt.Sprintf("k%d", i)
		mustSet(t, s, "kinds", key, v)

		got, loaded := mustGet(t, s, "kinds", key)
		if !loaded {
			t.Errorf("Expected key %s (%s) to exist", key, v.Kind())
			continue
		}
		if !got.Equal(v) {
			t.Errorf("Expected %s, got %s", v, got)
		}
	}
}

func testGetAll(t *testing.T, s store.Storage) {
	pairs, err := s.GetAll("unknown")
	if err != nil {
		t.Fatalf("GetAll of unknown table failed: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("Expected empty result for unknown table, got %v", pairs)
	}

	mustSet(t, s, "score", "k3", kv.NewInteger(6))
	mustSet(t, s, "score", "k1", kv.NewInteger(10))
	mustSet(t, s, "score", "k2", kv.NewInteger(5))
	mustSet(t, s, "score", "k1", kv.NewInteger(9))
	mustSet(t, s, "other", "k0", kv.NewInteger(0))

	pairs, err = s.GetAll("score")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	checkPairs(t, pairs, []kv.Kvpair{
		kv.NewKvpair("k1", kv.NewInteger(9)),
		kv.NewKvpair("k2", kv.NewInteger(5)),
		kv.NewKvpair("k3", kv.NewInteger(6)),
	})
}

func testGetIter(t *testing.T, s store.Storage) {
	for i := 99; i >= 0; i-- {
		mustSet(t, s, "t", fmt.Sprintf("key-%03d", i), kv.NewInteger(int64(i)))
	}

	expected, err := s.GetAll("t")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	pairs, err := s.GetIter("t")
	if err != nil {
		t.Fatalf("GetIter failed: %v", err)
	}
	got, err := store.Collect(pairs)
	if err != nil {
		t.Fatalf("Iteration failed: %v", err)
	}
	checkPairs(t, got, expected)

	for i := 1; i < len(got); i++ {
		if got[i-1].Key >= got[i].Key {
			t.Errorf("Keys not strictly ascending at %d: %s >= %s", i, got[i-1].Key, got[i].Key)
		}
	}

	empty, err := s.GetIter("unknown")
	if err != nil {
		t.Fatalf("GetIter of unknown table failed: %v", err)
	}
	if got, _ := store.Collect(empty); len(got) != 0 {
		t.Errorf("Expected empty iteration for unknown table, got %v", got)
	}
}

func testGetIterEarlyStop(t *testing.T, s store.Storage) {
	for i := 0; i < 50; i++ {
		mustSet(t, s, "t", fmt.Sprintf("key-%03d", i), kv.NewInteger(int64(i)))
	}

	pairs, err := s.GetIter("t")
	if err != nil {
		t.Fatalf("GetIter failed: %v", err)
	}

	count := 0
	for pair, err := range pairs {
		if err != nil {
			t.Fatalf("Iteration failed: %v", err)
		}
		if expected := fmt.Sprintf("key-%03d", count); pair.Key != expected {
			t.Errorf("Expected %s, got %s", expected, pair.Key)
		}
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("Expected to consume 3 pairs, got %d", count)
	}

	// the storage stays usable after abandoning an iteration
	mustSet(t, s, "t", "after", kv.NewBool(true))
}

func testTableIsolation(t *testing.T, s store.Storage) {
	mustSet(t, s, "ab", "c", kv.NewString("ab/c"))
	mustSet(t, s, "a", "bc", kv.NewString("a/bc"))

	value, _ := mustGet(t, s, "ab", "c")
	if !value.Equal(kv.NewString("ab/c")) {
		t.Errorf("Expected ab/c, got %s", value)
	}
	value, _ = mustGet(t, s, "a", "bc")
	if !value.Equal(kv.NewString("a/bc")) {
		t.Errorf("Expected a/bc, got %s", value)
	}

	pairs, err := s.GetAll("a")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	checkPairs(t, pairs, []kv.Kvpair{kv.NewKvpair("bc", kv.NewString("a/bc"))})

	pairs, err = s.GetAll("ab")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	checkPairs(t, pairs, []kv.Kvpair{kv.NewKvpair("c", kv.NewString("ab/c"))})
}

func testEdgeCases(t *testing.T, s store.Storage) {
	// empty table and key names are valid names
	mustSet(t, s, "", "", kv.NewString("empty"))
	value, loaded := mustGet(t, s, "", "")
	if !loaded || !value.Equal(kv.NewString("empty")) {
		t.Errorf("Expected empty table/key to be stored, got %s (loaded=%v)", value, loaded)
	}

	// None is a value, not the absence of one
	mustSet(t, s, "t", "none", kv.None())
	if ok, _ := s.Contains("t", "none"); !ok {
		t.Errorf("Expected key holding None to exist")
	}
	old, loaded := mustSet(t, s, "t", "none", kv.NewInteger(1))
	if !loaded || !old.IsNone() {
		t.Errorf("Expected previous None with loaded=true, got %s (loaded=%v)", old, loaded)
	}

	// binary keys and large values
	key := "\x00\xff\x01"
	large := make([]byte, 1<<20)
	for i := range large {
		large[i] = byte(i)
	}
	mustSet(t, s, "t", key, kv.NewBinary(large))
	value, _ = mustGet(t, s, "t", key)
	if !value.Equal(kv.NewBinary(large)) {
		t.Errorf("Large binary value was not stored correctly")
	}
}

func testConcurrentDistinctKeys(t *testing.T, s store.Storage) {
	const (
		writers = 8
		keys    = 50
	)

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < keys; i++ {
				if _, _, err := s.Set("t", fmt.Sprintf("w%d-k%02d", w, i), kv.NewInteger(int64(w*keys+i))); err != nil {
					errs <- err
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Concurrent Set failed: %v", err)
	}

	for w := 0; w < writers; w++ {
		for i := 0; i < keys; i++ {
			value, loaded := mustGet(t, s, "t", fmt.Sprintf("w%d-k%02d", w, i))
			if !loaded || !value.Equal(kv.NewInteger(int64(w*keys+i))) {
				t.Errorf("Expected w%d-k%02d=%d, got %s (loaded=%v)", w, i, w*keys+i, value, loaded)
			}
		}
	}

	pairs, err := s.GetAll("t")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(pairs) != writers*keys {
		t.Errorf("Expected %d pairs, got %d", writers*keys, len(pairs))
	}
}

func testConcurrentSameKey(t *testing.T, s store.Storage) {
	const writers = 16

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		old = make(map[int64]int)
	)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			prev, loaded, err := s.Set("t", "shared", kv.NewInteger(int64(w)))
			if err != nil {
				t.Errorf("Concurrent Set failed: %v", err)
				return
			}
			if loaded {
				i, _ := prev.AsInteger()
				mu.Lock()
				old[i]++
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	value, loaded := mustGet(t, s, "t", "shared")
	if !loaded {
		t.Fatalf("Expected shared key to exist")
	}
	final, ok := value.AsInteger()
	if !ok || final < 0 || final >= writers {
		t.Errorf("Expected one of the written values, got %s", value)
	}

	// every write except the first replaced exactly one other write
	replaced := 0
	for v, n := range old {
		if n != 1 {
			t.Errorf("Value %d was returned as previous value %d times", v, n)
		}
		if v == final {
			t.Errorf("Final value %d was reported as replaced", v)
		}
		replaced += n
	}
	if replaced != writers-1 {
		t.Errorf("Expected %d replaced values, got %d", writers-1, replaced)
	}
}
