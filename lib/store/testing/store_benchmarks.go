package testing

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store"
)

// RunStorageBenchmarks runs all benchmarks for a store.Storage implementation
func RunStorageBenchmarks(b *testing.B, name string, factory store.Factory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, open(b, factory))
		})

		b.Run("SetExisting", func(b *testing.B) {
			benchmarkSetExisting(b, open(b, factory))
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, open(b, factory))
		})

		b.Run("Contains(not)", func(b *testing.B) {
			benchmarkContainsNot(b, open(b, factory))
		})

		b.Run("GetAll", func(b *testing.B) {
			benchmarkGetAll(b, open(b, factory))
		})

		b.Run("GetIterFirst10", func(b *testing.B) {
			benchmarkGetIterPrefix(b, open(b, factory))
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, open(b, factory))
		})
	})
}

// fill writes n keys into a table
func fill(b *testing.B, s store.Storage, table string, n int) {
	for i := 0; i < n; i++ {
		if _, _, err := s.Set(table, fmt.Sprintf("key-%06d", i), kv.NewInteger(int64(i))); err != nil {
			b.Fatalf("Failed to fill table: %v", err)
		}
	}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkSet(b *testing.B, s store.Storage) {
	var counter atomic.Int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			if _, _, err := s.Set("bench", fmt.Sprintf("key-%d", i), kv.NewInteger(i)); err != nil {
				b.Errorf("Set failed: %v", err)
			}
		}
	})
}

func benchmarkSetExisting(b *testing.B, s store.Storage) {
	const keys = 1000
	fill(b, s, "bench", keys)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			i := r.Intn(keys)
			if _, _, err := s.Set("bench", fmt.Sprintf("key-%06d", i), kv.NewInteger(int64(i))); err != nil {
				b.Errorf("Set failed: %v", err)
			}
		}
	})
}

func benchmarkGet(b *testing.B, s store.Storage) {
	const keys = 1000
	fill(b, s, "bench", keys)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			if _, _, err := s.Get("bench", fmt.Sprintf("key-%06d", r.Intn(keys))); err != nil {
				b.Errorf("Get failed: %v", err)
			}
		}
	})
}

func benchmarkContainsNot(b *testing.B, s store.Storage) {
	fill(b, s, "bench", 100)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := s.Contains("bench", "missing"); err != nil {
				b.Errorf("Contains failed: %v", err)
			}
		}
	})
}

func benchmarkGetAll(b *testing.B, s store.Storage) {
	fill(b, s, "bench", 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.GetAll("bench"); err != nil {
			b.Fatalf("GetAll failed: %v", err)
		}
	}
}

func benchmarkGetIterPrefix(b *testing.B, s store.Storage) {
	fill(b, s, "bench", 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pairs, err := s.GetIter("bench")
		if err != nil {
			b.Fatalf("GetIter failed: %v", err)
		}
		n := 0
		for _, err := range pairs {
			if err != nil {
				b.Fatalf("Iteration failed: %v", err)
			}
			if n++; n == 10 {
				break
			}
		}
	}
}

func benchmarkMixedUsage(b *testing.B, s store.Storage) {
	const keys = 1000
	fill(b, s, "bench", keys)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			key := fmt.Sprintf("key-%06d", r.Intn(keys))
			var err error
			switch op := r.Intn(10); {
			case op < 6:
				_, _, err = s.Get("bench", key)
			case op < 8:
				_, _, err = s.Set("bench", key, kv.NewInteger(int64(op)))
			case op < 9:
				_, _, err = s.Del("bench", key)
			default:
				_, err = s.Contains("bench", key)
			}
			if err != nil {
				b.Errorf("Operation failed: %v", err)
			}
		}
	})
}
