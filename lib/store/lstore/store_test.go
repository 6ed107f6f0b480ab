package lstore

import (
	"testing"

	storetesting "github.com/ValentinKolb/hKV/lib/store/testing"
)

func TestLocalStore(t *testing.T) {
	storetesting.RunStorageTests(t, "lstore", Factory())
}

func BenchmarkLocalStore(b *testing.B) {
	storetesting.RunStorageBenchmarks(b, "lstore", Factory())
}
