package internal

import (
	"bytes"
	"testing"
)

func TestTablePrefixIsolation(t *testing.T) {
	a := FullKey("ab", "c")
	b := FullKey("a", "bc")
	if bytes.Equal(a, b) {
		t.Fatalf("Keys of different tables must differ: %x", a)
	}
	if bytes.HasPrefix(b, TablePrefix("ab")) {
		t.Errorf("Key of table a must not start with prefix of table ab")
	}
	if !bytes.HasPrefix(a, TablePrefix("ab")) {
		t.Errorf("Key of table ab must start with its own prefix")
	}
}

func TestSplitKey(t *testing.T) {
	table, key, err := SplitKey(FullKey("score", "u1"))
	if err != nil {
		t.Fatalf("Failed to split key: %v", err)
	}
	if table != "score" || key != "u1" {
		t.Errorf("Expected score/u1, got %s/%s", table, key)
	}

	if _, _, err := SplitKey([]byte{0x05, 'a'}); err == nil {
		t.Errorf("Expected error for truncated key")
	}
}

func TestPrefixUpperBound(t *testing.T) {
	tests := []struct {
		prefix   []byte
		expected []byte
	}{
		{[]byte{0x01, 'a'}, []byte{0x01, 'b'}},
		{[]byte{0x01, 0xff}, []byte{0x02}},
		{[]byte{0xff, 0xff}, nil},
	}

	for _, tt := range tests {
		if got := PrefixUpperBound(tt.prefix); !bytes.Equal(got, tt.expected) {
			t.Errorf("PrefixUpperBound(%x): expected %x, got %x", tt.prefix, tt.expected, got)
		}
	}

	prefix := TablePrefix("t")
	end := PrefixUpperBound(prefix)
	if full := FullKey("t", "\xff\xff\xff"); bytes.Compare(full, end) >= 0 {
		t.Errorf("Key %x must be below the upper bound %x", full, end)
	}
}

func TestStripedLockIsStable(t *testing.T) {
	lock := NewStripedLock(0)
	if len(lock.locks) != DefaultStripes {
		t.Errorf("Expected %d stripes, got %d", DefaultStripes, len(lock.locks))
	}
	if lock.For([]byte("k")) != lock.For([]byte("k")) {
		t.Errorf("The same key must always map to the same stripe")
	}
}
