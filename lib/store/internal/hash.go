package internal

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// GenerateSeed creates a random seed for the internal hash distribution
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// HashBytes generates a FNV-1a hash value for a byte slice with a seed
func HashBytes(b []byte, seed uint64) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	hash := uint64(offset64) ^ seed
	for i := 0; i < len(b); i++ {
		hash ^= uint64(b[i])
		hash *= prime64
	}
	return hash
}

// --------------------------------------------------------------------------
// Lock Striping
// --------------------------------------------------------------------------

// DefaultStripes is the number of locks used by NewStripedLock if 0 is passed.
const DefaultStripes = 256

// StripedLock serializes operations on the same key without a global lock.
// Two keys may share a stripe, a key always maps to the same one.
type StripedLock struct {
	seed  uint64
	locks []sync.Mutex
}

// NewStripedLock creates a new lock with the given number of stripes.
func NewStripedLock(stripes int) *StripedLock {
	if stripes <= 0 {
		stripes = DefaultStripes
	}
	return &StripedLock{
		seed:  GenerateSeed(),
		locks: make([]sync.Mutex, stripes),
	}
}

// For returns the mutex responsible for key.
func (s *StripedLock) For(key []byte) *sync.Mutex {
	return &s.locks[HashBytes(key, s.seed)%uint64(len(s.locks))]
}
