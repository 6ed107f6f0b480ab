package pstore

import (
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store"
	"github.com/ValentinKolb/hKV/lib/store/internal"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("pstore")

// Options configures the pebble backend
type Options struct {
	// Dir is the directory of the pebble database
	Dir string
	// FS overrides the file system (e.g. vfs.NewMem() in tests), nil uses the OS file system
	FS vfs.FS
	// Stripes is the number of locks used to serialize read-modify-write operations per key
	Stripes int
	// NoSync disables syncing the WAL after every write
	NoSync bool
}

// DefaultOptions returns the default options for a database in dir
func DefaultOptions(dir string) Options {
	return Options{
		Dir:     dir,
		Stripes: internal.DefaultStripes,
	}
}

// storeImpl holds mu shared for every database access and exclusively in
// Close. Open iterators are tracked by iters, Close waits for them.
type storeImpl struct {
	db        *pebble.DB
	locks     *internal.StripedLock
	writeOpts *pebble.WriteOptions
	mu        sync.RWMutex
	closed    bool
	iters     sync.WaitGroup
}

// NewPebbleStore opens (or creates) a durable store backed by pebble.
func NewPebbleStore(opts Options) (store.Storage, error) {
	pebbleOpts := &pebble.Options{}
	if opts.FS != nil {
		pebbleOpts.FS = opts.FS
	}

	db, err := pebble.Open(opts.Dir, pebbleOpts)
	if err != nil {
		return nil, kv.NewStorageError(fmt.Errorf("open pebble database at %q: %w", opts.Dir, err))
	}

	writeOpts := pebble.Sync
	if opts.NoSync {
		writeOpts = pebble.NoSync
	}

	Logger.Infof("opened pebble store at %q", opts.Dir)
	return &storeImpl{
		db:        db,
		locks:     internal.NewStripedLock(opts.Stripes),
		writeOpts: writeOpts,
	}, nil
}

// Factory returns a store.Factory that opens a pebble store with the given options.
func Factory(opts Options) store.Factory {
	return func() (store.Storage, error) {
		return NewPebbleStore(opts)
	}
}

var errClosed = errors.New("pebble store is closed")

// acquire takes the shared lock, it fails once the store is closed
func (s *storeImpl) acquire() error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return kv.NewStorageError(errClosed)
	}
	return nil
}

// read returns the decoded value stored under the full key, s.mu must be held
func (s *storeImpl) read(full []byte) (kv.Value, bool, error) {
	raw, closer, err := s.db.Get(full)
	if errors.Is(err, pebble.ErrNotFound) {
		return kv.None(), false, nil
	}
	if err != nil {
		return kv.None(), false, kv.NewStorageError(err)
	}
	defer closer.Close()

	value, err := kv.DecodeValue(raw)
	if err != nil {
		return kv.None(), false, err
	}
	return value, true, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(table, key string) (kv.Value, bool, error) {
	if err := s.acquire(); err != nil {
		return kv.None(), false, err
	}
	defer s.mu.RUnlock()
	return s.read(internal.FullKey(table, key))
}

func (s *storeImpl) Set(table, key string, value kv.Value) (kv.Value, bool, error) {
	if err := s.acquire(); err != nil {
		return kv.None(), false, err
	}
	defer s.mu.RUnlock()

	full := internal.FullKey(table, key)

	mu := s.locks.For(full)
	mu.Lock()
	defer mu.Unlock()

	old, loaded, err := s.read(full)
	if err != nil {
		return kv.None(), false, err
	}
	if err := s.db.Set(full, kv.EncodeValue(value), s.writeOpts); err != nil {
		return kv.None(), false, kv.NewStorageError(err)
	}
	return old, loaded, nil
}

func (s *storeImpl) Contains(table, key string) (bool, error) {
	if err := s.acquire(); err != nil {
		return false, err
	}
	defer s.mu.RUnlock()

	_, closer, err := s.db.Get(internal.FullKey(table, key))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, kv.NewStorageError(err)
	}
	_ = closer.Close()
	return true, nil
}

func (s *storeImpl) Del(table, key string) (kv.Value, bool, error) {
	if err := s.acquire(); err != nil {
		return kv.None(), false, err
	}
	defer s.mu.RUnlock()

	full := internal.FullKey(table, key)

	mu := s.locks.For(full)
	mu.Lock()
	defer mu.Unlock()

	old, loaded, err := s.read(full)
	if err != nil || !loaded {
		return kv.None(), false, err
	}
	if err := s.db.Delete(full, s.writeOpts); err != nil {
		return kv.None(), false, kv.NewStorageError(err)
	}
	return old, true, nil
}

func (s *storeImpl) GetAll(table string) ([]kv.Kvpair, error) {
	pairs, err := s.GetIter(table)
	if err != nil {
		return nil, err
	}
	return store.Collect(pairs)
}

func (s *storeImpl) GetIter(table string) (iter.Seq2[kv.Kvpair, error], error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	s.mu.RUnlock()

	prefix := internal.TablePrefix(table)
	bounds := &pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: internal.PrefixUpperBound(prefix),
	}

	return func(yield func(kv.Kvpair, error) bool) {
		// the iterator is only opened once the sequence is consumed. The shared
		// lock is released while the consumer runs, Close waits on s.iters.
		if err := s.acquire(); err != nil {
			yield(kv.Kvpair{}, err)
			return
		}
		s.iters.Add(1)
		it := s.db.NewIter(bounds)
		s.mu.RUnlock()
		defer s.iters.Done()
		defer func() {
			if err := it.Close(); err != nil {
				Logger.Warningf("failed to close iterator of table %q: %v", table, err)
			}
		}()

		for valid := it.First(); valid; valid = it.Next() {
			key := string(it.Key()[len(prefix):])
			value, err := kv.DecodeValue(it.Value())
			if err != nil {
				yield(kv.Kvpair{}, err)
				return
			}
			if !yield(kv.NewKvpair(key, value), nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(kv.Kvpair{}, kv.NewStorageError(err))
		}
	}, nil
}

// Close waits for open iterators, it must not be called while consuming a
// GetIter sequence of the same store.
func (s *storeImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.iters.Wait()
	if err := s.db.Close(); err != nil {
		return kv.NewStorageError(err)
	}
	return nil
}
