package bstore

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/lib/store"
	"github.com/ValentinKolb/hKV/lib/store/internal"
	"github.com/lni/dragonboat/v4/logger"
	"go.etcd.io/bbolt"
)

var Logger = logger.GetLogger("bstore")

// bucketName is the single bucket holding the keys of all tables
var bucketName = []byte("hkv")

// Options configures the bbolt backend
type Options struct {
	// Path is the database file
	Path string
	// PageSize is the number of pairs GetIter reads per read transaction
	PageSize int
	// Timeout is the time to wait for the file lock of the database
	Timeout time.Duration
	// NoSync disables fsync after every commit
	NoSync bool
}

// DefaultOptions returns the default options for a database file at path
func DefaultOptions(path string) Options {
	return Options{
		Path:     path,
		PageSize: 128,
		Timeout:  time.Second,
	}
}

type storeImpl struct {
	db       *bbolt.DB
	pageSize int
}

// NewBoltStore opens (or creates) a durable store backed by bbolt.
func NewBoltStore(opts Options) (store.Storage, error) {
	db, err := bbolt.Open(opts.Path, 0600, &bbolt.Options{Timeout: opts.Timeout, NoSync: opts.NoSync})
	if err != nil {
		return nil, kv.NewStorageError(fmt.Errorf("open bolt database at %q: %w", opts.Path, err))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, kv.NewStorageError(fmt.Errorf("create bucket: %w", err))
	}

	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions(opts.Path).PageSize
	}

	Logger.Infof("opened bolt store at %q", opts.Path)
	return &storeImpl{db: db, pageSize: opts.PageSize}, nil
}

// Factory returns a store.Factory that opens a bolt store with the given options.
func Factory(opts Options) store.Factory {
	return func() (store.Storage, error) {
		return NewBoltStore(opts)
	}
}

// lookup returns the raw value of a full key. A stored empty value (kv.None)
// is distinguished from a missing key by comparing the key under the cursor.
func lookup(b *bbolt.Bucket, full []byte) ([]byte, bool) {
	k, v := b.Cursor().Seek(full)
	if k == nil || !bytes.Equal(k, full) {
		return nil, false
	}
	return v, true
}

// read returns the decoded value of a full key within a transaction.
func read(b *bbolt.Bucket, full []byte) (kv.Value, bool, error) {
	raw, ok := lookup(b, full)
	if !ok {
		return kv.None(), false, nil
	}
	value, err := kv.DecodeValue(raw)
	if err != nil {
		return kv.None(), false, err
	}
	return value, true, nil
}

// view runs fn in a read transaction, backend failures become StorageErrors.
func (s *storeImpl) view(fn func(b *bbolt.Bucket) error) error {
	return wrap(s.db.View(func(tx *bbolt.Tx) error {
		return fn(tx.Bucket(bucketName))
	}))
}

// update runs fn in a read-write transaction, backend failures become StorageErrors.
func (s *storeImpl) update(fn func(b *bbolt.Bucket) error) error {
	return wrap(s.db.Update(func(tx *bbolt.Tx) error {
		return fn(tx.Bucket(bucketName))
	}))
}

// wrap keeps *kv.Error values (e.g. DecodeErrors) and wraps everything else as StorageError.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var kvErr *kv.Error
	if errors.As(err, &kvErr) {
		return err
	}
	return kv.NewStorageError(err)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(table, key string) (value kv.Value, loaded bool, err error) {
	full := internal.FullKey(table, key)
	err = s.view(func(b *bbolt.Bucket) error {
		value, loaded, err = read(b, full)
		return err
	})
	if err != nil {
		return kv.None(), false, err
	}
	return value, loaded, nil
}

func (s *storeImpl) Set(table, key string, value kv.Value) (old kv.Value, loaded bool, err error) {
	full := internal.FullKey(table, key)
	err = s.update(func(b *bbolt.Bucket) error {
		old, loaded, err = read(b, full)
		if err != nil {
			return err
		}
		return b.Put(full, kv.AppendValue([]byte{}, value))
	})
	if err != nil {
		return kv.None(), false, err
	}
	return old, loaded, nil
}

func (s *storeImpl) Contains(table, key string) (loaded bool, err error) {
	full := internal.FullKey(table, key)
	err = s.view(func(b *bbolt.Bucket) error {
		_, loaded = lookup(b, full)
		return nil
	})
	return loaded, err
}

func (s *storeImpl) Del(table, key string) (old kv.Value, loaded bool, err error) {
	full := internal.FullKey(table, key)
	err = s.update(func(b *bbolt.Bucket) error {
		old, loaded, err = read(b, full)
		if err != nil || !loaded {
			return err
		}
		return b.Delete(full)
	})
	if err != nil {
		return kv.None(), false, err
	}
	return old, loaded, nil
}

func (s *storeImpl) GetAll(table string) ([]kv.Kvpair, error) {
	prefix := internal.TablePrefix(table)
	pairs := make([]kv.Kvpair, 0)

	err := s.view(func(b *bbolt.Bucket) error {
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			value, err := kv.DecodeValue(v)
			if err != nil {
				return err
			}
			pairs = append(pairs, kv.NewKvpair(string(k[len(prefix):]), value))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

func (s *storeImpl) GetIter(table string) (iter.Seq2[kv.Kvpair, error], error) {
	prefix := internal.TablePrefix(table)

	return func(yield func(kv.Kvpair, error) bool) {
		seek := prefix
		for {
			page, next, err := s.page(prefix, seek)
			if err != nil {
				yield(kv.Kvpair{}, err)
				return
			}
			// no transaction is open while the consumer runs
			for _, pair := range page {
				if !yield(pair, nil) {
					return
				}
			}
			if next == nil {
				return
			}
			seek = next
		}
	}, nil
}

// page reads up to pageSize pairs of a table starting at seek. next is the
// key to continue from or nil if the table is exhausted.
func (s *storeImpl) page(prefix, seek []byte) (pairs []kv.Kvpair, next []byte, err error) {
	err = s.view(func(b *bbolt.Bucket) error {
		pairs = make([]kv.Kvpair, 0, s.pageSize)
		c := b.Cursor()
		k, v := c.Seek(seek)
		for ; k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if len(pairs) == s.pageSize {
				next = append([]byte{}, k...)
				return nil
			}
			value, err := kv.DecodeValue(v)
			if err != nil {
				return err
			}
			pairs = append(pairs, kv.NewKvpair(string(k[len(prefix):]), value))
		}
		return nil
	})
	return pairs, next, err
}

func (s *storeImpl) Close() error {
	if err := s.db.Close(); err != nil {
		return kv.NewStorageError(err)
	}
	return nil
}
