package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ValentinKolb/hKV/lib/store"
	"github.com/ValentinKolb/hKV/lib/store/bstore"
	"github.com/ValentinKolb/hKV/lib/store/lstore"
	"github.com/ValentinKolb/hKV/lib/store/pstore"
	"github.com/ValentinKolb/hKV/rpc/common"
)

// OpenStorage opens the backend selected by config. The durable backends
// create DataDir if it does not exist.
func OpenStorage(config common.ServerStorageConfig) (store.Storage, error) {
	backend, err := store.ParseBackend(config.Backend)
	if err != nil {
		return nil, err
	}

	if backend != store.BackendMemory {
		if config.DataDir == "" {
			return nil, fmt.Errorf("storage backend %s requires a data directory", backend)
		}
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	switch backend {
	case store.BackendPebble:
		opts := pstore.DefaultOptions(filepath.Join(config.DataDir, "pebble"))
		opts.NoSync = config.NoSync
		return pstore.NewPebbleStore(opts)
	case store.BackendBolt:
		opts := bstore.DefaultOptions(filepath.Join(config.DataDir, "hkv.bolt"))
		opts.NoSync = config.NoSync
		return bstore.NewBoltStore(opts)
	default:
		return lstore.NewLocalStore(), nil
	}
}
