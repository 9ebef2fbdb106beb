package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/korjavin/mealclock/pkg/logger"
)

// ErrNotFound is returned by Get for a missing key
var ErrNotFound = errors.New("key not found")

// Store represents a BadgerDB storage instance
type Store struct {
	db       *badger.DB
	inMemory bool
	logger   *logger.Logger
}

// New opens a store. An empty dataDir keeps everything in memory.
func New(dataDir string) (*Store, error) {
	log := logger.New("storage")

	var opts badger.Options
	if dataDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		absPath, err := filepath.Abs(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		opts = badger.DefaultOptions(absPath)
	}
	opts.Logger = nil // Disable Badger's internal logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	if dataDir == "" {
		log.Info("BadgerDB opened in memory")
	} else {
		log.Info("BadgerDB opened at %s", opts.Dir)
	}
	return &Store{db: db, inMemory: dataDir == "", logger: log}, nil
}

// InMemory reports whether the store is discarded on Close
func (s *Store) InMemory() bool {
	return s.inMemory
}

// Close closes the BadgerDB database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Set stores a value for a key
func (s *Store) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Get retrieves a value for a key
func (s *Store) Get(key string, value interface{}) error {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("failed to get value: %w", err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// Delete removes a key from the database
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// List returns all keys with a given prefix
func (s *Store) List(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	return keys, nil
}

// RunGC runs value log garbage collection. In-memory stores have no value
// log, so it does nothing there.
func (s *Store) RunGC() error {
	if s.inMemory {
		return nil
	}
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// StartGCRoutine periodically runs garbage collection until ctx is done
func (s *Store) StartGCRoutine(ctx context.Context, interval time.Duration) {
	if s.inMemory {
		s.logger.Debug("Skipping BadgerDB GC routine for in-memory store")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.RunGC(); err != nil {
					s.logger.Error("BadgerDB GC error: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("Started BadgerDB GC routine with interval %v", interval)
}
