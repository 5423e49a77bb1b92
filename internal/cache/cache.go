// Package cache stores serialized guess results in badger.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shapedtime/guessit/internal/logging"
)

// ErrNotFound is returned for missing or expired entries.
var ErrNotFound = errors.New("cache entry not found")

const resultRootKey = "/result/"

// Store is a badger backed result cache.
type Store struct {
	db  *badger.DB
	ttl time.Duration
	log zerolog.Logger
}

// Open opens or creates the cache at dir. A zero ttl keeps entries forever.
func Open(dir string, ttl time.Duration) (*Store, error) {
	l := log.Logger.With().Str("component", "cache").Logger()

	opts := badger.DefaultOptions(dir).
		WithLogger(&logging.Badger{L: l}).
		WithValueLogFileSize(1<<26 - 1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}

	err = db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		ttl: ttl,
		log: l,
	}, nil
}

// Key builds the cache key of one guess. Options must be JSON encodable.
func Key(filename string, options any) (string, error) {
	o, err := json.Marshal(options)
	if err != nil {
		return "", err
	}
	return resultRootKey + string(o) + "/" + filename, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return out, err
}

// Set stores value under key.
func (s *Store) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Len counts the live entries.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(resultRootKey)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Purge drops every entry, e.g. after the rule set changed.
func (s *Store) Purge() error {
	if err := s.db.DropPrefix([]byte(resultRootKey)); err != nil {
		return err
	}
	s.log.Debug().Msg("cache purged")
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
