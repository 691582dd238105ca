package cache

import (
	"errors"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// ErrDigestMiss indicates no digest is recorded for a site
var ErrDigestMiss = errors.New("digest not recorded")

// Options contains store configuration options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
}

// Store persists per-site watched-file digests between builds, backed by
// BadgerDB under the configuration's cache path.
type Store struct {
	db *badger.DB
}

// NewStore opens a digest store at the configured directory
func NewStore(opts Options) (*Store, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	// Disable logging unless explicitly enabled
	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Digest returns the recorded digest for a site
func (s *Store) Digest(site string) (string, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(digestKey(site))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrDigestMiss
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// SetDigest records the digest for a site
func (s *Store) SetDigest(site, digest string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(digestKey(site), []byte(digest))
	})
}

// Delete removes the recorded digest for a site
func (s *Store) Delete(site string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(digestKey(site))
	})
}

// Clear removes all recorded digests
func (s *Store) Clear() error {
	return s.db.DropAll()
}

// Close releases store resources
func (s *Store) Close() error {
	return s.db.Close()
}

func digestKey(site string) []byte {
	return []byte("digest:" + site)
}
