package store

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// BoltFileName is the database file the bolt backend keeps in DataDir.
const BoltFileName = "jsonstore.db"

var tablesBucket = []byte("tables")

// boltLockTimeout bounds how long an operation waits for another process
// holding the database file.
const boltLockTimeout = 5 * time.Second

// boltStore keeps every table document as a value in one bbolt bucket,
// keyed by table name. The file is opened per operation so separate
// processes can take turns on it.
type boltStore struct {
	path string
}

func newBoltStore(path string) *boltStore {
	return &boltStore{path: path}
}

func (s *boltStore) open() (*bbolt.DB, error) {
	bdb, err := bbolt.Open(s.path, 0o644, &bbolt.Options{Timeout: boltLockTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	return bdb, nil
}

func (s *boltStore) view(fn func(b *bbolt.Bucket) error) error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fn(nil)
	}
	bdb, err := s.open()
	if err != nil {
		return err
	}
	defer bdb.Close()
	return bdb.View(func(tx *bbolt.Tx) error {
		return fn(tx.Bucket(tablesBucket))
	})
}

func (s *boltStore) update(fn func(b *bbolt.Bucket) error) error {
	bdb, err := s.open()
	if err != nil {
		return err
	}
	defer bdb.Close()
	return bdb.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(tablesBucket)
		if err != nil {
			return err
		}
		return fn(b)
	})
}

func (s *boltStore) Exists(name string) (bool, error) {
	var found bool
	err := s.view(func(b *bbolt.Bucket) error {
		found = b != nil && b.Get([]byte(name)) != nil
		return nil
	})
	return found, err
}

func (s *boltStore) Read(name string) ([]byte, error) {
	var data []byte
	err := s.view(func(b *bbolt.Bucket) error {
		var v []byte
		if b != nil {
			v = b.Get([]byte(name))
		}
		if v == nil {
			return fmt.Errorf("table %q: %w", name, types.ErrNotFound)
		}
		// Values are only valid inside the transaction.
		data = bytes.Clone(v)
		return nil
	})
	return data, err
}

func (s *boltStore) Write(name string, data []byte) error {
	return s.update(func(b *bbolt.Bucket) error {
		return b.Put([]byte(name), data)
	})
}

func (s *boltStore) Delete(name string) error {
	return s.update(func(b *bbolt.Bucket) error {
		if b.Get([]byte(name)) == nil {
			return fmt.Errorf("table %q: %w", name, types.ErrNotFound)
		}
		return b.Delete([]byte(name))
	})
}

func (s *boltStore) List() ([]string, error) {
	var names []string
	err := s.view(func(b *bbolt.Bucket) error {
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *boltStore) Location(string) string {
	return s.path
}

func (s *boltStore) Close() error {
	return nil
}
