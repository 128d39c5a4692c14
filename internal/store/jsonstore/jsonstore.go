package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// JSON-backed key/value storage for client-persisted credentials.
// Single file, owner-only permissions. No locking; one CLI process at a time.

const fileName = "credentials.json"

// Store keeps string values under fixed keys in dir/credentials.json.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path is the credentials file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

func (s *Store) load() (map[string]string, error) {
	b, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrap(err, "read credentials")
	}
	values := map[string]string{}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, errors.Wrap(err, "parse credentials")
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	if len(values) == 0 {
		if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "remove credentials")
		}
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrap(err, "mkdir")
	}
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal credentials")
	}
	if err := os.WriteFile(s.Path(), b, 0o600); err != nil {
		return errors.Wrap(err, "write credentials")
	}
	return nil
}

// Get returns the value stored under key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Remove deletes the given keys. Missing keys are ignored; the file is
// removed once it holds nothing.
func (s *Store) Remove(keys ...string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(values, k)
	}
	return s.save(values)
}
