// Package storage persists the watch-later list in a local bbolt
// database. Entries are keyed by movie title, matching the backend's
// use of the title as the recommendation lookup key.
package storage

import (
	"fmt"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"
)

var watchlistBucket = []byte("watchlist")

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string, lockTimeout time.Duration) (*Store, error) {
	if lockTimeout <= 0 {
		lockTimeout = 1 * time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(watchlistBucket)
		return createErr
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(entry *SavedMovie) error {
	if entry.Movie.Title == "" {
		return fmt.Errorf("movie title is empty")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(watchlistBucket)
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(entry.Movie.Title), data)
	})
}

func (s *Store) Get(title string) (*SavedMovie, error) {
	var entry SavedMovie
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(watchlistBucket)
		data := b.Get([]byte(title))
		if data == nil {
			return fmt.Errorf("movie not saved")
		}
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Has reports whether title is on the watchlist.
func (s *Store) Has(title string) bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(watchlistBucket).Get([]byte(title)) != nil
		return nil
	})
	return found
}

// List returns all saved movies, newest first.
func (s *Store) List() ([]*SavedMovie, error) {
	var entries []*SavedMovie
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(watchlistBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var entry SavedMovie
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, &entry)
			return nil
		})
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries, err
}

func (s *Store) Delete(title string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(watchlistBucket).Delete([]byte(title))
	})
}
