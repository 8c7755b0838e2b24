// Package journal records which task reminders have already been
// announced, so a process restart does not re-fire them.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Entry is one announced reminder.
type Entry struct {
	TaskID      string    `json:"task_id"`
	Reminder    time.Time `json:"reminder"`
	AnnouncedAt time.Time `json:"announced_at"`
}

// Store wraps BoltDB to persist announced reminders.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "reminders"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// MarkOnce records the (task, reminder) pair and reports whether this call
// was the first to do so. A task whose reminder timestamp changes is
// eligible to be announced again.
func (s *Store) MarkOnce(taskID string, reminder time.Time) (bool, error) {
	if s == nil || s.db == nil {
		return false, bolt.ErrDatabaseNotOpen
	}
	key := []byte(buildKey(taskID, reminder))

	entry := Entry{
		TaskID:      taskID,
		Reminder:    reminder,
		AnnouncedAt: time.Now(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}

	first := false
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b.Get(key) != nil {
			return nil
		}
		first = true
		return b.Put(key, payload)
	})
	return first, err
}

// Seen reports whether the (task, reminder) pair was already announced.
func (s *Store) Seen(taskID string, reminder time.Time) (bool, error) {
	if s == nil || s.db == nil {
		return false, bolt.ErrDatabaseNotOpen
	}
	var seen bool
	err := s.db.View(func(tx *bolt.Tx) error {
		seen = tx.Bucket(s.bucket).Get([]byte(buildKey(taskID, reminder))) != nil
		return nil
	})
	return seen, err
}

// Size returns the number of recorded entries.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup removes entries announced before the provided timestamp.
func (s *Store) Cleanup(olderThan time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			if entry.AnnouncedAt.Before(olderThan) {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func buildKey(taskID string, reminder time.Time) string {
	return fmt.Sprintf("%s_%020d", taskID, reminder.UnixNano())
}
