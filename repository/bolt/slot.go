package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/flow/repository"
)

const (
	DefaultBucket = "flow"
	DefaultKey    = "todo-vibe-app-todos"
)

// Options configures the BoltDB slot.
type Options struct {
	Path    string
	Bucket  string
	Key     string
	Timeout time.Duration
}

type slot struct {
	db     *bbolt.DB
	bucket []byte
	key    []byte
}

// Open initializes the BoltDB file and ensures the bucket exists. Only one
// process can hold the file at a time; a second opener fails after Timeout.
func Open(opts Options) (repository.Slot, error) {
	if opts.Bucket == "" {
		opts.Bucket = DefaultBucket
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := bbolt.Open(opts.Path, 0o600, &bbolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(opts.Bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
	}

	return &slot{
		db:     db,
		bucket: []byte(opts.Bucket),
		key:    []byte(opts.Key),
	}, nil
}

func (s *slot) Get(ctx context.Context) ([]byte, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var blob []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(s.bucket).Get(s.key)
		if v == nil {
			return repository.ErrSlotEmpty
		}
		// v is only valid for the life of the transaction.
		blob = append([]byte(nil), v...)
		return nil
	})
	return blob, err
}

func (s *slot) Put(ctx context.Context, blob []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Put(s.key, blob)
	})
}

func (s *slot) Delete(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(s.key)
	})
}

// Ping verifies the bucket is still readable.
func (s *slot) Ping(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return fmt.Errorf("bucket %s missing", s.bucket)
		}
		return nil
	})
}

func (s *slot) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *slot) ready(ctx context.Context) error {
	if s == nil || s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	if ctx != nil {
		return ctx.Err()
	}
	return nil
}
