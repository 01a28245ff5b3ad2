// Package boltstore keeps blocks in an embedded bolt database.
package boltstore

import (
	"context"
	"fmt"
	"time"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/storage"
	"github.com/boltdb/bolt"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var (
	blocksBucket = []byte("blocks")
	metaBucket   = []byte("meta")
	rootKey      = []byte("root")
)

const (
	lockTimeout = time.Second
	maxRetries  = 3
)

// BoltStorage implements storage.BlockStore on top of a bolt file.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens (or creates) the database file. Another process
// holding the file lock makes bolt time out; that is retried with backoff.
func NewBoltStorage(ctx context.Context, path string) (*BoltStorage, error) {
	var db *bolt.DB
	open := func() error {
		var err error
		db, err = bolt.Open(path, 0600, &bolt.Options{Timeout: lockTimeout})
		if err != nil {
			logger.Log.Info("can not open bolt database", zap.String("path", path), zap.Error(err))
		}
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(open, b); err != nil {
		return nil, fmt.Errorf("can not open bolt database %q: %w", path, err)
	}

	err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(blocksBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("can not create buckets: %w", err)
	}
	logger.Log.Info("bolt storage opened", zap.String("path", path))
	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) GetBlock(_ context.Context, cid dag.CID) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blocksBucket).Get([]byte(cid))
		if v == nil {
			return fmt.Errorf("%w: %s", storage.ErrBlockNotFound, cid)
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (s *BoltStorage) HasBlock(_ context.Context, cid dag.CID) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(blocksBucket).Get([]byte(cid)) != nil
		return nil
	})
	return found, err
}

func (s *BoltStorage) PutBlocks(_ context.Context, blocks []dag.Block) error {
	if len(blocks) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(blocksBucket)
		for _, b := range blocks {
			if bucket.Get([]byte(b.CID)) != nil {
				continue
			}
			if err := bucket.Put([]byte(b.CID), b.Data); err != nil {
				return fmt.Errorf("can not put block %s: %w", b.CID, err)
			}
		}
		return nil
	})
}

func (s *BoltStorage) LoadRoot(_ context.Context) (dag.CID, error) {
	var root dag.CID
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(rootKey)
		if v == nil {
			return storage.ErrRootNotFound
		}
		root = dag.CID(v)
		return nil
	})
	return root, err
}

// SaveRoot commits the root; bolt fsyncs on every committed transaction.
func (s *BoltStorage) SaveRoot(_ context.Context, root dag.CID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(rootKey, []byte(root))
	})
}

func (s *BoltStorage) CountBlocks(_ context.Context) (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(blocksBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// Close the database and release the file lock.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
