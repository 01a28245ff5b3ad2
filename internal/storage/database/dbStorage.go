package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/storage"
	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const (
	maxRetries     = 3
	initialBackOff = time.Second
	readTimeout    = 5 * time.Second
	writeTimeout   = 10 * time.Second
)

var errNoConnection = errors.New("no active connection with db")

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialBackOff
	return b
}

// DBStorage implements storage.BlockStore over a DBConnection.
type DBStorage struct {
	connection storage.DBConnection
	rwMutex    sync.RWMutex
}

func NewDBStorage(ctx context.Context, conn storage.DBConnection) (*DBStorage, error) {
	db := &DBStorage{connection: conn}
	err := db.connection.TryConnectContext(ctx)
	if err != nil {
		return &DBStorage{}, fmt.Errorf("NewDBStorage: %v", err)
	}
	err = db.connection.CreateTablesContext(ctx)
	if err != nil {
		return &DBStorage{}, fmt.Errorf("NewDBStorage: %v", err)
	}
	return db, nil
}

func (db *DBStorage) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if db.connection == nil {
		return errNoConnection
	}
	return db.connection.TryConnectContext(ctx)
}

func (db *DBStorage) Close() error {
	logger.Log.Info("Closing database connection gracefully")
	if db.connection != nil {
		return db.connection.Close()
	}
	return nil
}

func (db *DBStorage) GetBlock(ctx context.Context, cid dag.CID) ([]byte, error) {
	db.rwMutex.RLock()
	defer db.rwMutex.RUnlock()
	if db.connection == nil {
		return nil, errNoConnection
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	data, err := db.connection.GetBlock(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("GetBlock: %w", err)
	}
	return data, nil
}

func (db *DBStorage) HasBlock(ctx context.Context, cid dag.CID) (bool, error) {
	_, err := db.GetBlock(ctx, cid)
	if errors.Is(err, storage.ErrBlockNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DBStorage) PutBlocks(ctx context.Context, blocks []dag.Block) error {
	if len(blocks) == 0 {
		return nil
	}
	db.rwMutex.Lock()
	defer db.rwMutex.Unlock()
	if db.connection == nil {
		return errNoConnection
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := db.connection.AppendBatch(ctx, blocks); err != nil {
		return fmt.Errorf("PutBlocks: %w", err)
	}
	logger.Log.Debug("blocks stored", zap.Int("count", len(blocks)))
	return nil
}

func (db *DBStorage) LoadRoot(ctx context.Context) (dag.CID, error) {
	db.rwMutex.RLock()
	defer db.rwMutex.RUnlock()
	if db.connection == nil {
		return "", errNoConnection
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return db.connection.GetRoot(ctx)
}

func (db *DBStorage) SaveRoot(ctx context.Context, root dag.CID) error {
	db.rwMutex.Lock()
	defer db.rwMutex.Unlock()
	if db.connection == nil {
		return errNoConnection
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := db.connection.SetRoot(ctx, root); err != nil {
		return fmt.Errorf("SaveRoot: %w", err)
	}
	return nil
}

// CountBlocks TODO: cache the count, it is a full scan on big tables
func (db *DBStorage) CountBlocks(ctx context.Context) (int, error) {
	db.rwMutex.RLock()
	defer db.rwMutex.RUnlock()
	if db.connection == nil {
		return 0, errNoConnection
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return db.connection.CountBlocks(ctx)
}
