package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/storage"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

func isConnectionError(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		state := pgErr.SQLState()
		if strings.HasPrefix(state, "08") {
			return true
		}
	}
	return false
}

type PSQLConnection struct {
	db *sql.DB
}

func NewPSQLConnection(ctx context.Context, settings string) (*PSQLConnection, error) {
	var err error
	c := &PSQLConnection{}

	logger.Log.Info("Connecting to database")
	c.db, err = sql.Open("pgx", settings)
	if err != nil {
		return &PSQLConnection{}, fmt.Errorf("can not connect with database: %v", err)
	}
	logger.Log.Info("Database initial connection successful")
	err = c.TryConnectContext(ctx)
	if err != nil {
		return &PSQLConnection{}, fmt.Errorf("access to database: %v", err)
	}
	return c, nil
}

func (c *PSQLConnection) TryConnectContext(ctx context.Context) error {
	logger.Log.Info("Checking db accessibility")
	if c.db == nil {
		logger.Log.Warn("no active connection with db")
		return fmt.Errorf("no active connection with db")
	}
	retry := 0
	ping := func() error {
		err := c.db.PingContext(ctx)
		if err == nil {
			return nil
		}
		if !isConnectionError(err) {
			return backoff.Permanent(err)
		}
		retry++
		logger.Log.Info("can not access database", zap.Error(err), zap.Int("retry-count", retry))
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), maxRetries), ctx)
	if err := backoff.Retry(ping, b); err != nil {
		return fmt.Errorf("can not access database: %v", err)
	}
	logger.Log.Info("Access - OK")
	return nil
}

func (c *PSQLConnection) CreateTablesContext(ctx context.Context) error {
	logger.Log.Info("Creating tables in database")
	query := `
			CREATE TABLE IF NOT EXISTS blocks (
			cid TEXT PRIMARY KEY,
			data BYTEA NOT NULL);
		`

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		logger.Log.Error("Failed to create blocks table", zap.Error(err))
		return err
	}

	query = `
			CREATE TABLE IF NOT EXISTS roots (
			id INTEGER PRIMARY KEY,
			cid TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now());
			`
	_, err = c.db.ExecContext(ctx, query)
	if err != nil {
		logger.Log.Error("Failed to create roots table", zap.Error(err))
		return err
	}
	logger.Log.Info("Tables created successfully")
	return nil
}

func (c *PSQLConnection) GetBlock(ctx context.Context, cid dag.CID) ([]byte, error) {
	var data []byte

	query := `SELECT data FROM blocks WHERE cid = $1`
	err := c.db.QueryRowContext(ctx, query, string(cid)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrBlockNotFound, cid)
		}
		return nil, fmt.Errorf("error searching for block: %v", err)
	}
	return data, nil
}

func (c *PSQLConnection) CountBlocks(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM blocks`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("can not count blocks: %v", err)
	}
	return n, nil
}

func (c *PSQLConnection) GetRoot(ctx context.Context) (dag.CID, error) {
	var root string

	query := `SELECT cid FROM roots WHERE id = 1`
	err := c.db.QueryRowContext(ctx, query).Scan(&root)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrRootNotFound
		}
		return "", fmt.Errorf("error searching for root: %v", err)
	}
	return dag.CID(root), nil
}

func (c *PSQLConnection) AppendBatch(ctx context.Context, blocks []dag.Block) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`
			INSERT INTO blocks (cid, data)
			VALUES ($1, $2)
			ON CONFLICT (cid) DO NOTHING;
		`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range blocks {
		_, err = stmt.ExecContext(ctx, string(b.CID), b.Data)
		if err != nil {
			return fmt.Errorf("can not append block %s: %v", b.CID, err)
		}
	}
	return tx.Commit()
}

func (c *PSQLConnection) SetRoot(ctx context.Context, root dag.CID) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
			INSERT INTO roots (id, cid, updated_at)
			VALUES (1, $1, now())
			ON CONFLICT (id)
			DO UPDATE SET cid = EXCLUDED.cid, updated_at = EXCLUDED.updated_at;
		`
	_, err = tx.ExecContext(ctx, query, string(root))
	if err != nil {
		return fmt.Errorf("can not set root: %v", err)
	}
	return tx.Commit()
}

func (c *PSQLConnection) Close() error {
	return c.db.Close()
}
