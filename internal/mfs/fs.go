// Package mfs is a mutable file tree on top of immutable content addressed
// nodes. Every change builds new nodes from the changed entry up to the
// root, and the tree moves to the new version by swapping a single root
// handle.
package mfs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/Fuonder/dagfs.git/internal/storage"
	"go.uber.org/zap"
)

// DefaultShardSplitThreshold is the number of entries a plain directory may
// hold before it is converted to the sharded layout.
const DefaultShardSplitThreshold = 1000

type Options struct {
	// ShardSplitThreshold applies to every insert. Zero or less selects
	// DefaultShardSplitThreshold; a single write can still ask for a lower
	// threshold, zero included.
	ShardSplitThreshold int
}

type FS struct {
	store storage.BlockStore
	opts  Options
	now   func() time.Time

	mu      sync.RWMutex
	root    Root
	pending bool
}

// New opens the tree kept in store. An empty store gets an empty root
// directory which is saved right away.
func New(ctx context.Context, store storage.BlockStore, opts Options) (*FS, error) {
	if opts.ShardSplitThreshold <= 0 {
		opts.ShardSplitThreshold = DefaultShardSplitThreshold
	}
	fs := &FS{store: store, opts: opts, now: time.Now}

	cid, err := store.LoadRoot(ctx)
	switch {
	case errors.Is(err, storage.ErrRootNotFound):
		n := &dag.Node{Kind: models.KindDirectory, Mode: models.DefaultDirMode}
		n.SetModTime(fs.now())
		blk, err := dag.NewBlock(n)
		if err != nil {
			return nil, err
		}
		if err := store.PutBlocks(ctx, []dag.Block{blk}); err != nil {
			return nil, fmt.Errorf("can not store empty root: %w", err)
		}
		if err := fs.publish(ctx, blk.CID); err != nil {
			return nil, err
		}
		cid = blk.CID
		logger.Log.Info("created empty file tree", zap.String("root", cid.String()))
	case err != nil:
		return nil, fmt.Errorf("can not load root: %w", err)
	default:
		ok, err := store.HasBlock(ctx, cid)
		if err != nil {
			return nil, fmt.Errorf("can not check root block: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: root %s", storage.ErrBlockNotFound, cid)
		}
		logger.Log.Info("file tree restored", zap.String("root", cid.String()))
	}

	fs.root = Root{CID: cid}
	return fs, nil
}

// Root returns the current root handle.
func (fs *FS) Root() Root {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.root
}

// Pending reports whether the current root has not been saved yet.
func (fs *FS) Pending() bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.pending
}

func (fs *FS) publish(ctx context.Context, root dag.CID) error {
	if err := fs.store.SaveRoot(ctx, root); err != nil {
		return fmt.Errorf("can not save root: %w", err)
	}
	if fh, ok := fs.store.(storage.BlockFileHandler); ok {
		if err := fh.DumpBlocks(); err != nil {
			return fmt.Errorf("can not dump blocks: %w", err)
		}
	}
	return nil
}

func (fs *FS) swapRoot(ctx context.Context, root dag.CID, durable bool) (Root, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if durable {
		if err := fs.publish(ctx, root); err != nil {
			return fs.root, err
		}
	}
	fs.root = Root{CID: root, Version: fs.root.Version + 1}
	fs.pending = !durable
	logger.Log.Debug("root swapped",
		zap.String("root", root.String()),
		zap.Uint64("version", fs.root.Version),
		zap.Bool("durable", durable))
	return fs.root, nil
}

// Flush saves a pending root. It is a no-op when nothing is pending.
func (fs *FS) Flush(ctx context.Context) (Root, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !fs.pending {
		return fs.root, nil
	}
	if err := fs.publish(ctx, fs.root.CID); err != nil {
		return fs.root, err
	}
	fs.pending = false
	logger.Log.Info("root flushed", zap.String("root", fs.root.CID.String()), zap.Uint64("version", fs.root.Version))
	return fs.root, nil
}

// Info describes the tree and its store.
func (fs *FS) Info(ctx context.Context) (models.FSStat, error) {
	root := fs.Root()
	n, err := fs.store.CountBlocks(ctx)
	if err != nil {
		return models.FSStat{}, err
	}
	return models.FSStat{
		Root:    root.CID.String(),
		Version: root.Version,
		Pending: fs.Pending(),
		Blocks:  n,
	}, nil
}

func (fs *FS) mtime(t time.Time) time.Time {
	if t.IsZero() {
		return fs.now()
	}
	return t
}
