package mfs

import (
	"context"
	"errors"
	"time"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/models"
	"go.uber.org/zap"
)

type MkdirOptions struct {
	// Parents creates missing parents and accepts an existing directory.
	Parents bool
	// Mode of every created directory, models.DefaultDirMode when nil.
	Mode  *models.Mode
	MTime time.Time
	Flush bool
}

type WriteOptions struct {
	Create bool
	// Mode replaces the file mode. New files default to
	// models.DefaultFileMode, existing files keep theirs.
	Mode  *models.Mode
	MTime time.Time
	Flush bool
	// ShardSplitThreshold overrides the tree default for this write.
	ShardSplitThreshold *int
}

type TouchOptions struct {
	MTime time.Time
	Flush bool
}

func (fs *FS) Stat(ctx context.Context, path string) (models.Stat, error) {
	e, err := fs.Begin().Resolve(ctx, path)
	if err != nil {
		return models.Stat{}, opError("stat", path, err)
	}
	return e.stat(), nil
}

func (fs *FS) Ls(ctx context.Context, path string) ([]models.DirEntry, error) {
	t := fs.Begin()
	e, err := t.Resolve(ctx, path)
	if err != nil {
		return nil, opError("ls", path, err)
	}
	children, err := t.ChildrenOf(ctx, e)
	if err != nil {
		return nil, opError("ls", path, err)
	}
	out := make([]models.DirEntry, 0, len(children))
	for _, c := range children {
		out = append(out, models.DirEntry{
			Name: c.Name,
			CID:  c.CID.String(),
			Type: c.Kind(),
			Mode: c.Mode(),
			Size: c.Size(),
		})
	}
	return out, nil
}

func (fs *FS) Read(ctx context.Context, path string) ([]byte, error) {
	e, err := fs.Begin().Resolve(ctx, path)
	if err != nil {
		return nil, opError("read", path, err)
	}
	if e.IsDir() {
		return nil, &FSError{Op: "read", Path: path, Err: ErrIsDir}
	}
	return append([]byte(nil), e.node.Data...), nil
}

func (fs *FS) Mkdir(ctx context.Context, path string, opts MkdirOptions) (Root, error) {
	parts, err := splitPath(path)
	if err != nil {
		return Root{}, &FSError{Op: "mkdir", Path: path, Err: err}
	}
	if len(parts) == 0 {
		if opts.Parents {
			return fs.Root(), nil
		}
		return Root{}, &FSError{Op: "mkdir", Path: path, Err: ErrExist}
	}

	mode := models.DefaultDirMode
	if opts.Mode != nil {
		mode = *opts.Mode & models.ModeMask
	}
	mtime := fs.mtime(opts.MTime)
	last := len(parts) - 1

	t := fs.Begin()
	created := false
	for i := range parts {
		p := joinPath(parts[:i+1])
		e, err := t.Resolve(ctx, p)
		if err == nil {
			if i == last && (!opts.Parents || !e.IsDir()) {
				return Root{}, &FSError{Op: "mkdir", Path: p, Err: ErrExist}
			}
			if !e.IsDir() {
				return Root{}, &FSError{Op: "mkdir", Path: p, Err: ErrNotDir}
			}
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return Root{}, opError("mkdir", path, err)
		}
		if i < last && !opts.Parents {
			return Root{}, &FSError{Op: "mkdir", Path: p, Err: ErrNotFound}
		}

		n := &dag.Node{Kind: models.KindDirectory, Mode: mode}
		n.SetModTime(mtime)
		cid, err := t.stage(n)
		if err != nil {
			return Root{}, err
		}
		if _, err := t.Persist(ctx, p, newEntry(parts[i], cid, n)); err != nil {
			return Root{}, opError("mkdir", p, err)
		}
		created = true
	}
	if !created {
		return fs.Root(), nil
	}
	logger.Log.Debug("directory created", zap.String("path", path), zap.Stringer("mode", mode))
	return t.SwapRoot(ctx, t.Root(), opts.Flush)
}

// Write replaces the whole content of the file at path.
func (fs *FS) Write(ctx context.Context, path string, data []byte, opts WriteOptions) (Root, error) {
	t := fs.Begin()
	if opts.ShardSplitThreshold != nil {
		t.splitThreshold = *opts.ShardSplitThreshold
	}

	n, err := fs.fileNode(ctx, t, "write", path, opts.Create)
	if err != nil {
		return Root{}, err
	}
	if opts.Mode != nil {
		n.Mode = *opts.Mode & models.ModeMask
	}
	n.Data = append([]byte(nil), data...)
	n.SetModTime(fs.mtime(opts.MTime))

	root, err := fs.replace(ctx, t, "write", path, n, opts.Flush)
	if err != nil {
		return Root{}, err
	}
	logger.Log.Debug("file written", zap.String("path", path), zap.Int("size", len(data)))
	return root, nil
}

// Touch creates an empty file or updates the mtime of an existing entry.
func (fs *FS) Touch(ctx context.Context, path string, opts TouchOptions) (Root, error) {
	t := fs.Begin()
	e, err := t.Resolve(ctx, path)
	var n *dag.Node
	switch {
	case err == nil:
		n = e.node.Clone()
	case errors.Is(err, ErrNotFound):
		n = &dag.Node{Kind: models.KindFile, Mode: models.DefaultFileMode}
	default:
		return Root{}, opError("touch", path, err)
	}
	n.SetModTime(fs.mtime(opts.MTime))
	return fs.replace(ctx, t, "touch", path, n, opts.Flush)
}

// fileNode returns a copy of the file at path, or a new empty file when it
// is missing and create is set.
func (fs *FS) fileNode(ctx context.Context, t *Txn, op, path string, create bool) (*dag.Node, error) {
	e, err := t.Resolve(ctx, path)
	switch {
	case err == nil:
		if e.IsDir() {
			return nil, &FSError{Op: op, Path: path, Err: ErrIsDir}
		}
		return e.node.Clone(), nil
	case errors.Is(err, ErrNotFound) && create:
		return &dag.Node{Kind: models.KindFile, Mode: models.DefaultFileMode}, nil
	default:
		return nil, opError(op, path, err)
	}
}

func (fs *FS) replace(ctx context.Context, t *Txn, op, path string, n *dag.Node, durable bool) (Root, error) {
	parts, err := splitPath(path)
	if err != nil {
		return Root{}, &FSError{Op: op, Path: path, Err: err}
	}
	name := ""
	if len(parts) > 0 {
		name = parts[len(parts)-1]
	}
	cid, err := t.stage(n)
	if err != nil {
		return Root{}, err
	}
	root, err := t.Persist(ctx, path, newEntry(name, cid, n))
	if err != nil {
		return Root{}, opError(op, path, err)
	}
	return t.SwapRoot(ctx, root, durable)
}
