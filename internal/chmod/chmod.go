// Package chmod changes the mode of one entry or of a whole subtree in a
// single atomic step: either every entry gets its new mode under one new
// root or the tree is left untouched.
package chmod

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/mfs"
	"github.com/Fuonder/dagfs.git/internal/modeexpr"
	"github.com/Fuonder/dagfs.git/internal/models"
	"go.uber.org/zap"
)

// ErrTraversalConflict means a descendant could not be read while walking
// the subtree. Nothing is changed when it is returned.
var ErrTraversalConflict = errors.New("subtree changed or is incomplete during traversal")

// Txn is what the mutator needs from a tree transaction. *mfs.Txn
// implements it whatever directory layout or block store is underneath.
type Txn interface {
	Resolve(ctx context.Context, path string) (mfs.Entry, error)
	ChildrenOf(ctx context.Context, dir mfs.Entry) ([]mfs.Entry, error)
	WithMode(e mfs.Entry, mode models.Mode) (mfs.Entry, error)
	WithChildren(ctx context.Context, dir mfs.Entry, changed []mfs.Entry) (mfs.Entry, error)
	Persist(ctx context.Context, path string, e mfs.Entry) (dag.CID, error)
	SwapRoot(ctx context.Context, root dag.CID, durable bool) (mfs.Root, error)
}

// Tree starts transactions on the current root.
type Tree interface {
	Begin() Txn
}

// TreeFunc adapts a function to Tree.
type TreeFunc func() Txn

func (f TreeFunc) Begin() Txn {
	return f()
}

// FromFS returns the Tree view of fs.
func FromFS(fs *mfs.FS) Tree {
	return TreeFunc(func() Txn { return fs.Begin() })
}

type Options struct {
	// Recursive applies the expression to every descendant of a directory.
	Recursive bool
	// Flush saves the new root before returning.
	Flush bool
}

type Mutator struct {
	tree Tree
}

func New(tree Tree) *Mutator {
	return &Mutator{tree: tree}
}

// Chmod parses spec and applies it to path. A malformed spec fails before
// any entry is read.
func (m *Mutator) Chmod(ctx context.Context, path, spec string, opts Options) (mfs.Root, error) {
	expr, err := modeexpr.Parse(spec)
	if err != nil {
		return mfs.Root{}, err
	}
	return m.apply(ctx, path, expr, opts)
}

// ChmodMode sets the mode of path to an already numeric value.
func (m *Mutator) ChmodMode(ctx context.Context, path string, mode models.Mode, opts Options) (mfs.Root, error) {
	expr, err := modeexpr.FromMode(mode)
	if err != nil {
		return mfs.Root{}, err
	}
	return m.apply(ctx, path, expr, opts)
}

func (m *Mutator) apply(ctx context.Context, path string, expr modeexpr.Expression, opts Options) (mfs.Root, error) {
	txn := m.tree.Begin()
	target, err := txn.Resolve(ctx, path)
	if err != nil {
		return mfs.Root{}, err
	}

	w := walker{txn: txn, expr: expr, recursive: opts.Recursive}
	updated, err := w.rewrite(ctx, path, target)
	if err != nil {
		return mfs.Root{}, err
	}
	root, err := txn.Persist(ctx, path, updated)
	if err != nil {
		return mfs.Root{}, err
	}
	handle, err := txn.SwapRoot(ctx, root, opts.Flush)
	if err != nil {
		return mfs.Root{}, err
	}
	logger.Log.Debug("mode changed",
		zap.String("path", path),
		zap.Stringer("expression", expr),
		zap.Bool("recursive", opts.Recursive),
		zap.Int("entries", w.visited),
		zap.String("root", root.String()))
	return handle, nil
}

type walker struct {
	txn       Txn
	expr      modeexpr.Expression
	recursive bool
	visited   int
}

// rewrite computes the new mode of e from its own prior mode, then does the
// same for each child and rebuilds e around the changed children.
func (w *walker) rewrite(ctx context.Context, path string, e mfs.Entry) (mfs.Entry, error) {
	w.visited++
	mode := w.expr.Apply(e.Mode(), e.IsDir())
	if !w.recursive || !e.IsDir() {
		return w.txn.WithMode(e, mode)
	}

	children, err := w.txn.ChildrenOf(ctx, e)
	if err != nil {
		return mfs.Entry{}, fmt.Errorf("%w: %s: %w", ErrTraversalConflict, path, err)
	}
	changed := make([]mfs.Entry, 0, len(children))
	for _, c := range children {
		if err := ctx.Err(); err != nil {
			return mfs.Entry{}, err
		}
		nc, err := w.rewrite(ctx, mfs.Join(path, c.Name), c)
		if err != nil {
			return mfs.Entry{}, err
		}
		if nc.CID != c.CID {
			changed = append(changed, nc)
		}
	}

	if len(changed) > 0 {
		if e, err = w.txn.WithChildren(ctx, e, changed); err != nil {
			return mfs.Entry{}, fmt.Errorf("%w: %s: %w", ErrTraversalConflict, path, err)
		}
	}
	return w.txn.WithMode(e, mode)
}
