package mfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/models"
	"go.uber.org/zap"
)

var errUnresolved = errors.New("entry has not been resolved")

// Txn reads one version of the tree and builds new nodes next to it.
// New nodes stay in the staging area until Persist writes them, so an
// abandoned Txn leaves the store untouched. A Txn is not safe for
// concurrent use.
type Txn struct {
	fs   *FS
	root dag.CID

	nodes  map[dag.CID]*dag.Node
	staged map[dag.CID][]byte
	order  []dag.CID

	splitThreshold int
}

// Begin starts a transaction on the current root.
func (fs *FS) Begin() *Txn {
	return fs.BeginAt(fs.Root().CID)
}

// BeginAt starts a transaction on a caller selected root version.
func (fs *FS) BeginAt(root dag.CID) *Txn {
	return &Txn{
		fs:             fs,
		root:           root,
		nodes:          make(map[dag.CID]*dag.Node),
		staged:         make(map[dag.CID][]byte),
		splitThreshold: fs.opts.ShardSplitThreshold,
	}
}

// Root is the root this Txn currently reads, including its own persisted
// changes.
func (t *Txn) Root() dag.CID {
	return t.root
}

func (t *Txn) load(ctx context.Context, cid dag.CID) (*dag.Node, error) {
	if n, ok := t.nodes[cid]; ok {
		return n, nil
	}
	data, err := t.fs.store.GetBlock(ctx, cid)
	if err != nil {
		return nil, err
	}
	if dag.Sum(data) != cid {
		return nil, fmt.Errorf("%w: %s does not match its content", ErrCorruptBlock, cid)
	}
	n, err := dag.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
	}
	t.nodes[cid] = n
	return n, nil
}

// stage encodes n and keeps it until the next Persist. n must not be
// modified afterwards.
func (t *Txn) stage(n *dag.Node) (dag.CID, error) {
	blk, err := dag.NewBlock(n)
	if err != nil {
		return "", err
	}
	if _, ok := t.staged[blk.CID]; !ok {
		t.staged[blk.CID] = blk.Data
		t.order = append(t.order, blk.CID)
	}
	t.nodes[blk.CID] = n
	return blk.CID, nil
}

func (t *Txn) rootEntry(ctx context.Context) (Entry, error) {
	n, err := t.load(ctx, t.root)
	if err != nil {
		return Entry{}, err
	}
	return newEntry("", t.root, n), nil
}

// Resolve finds the entry at path.
func (t *Txn) Resolve(ctx context.Context, path string) (Entry, error) {
	parts, err := splitPath(path)
	if err != nil {
		return Entry{}, &FSError{Op: "resolve", Path: path, Err: err}
	}
	cur, err := t.rootEntry(ctx)
	if err != nil {
		return Entry{}, &FSError{Op: "resolve", Path: "/", Err: err}
	}
	for i, name := range parts {
		d, err := t.openDir(cur)
		if err != nil {
			return Entry{}, &FSError{Op: "resolve", Path: joinPath(parts[:i]), Err: err}
		}
		cid, ok, err := d.lookup(ctx, name)
		if err != nil {
			return Entry{}, &FSError{Op: "resolve", Path: joinPath(parts[:i]), Err: err}
		}
		if !ok {
			return Entry{}, &FSError{Op: "resolve", Path: joinPath(parts[:i+1]), Err: ErrNotFound}
		}
		n, err := t.load(ctx, cid)
		if err != nil {
			return Entry{}, &FSError{Op: "resolve", Path: joinPath(parts[:i+1]), Err: err}
		}
		cur = newEntry(name, cid, n)
	}
	return cur, nil
}

// ChildrenOf lists the entries of a directory ordered by name.
func (t *Txn) ChildrenOf(ctx context.Context, dir Entry) ([]Entry, error) {
	if dir.node == nil {
		return nil, errUnresolved
	}
	d, err := t.openDir(dir)
	if err != nil {
		return nil, err
	}
	links, err := d.links(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(links))
	for _, l := range links {
		n, err := t.load(ctx, l.CID)
		if err != nil {
			return nil, fmt.Errorf("child %q: %w", l.Name, err)
		}
		out = append(out, newEntry(l.Name, l.CID, n))
	}
	return out, nil
}

// WithMode returns a copy of e carrying mode. e itself is unchanged.
func (t *Txn) WithMode(e Entry, mode models.Mode) (Entry, error) {
	if e.node == nil {
		return Entry{}, errUnresolved
	}
	n := e.node.Clone()
	n.Mode = mode & models.ModeMask
	cid, err := t.stage(n)
	if err != nil {
		return Entry{}, err
	}
	return newEntry(e.Name, cid, n), nil
}

// WithChildren returns a copy of dir whose children named in changed point
// at the given entries. Every changed entry must already be a child of dir.
func (t *Txn) WithChildren(ctx context.Context, dir Entry, changed []Entry) (Entry, error) {
	if dir.node == nil {
		return Entry{}, errUnresolved
	}
	d, err := t.openDir(dir)
	if err != nil {
		return Entry{}, err
	}
	for _, c := range changed {
		old, ok, err := d.lookup(ctx, c.Name)
		if err != nil {
			return Entry{}, err
		}
		if !ok {
			return Entry{}, fmt.Errorf("child %q: %w", c.Name, ErrNotFound)
		}
		if old == c.CID {
			continue
		}
		if _, err := d.set(ctx, c.Name, c.CID); err != nil {
			return Entry{}, err
		}
	}
	n, err := d.encode()
	if err != nil {
		return Entry{}, err
	}
	cid, err := t.stage(n)
	if err != nil {
		return Entry{}, err
	}
	return newEntry(dir.Name, cid, n), nil
}

// Persist places e at path, rebuilds every ancestor up to the root and
// writes the staged nodes to the store. The parent of path must exist. It
// returns the new root, which is not published until SwapRoot.
func (t *Txn) Persist(ctx context.Context, path string, e Entry) (dag.CID, error) {
	if e.node == nil {
		return "", &FSError{Op: "persist", Path: path, Err: errUnresolved}
	}
	parts, err := splitPath(path)
	if err != nil {
		return "", &FSError{Op: "persist", Path: path, Err: err}
	}
	if len(parts) == 0 {
		if !e.IsDir() {
			return "", &FSError{Op: "persist", Path: path, Err: ErrNotDir}
		}
		return t.commit(ctx, e.CID)
	}

	cur, err := t.rootEntry(ctx)
	if err != nil {
		return "", &FSError{Op: "persist", Path: "/", Err: err}
	}
	dirs := make([]directory, len(parts))
	for i := range parts {
		d, err := t.openDir(cur)
		if err != nil {
			return "", &FSError{Op: "persist", Path: joinPath(parts[:i]), Err: err}
		}
		dirs[i] = d
		if i == len(parts)-1 {
			break
		}
		cid, ok, err := d.lookup(ctx, parts[i])
		if err != nil {
			return "", &FSError{Op: "persist", Path: joinPath(parts[:i]), Err: err}
		}
		if !ok {
			return "", &FSError{Op: "persist", Path: joinPath(parts[:i+1]), Err: ErrNotFound}
		}
		n, err := t.load(ctx, cid)
		if err != nil {
			return "", &FSError{Op: "persist", Path: joinPath(parts[:i+1]), Err: err}
		}
		cur = newEntry(parts[i], cid, n)
	}

	child := e.CID
	for i := len(parts) - 1; i >= 0; i-- {
		d := dirs[i]
		added, err := d.set(ctx, parts[i], child)
		if err != nil {
			return "", &FSError{Op: "persist", Path: joinPath(parts[:i]), Err: err}
		}
		if pd, ok := d.(*plainDir); ok && added && pd.len() > t.splitThreshold {
			if d, err = t.toSharded(ctx, pd); err != nil {
				return "", &FSError{Op: "persist", Path: joinPath(parts[:i]), Err: err}
			}
			logger.Log.Debug("directory converted to sharded layout",
				zap.String("path", joinPath(parts[:i])), zap.Int("entries", pd.len()))
		}
		n, err := d.encode()
		if err != nil {
			return "", &FSError{Op: "persist", Path: joinPath(parts[:i]), Err: err}
		}
		if child, err = t.stage(n); err != nil {
			return "", &FSError{Op: "persist", Path: joinPath(parts[:i]), Err: err}
		}
	}
	return t.commit(ctx, child)
}

func (t *Txn) commit(ctx context.Context, root dag.CID) (dag.CID, error) {
	if len(t.order) > 0 {
		blocks := make([]dag.Block, 0, len(t.order))
		for _, cid := range t.order {
			blocks = append(blocks, dag.Block{CID: cid, Data: t.staged[cid]})
		}
		if err := t.fs.store.PutBlocks(ctx, blocks); err != nil {
			return "", fmt.Errorf("can not store blocks: %w", err)
		}
		logger.Log.Debug("blocks persisted", zap.Int("count", len(blocks)), zap.String("root", root.String()))
		t.staged = make(map[dag.CID][]byte)
		t.order = nil
	}
	t.root = root
	return root, nil
}

// SwapRoot publishes root as the current version of the tree. With durable
// set the root is saved to the store before it becomes visible, otherwise
// it stays pending until the next flush.
func (t *Txn) SwapRoot(ctx context.Context, root dag.CID, durable bool) (Root, error) {
	return t.fs.swapRoot(ctx, root, durable)
}
