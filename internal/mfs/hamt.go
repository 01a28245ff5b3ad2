package mfs

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/models"
)

// Sharded directories are a hash array mapped trie. Every shard has
// shardWidth slots addressed by shardBits of the 64 bit name hash. A slot
// holds a bucket of up to maxBucket links or a deeper shard. A slot is a
// bucket exactly when the names below it fit into one, so the shape and
// therefore the CID depend only on the set of names.
const (
	shardBits  = 4
	shardWidth = 1 << shardBits
	maxDepth   = 64 / shardBits
	maxBucket  = 4
)

func hashName(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

func slotIndex(h uint64, depth int) int {
	return int(h>>(64-shardBits*(depth+1))) & (shardWidth - 1)
}

type slot struct {
	links    []dag.Link
	childCID dag.CID
	child    *shard
}

func (sl *slot) isShard() bool {
	return sl.child != nil || sl.childCID.Defined()
}

type shard struct {
	depth int
	slots [shardWidth]*slot
	dirty bool
}

func shardFromSlots(slots []dag.Slot, depth int) (*shard, error) {
	s := &shard{depth: depth}
	for _, ds := range slots {
		if int(ds.Index) >= shardWidth || s.slots[ds.Index] != nil {
			return nil, fmt.Errorf("%w: bad shard slot %d", ErrCorruptBlock, ds.Index)
		}
		if ds.Child.Defined() == (len(ds.Links) > 0) {
			return nil, fmt.Errorf("%w: slot %d must hold either links or a shard", ErrCorruptBlock, ds.Index)
		}
		s.slots[ds.Index] = &slot{
			links:    append([]dag.Link(nil), ds.Links...),
			childCID: ds.Child,
		}
	}
	return s, nil
}

// shardedDir is a directory whose links live in a lazily loaded shard tree.
// Only the shards touched by lookups and updates are decoded.
type shardedDir struct {
	txn  *Txn
	node *dag.Node
	root *shard
}

func newShardedDir(t *Txn, n *dag.Node) (*shardedDir, error) {
	root, err := shardFromSlots(n.Slots, 0)
	if err != nil {
		return nil, err
	}
	header := n.Clone()
	header.Slots = nil
	return &shardedDir{txn: t, node: header, root: root}, nil
}

func (d *shardedDir) child(ctx context.Context, sl *slot, depth int) (*shard, error) {
	if sl.child != nil {
		return sl.child, nil
	}
	n, err := d.txn.load(ctx, sl.childCID)
	if err != nil {
		return nil, err
	}
	if n.Kind != models.KindShard {
		return nil, fmt.Errorf("%w: %s is a %s, expected a shard", ErrCorruptBlock, sl.childCID, n.Kind)
	}
	s, err := shardFromSlots(n.Slots, depth)
	if err != nil {
		return nil, err
	}
	sl.child = s
	return s, nil
}

func (d *shardedDir) links(ctx context.Context) ([]dag.Link, error) {
	var out []dag.Link
	if err := d.walk(ctx, d.root, func(l dag.Link) { out = append(out, l) }); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (d *shardedDir) walk(ctx context.Context, s *shard, fn func(dag.Link)) error {
	for _, sl := range s.slots {
		if sl == nil {
			continue
		}
		if !sl.isShard() {
			for _, l := range sl.links {
				fn(l)
			}
			continue
		}
		c, err := d.child(ctx, sl, s.depth+1)
		if err != nil {
			return err
		}
		if err := d.walk(ctx, c, fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *shardedDir) lookup(ctx context.Context, name string) (dag.CID, bool, error) {
	h := hashName(name)
	s := d.root
	for {
		sl := s.slots[slotIndex(h, s.depth)]
		if sl == nil {
			return "", false, nil
		}
		if !sl.isShard() {
			cid, ok := findLink(sl.links, name)
			return cid, ok, nil
		}
		c, err := d.child(ctx, sl, s.depth+1)
		if err != nil {
			return "", false, err
		}
		s = c
	}
}

func (d *shardedDir) set(ctx context.Context, name string, cid dag.CID) (bool, error) {
	return d.setIn(ctx, d.root, hashName(name), dag.Link{Name: name, CID: cid})
}

func (d *shardedDir) setIn(ctx context.Context, s *shard, h uint64, l dag.Link) (bool, error) {
	idx := slotIndex(h, s.depth)
	sl := s.slots[idx]
	if sl == nil {
		s.slots[idx] = &slot{links: []dag.Link{l}}
		s.dirty = true
		return true, nil
	}
	if sl.isShard() {
		c, err := d.child(ctx, sl, s.depth+1)
		if err != nil {
			return false, err
		}
		added, err := d.setIn(ctx, c, h, l)
		if err != nil {
			return false, err
		}
		s.dirty = true
		return added, nil
	}

	links, added := putLink(sl.links, l)
	s.dirty = true
	if len(links) <= maxBucket || s.depth == maxDepth-1 {
		sl.links = links
		return added, nil
	}
	c := &shard{depth: s.depth + 1, dirty: true}
	for _, bl := range links {
		if _, err := d.setIn(ctx, c, hashName(bl.Name), bl); err != nil {
			return false, err
		}
	}
	s.slots[idx] = &slot{child: c}
	return added, nil
}

func (d *shardedDir) remove(ctx context.Context, name string) (bool, error) {
	return d.removeIn(ctx, d.root, hashName(name), name)
}

func (d *shardedDir) removeIn(ctx context.Context, s *shard, h uint64, name string) (bool, error) {
	idx := slotIndex(h, s.depth)
	sl := s.slots[idx]
	if sl == nil {
		return false, nil
	}
	if !sl.isShard() {
		links, ok := dropLink(sl.links, name)
		if !ok {
			return false, nil
		}
		if len(links) == 0 {
			s.slots[idx] = nil
		} else {
			sl.links = links
		}
		s.dirty = true
		return true, nil
	}

	c, err := d.child(ctx, sl, s.depth+1)
	if err != nil {
		return false, err
	}
	ok, err := d.removeIn(ctx, c, h, name)
	if err != nil || !ok {
		return ok, err
	}
	s.dirty = true
	if links, fits := bucketOf(c); fits {
		if len(links) == 0 {
			s.slots[idx] = nil
		} else {
			s.slots[idx] = &slot{links: links}
		}
	}
	return true, nil
}

// bucketOf collects the links of a shard that holds only buckets, if they
// fit into a single bucket.
func bucketOf(s *shard) ([]dag.Link, bool) {
	var links []dag.Link
	for _, sl := range s.slots {
		if sl == nil {
			continue
		}
		if sl.isShard() {
			return nil, false
		}
		links = append(links, sl.links...)
		if len(links) > maxBucket {
			return nil, false
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Name < links[j].Name })
	return links, true
}

func (d *shardedDir) encode() (*dag.Node, error) {
	slots, err := d.encodeShard(d.root)
	if err != nil {
		return nil, err
	}
	n := d.node.Clone()
	n.Links = nil
	n.Slots = slots
	return n, nil
}

func (d *shardedDir) encodeShard(s *shard) ([]dag.Slot, error) {
	var out []dag.Slot
	for i, sl := range s.slots {
		if sl == nil {
			continue
		}
		ds := dag.Slot{Index: uint8(i)}
		if !sl.isShard() {
			ds.Links = append([]dag.Link(nil), sl.links...)
			out = append(out, ds)
			continue
		}
		if sl.child != nil && sl.child.dirty {
			childSlots, err := d.encodeShard(sl.child)
			if err != nil {
				return nil, err
			}
			cid, err := d.txn.stage(&dag.Node{Kind: models.KindShard, Slots: childSlots})
			if err != nil {
				return nil, err
			}
			sl.childCID = cid
			sl.child.dirty = false
		}
		ds.Child = sl.childCID
		out = append(out, ds)
	}
	return out, nil
}
