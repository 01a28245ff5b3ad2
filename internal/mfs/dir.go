package mfs

import (
	"context"
	"sort"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/models"
)

// directory is the capability shared by plain and sharded directories.
// Callers never need to know which layout is underneath.
type directory interface {
	// links returns all children ordered by name.
	links(ctx context.Context) ([]dag.Link, error)
	lookup(ctx context.Context, name string) (dag.CID, bool, error)
	// set adds or replaces a child and reports whether it was added.
	set(ctx context.Context, name string, cid dag.CID) (bool, error)
	remove(ctx context.Context, name string) (bool, error)
	// encode returns the directory node. Any inner nodes are staged.
	encode() (*dag.Node, error)
}

func (t *Txn) openDir(e Entry) (directory, error) {
	switch e.Kind() {
	case models.KindDirectory:
		return &plainDir{node: e.node.Clone()}, nil
	case models.KindShardedDirectory:
		return newShardedDir(t, e.node)
	default:
		return nil, ErrNotDir
	}
}

// plainDir keeps every link in the directory node itself.
type plainDir struct {
	node *dag.Node
}

func (d *plainDir) links(_ context.Context) ([]dag.Link, error) {
	return append([]dag.Link(nil), d.node.Links...), nil
}

func (d *plainDir) lookup(_ context.Context, name string) (dag.CID, bool, error) {
	cid, ok := findLink(d.node.Links, name)
	return cid, ok, nil
}

func (d *plainDir) set(_ context.Context, name string, cid dag.CID) (bool, error) {
	var added bool
	d.node.Links, added = putLink(d.node.Links, dag.Link{Name: name, CID: cid})
	return added, nil
}

func (d *plainDir) remove(_ context.Context, name string) (bool, error) {
	var ok bool
	d.node.Links, ok = dropLink(d.node.Links, name)
	return ok, nil
}

func (d *plainDir) encode() (*dag.Node, error) {
	return d.node.Clone(), nil
}

func (d *plainDir) len() int {
	return len(d.node.Links)
}

// toSharded moves all links of d into a new sharded directory with the same
// mode and mtime.
func (t *Txn) toSharded(ctx context.Context, d *plainDir) (*shardedDir, error) {
	header := d.node.Clone()
	header.Kind = models.KindShardedDirectory
	header.Links = nil
	sd, err := newShardedDir(t, header)
	if err != nil {
		return nil, err
	}
	for _, l := range d.node.Links {
		if _, err := sd.set(ctx, l.Name, l.CID); err != nil {
			return nil, err
		}
	}
	return sd, nil
}

func searchLink(links []dag.Link, name string) (int, bool) {
	i := sort.Search(len(links), func(i int) bool { return links[i].Name >= name })
	return i, i < len(links) && links[i].Name == name
}

func findLink(links []dag.Link, name string) (dag.CID, bool) {
	i, ok := searchLink(links, name)
	if !ok {
		return "", false
	}
	return links[i].CID, true
}

// putLink returns a new sorted slice with l inserted or replaced.
func putLink(links []dag.Link, l dag.Link) ([]dag.Link, bool) {
	i, ok := searchLink(links, l.Name)
	out := make([]dag.Link, 0, len(links)+1)
	out = append(out, links[:i]...)
	out = append(out, l)
	if ok {
		out = append(out, links[i+1:]...)
		return out, false
	}
	out = append(out, links[i:]...)
	return out, true
}

func dropLink(links []dag.Link, name string) ([]dag.Link, bool) {
	i, ok := searchLink(links, name)
	if !ok {
		return links, false
	}
	out := make([]dag.Link, 0, len(links)-1)
	out = append(out, links[:i]...)
	out = append(out, links[i+1:]...)
	return out, true
}
