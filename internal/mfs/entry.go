package mfs

import (
	"time"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/models"
)

// Root is a published version of the tree.
type Root struct {
	CID     dag.CID
	Version uint64
}

// Entry is a file or directory as seen at one root. Entries are values:
// changing one yields a new Entry with a new CID and leaves the old one
// readable.
type Entry struct {
	Name string
	CID  dag.CID
	node *dag.Node
}

func newEntry(name string, cid dag.CID, n *dag.Node) Entry {
	return Entry{Name: name, CID: cid, node: n}
}

func (e Entry) Kind() models.Kind {
	if e.node == nil {
		return 0
	}
	return e.node.Kind
}

func (e Entry) IsDir() bool {
	return e.Kind().IsDir()
}

func (e Entry) Mode() models.Mode {
	if e.node == nil {
		return 0
	}
	return e.node.Mode
}

func (e Entry) ModTime() time.Time {
	if e.node == nil {
		return time.Time{}
	}
	return e.node.ModTime()
}

// Size is the content length of a file and zero for directories.
func (e Entry) Size() int64 {
	if e.node == nil || e.node.Kind != models.KindFile {
		return 0
	}
	return int64(len(e.node.Data))
}

func (e Entry) stat() models.Stat {
	st := models.Stat{
		CID:   e.CID.String(),
		Type:  e.Kind(),
		Mode:  e.Mode(),
		MTime: e.ModTime(),
		Size:  e.Size(),
	}
	if e.node != nil {
		st.Blocks = len(e.node.Links) + len(e.node.Slots)
	}
	return st
}
