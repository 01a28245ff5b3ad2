// Package dag describes the immutable nodes of the file tree and how they
// are identified. A node's CID is the sha256 of its canonical JSON encoding,
// so any change to a node, a mode change included, yields a new CID.
package dag

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fuonder/dagfs.git/internal/models"
)

const cidPrefix = "sha256-"

var ErrInvalidCID = errors.New("invalid content identifier")

// CID is the content identifier of an encoded node.
type CID string

func (c CID) String() string {
	return string(c)
}

// Defined reports whether c is not the zero value.
func (c CID) Defined() bool {
	return c != ""
}

// ParseCID validates the textual form of a CID.
func ParseCID(s string) (CID, error) {
	if !strings.HasPrefix(s, cidPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCID, s)
	}
	raw, err := hex.DecodeString(s[len(cidPrefix):])
	if err != nil || len(raw) != sha256.Size {
		return "", fmt.Errorf("%w: %q", ErrInvalidCID, s)
	}
	return CID(s), nil
}

// Sum computes the CID of an encoded block.
func Sum(data []byte) CID {
	h := sha256.Sum256(data)
	return CID(cidPrefix + hex.EncodeToString(h[:]))
}

// Link names a child node.
type Link struct {
	Name string `json:"name"`
	CID  CID    `json:"cid"`
}

// Slot is one occupied position of a HAMT shard. It holds either a small
// bucket of links or a pointer to a deeper shard, never both.
type Slot struct {
	Index uint8  `json:"i"`
	Links []Link `json:"links,omitempty"`
	Child CID    `json:"child,omitempty"`
}

// Node is the decoded form of a block.
type Node struct {
	Kind  models.Kind `json:"kind"`
	Mode  models.Mode `json:"mode"`
	MTime int64       `json:"mtime,omitempty"`
	Data  []byte      `json:"data,omitempty"`
	// Links is set for plain directories and is kept sorted by name.
	Links []Link `json:"links,omitempty"`
	// Slots is set for sharded directories and shards, sorted by index.
	Slots []Slot `json:"slots,omitempty"`
}

// ModTime returns the modification time, zero if unset.
func (n *Node) ModTime() time.Time {
	if n.MTime == 0 {
		return time.Time{}
	}
	return time.Unix(0, n.MTime).UTC()
}

// SetModTime stores t with nanosecond precision.
func (n *Node) SetModTime(t time.Time) {
	if t.IsZero() {
		n.MTime = 0
		return
	}
	n.MTime = t.UnixNano()
}

// Clone returns a deep copy, so the copy can be modified without touching
// a node that may already be published.
func (n *Node) Clone() *Node {
	c := *n
	if n.Data != nil {
		c.Data = append([]byte(nil), n.Data...)
	}
	if n.Links != nil {
		c.Links = append([]Link(nil), n.Links...)
	}
	if n.Slots != nil {
		c.Slots = make([]Slot, len(n.Slots))
		for i, s := range n.Slots {
			c.Slots[i] = s
			if s.Links != nil {
				c.Slots[i].Links = append([]Link(nil), s.Links...)
			}
		}
	}
	return &c
}

// Encode returns the canonical encoding.
func (n *Node) Encode() ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("can not encode node: %w", err)
	}
	return data, nil
}

// Decode parses a block produced by Encode.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("can not decode node: %w", err)
	}
	n.Mode &= models.ModeMask
	return &n, nil
}

// Block is an encoded node together with its CID.
type Block struct {
	CID  CID
	Data []byte
}

// NewBlock encodes n and computes its CID.
func NewBlock(n *Node) (Block, error) {
	data, err := n.Encode()
	if err != nil {
		return Block{}, err
	}
	return Block{CID: Sum(data), Data: data}, nil
}
