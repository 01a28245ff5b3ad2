package dag

import (
	"testing"
	"time"

	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlockIsContentAddressed(t *testing.T) {
	n := &Node{Kind: models.KindFile, Mode: 0644, Data: []byte("Hello world")}
	b1, err := NewBlock(n)
	require.NoError(t, err)
	b2, err := NewBlock(n.Clone())
	require.NoError(t, err)
	assert.Equal(t, b1.CID, b2.CID)

	changed := n.Clone()
	changed.Mode = 0777
	b3, err := NewBlock(changed)
	require.NoError(t, err)
	assert.NotEqual(t, b1.CID, b3.CID)

	_, err = ParseCID(b1.CID.String())
	require.NoError(t, err)
}

func TestDecodeRoundTrip(t *testing.T) {
	mtime := time.Date(2024, 3, 1, 10, 0, 0, 123, time.UTC)
	n := &Node{
		Kind:  models.KindDirectory,
		Mode:  0755,
		Links: []Link{{Name: "a", CID: Sum([]byte("a"))}},
	}
	n.SetModTime(mtime)
	b, err := NewBlock(n)
	require.NoError(t, err)

	got, err := Decode(b.Data)
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.True(t, mtime.Equal(got.ModTime()))
}

func TestCloneIsDeep(t *testing.T) {
	n := &Node{
		Kind:  models.KindShardedDirectory,
		Links: []Link{{Name: "x"}},
		Slots: []Slot{{Index: 1, Links: []Link{{Name: "y"}}}},
	}
	c := n.Clone()
	c.Links[0].Name = "changed"
	c.Slots[0].Links[0].Name = "changed"
	assert.Equal(t, "x", n.Links[0].Name)
	assert.Equal(t, "y", n.Slots[0].Links[0].Name)
}

func TestParseCID(t *testing.T) {
	_, err := ParseCID("sha256-zz")
	require.ErrorIs(t, err, ErrInvalidCID)
	_, err = ParseCID("md5-00")
	require.ErrorIs(t, err, ErrInvalidCID)
	assert.False(t, CID("").Defined())
}
