package statfs

import (
	"context"
	"errors"
	"testing"

	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTree struct {
	st  models.FSStat
	err error
}

func (f fakeTree) Info(context.Context) (models.FSStat, error) {
	return f.st, f.err
}

func TestCollector_StatFS(t *testing.T) {
	c := NewCollector(fakeTree{st: models.FSStat{Root: "sha256-00", Version: 3, Blocks: 7}}, t.TempDir())
	st, err := c.StatFS(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sha256-00", st.Root)
	assert.Equal(t, uint64(3), st.Version)
	assert.Equal(t, 7, st.Blocks)
	assert.NotZero(t, st.TotalBytes)
	assert.LessOrEqual(t, st.UsedPct, 100.0)
}

func TestCollector_TreeError(t *testing.T) {
	c := NewCollector(fakeTree{err: errors.New("closed")}, "")
	_, err := c.StatFS(context.Background())
	require.Error(t, err)
}
