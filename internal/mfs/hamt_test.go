package mfs

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("entry-%03d", i)
	}
	return out
}

func writeAll(t *testing.T, fs *FS, dir string, files []string, threshold int) {
	t.Helper()
	ctx := context.Background()
	for _, name := range files {
		_, err := fs.Write(ctx, Join(dir, name), []byte(name), WriteOptions{
			Create:              true,
			MTime:               testTime,
			ShardSplitThreshold: &threshold,
		})
		require.NoError(t, err)
	}
}

func TestShardedDir_SplitOnThreshold(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)
	_, err := fs.Mkdir(ctx, "/big", MkdirOptions{MTime: testTime})
	require.NoError(t, err)

	writeAll(t, fs, "/big", names(3), 3)
	stat, err := fs.Stat(ctx, "/big")
	require.NoError(t, err)
	assert.Equal(t, models.KindDirectory, stat.Type)

	writeAll(t, fs, "/big", []string{"one-more"}, 3)
	stat, err = fs.Stat(ctx, "/big")
	require.NoError(t, err)
	assert.Equal(t, models.KindShardedDirectory, stat.Type)
	assert.Equal(t, models.DefaultDirMode, stat.Mode)
	assert.Equal(t, testTime, stat.MTime)
}

func TestShardedDir_ZeroThresholdShardsFirstInsert(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)
	_, err := fs.Mkdir(ctx, "/d", MkdirOptions{})
	require.NoError(t, err)

	writeAll(t, fs, "/d", []string{"only"}, 0)
	stat, err := fs.Stat(ctx, "/d")
	require.NoError(t, err)
	assert.Equal(t, models.KindShardedDirectory, stat.Type)

	data, err := fs.Read(ctx, "/d/only")
	require.NoError(t, err)
	assert.Equal(t, []byte("only"), data)
}

func TestShardedDir_ManyEntries(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)
	_, err := fs.Mkdir(ctx, "/d", MkdirOptions{})
	require.NoError(t, err)

	all := names(300)
	writeAll(t, fs, "/d", all, 0)

	entries, err := fs.Ls(ctx, "/d")
	require.NoError(t, err)
	require.Len(t, entries, len(all))
	for i, e := range entries {
		assert.Equal(t, all[i], e.Name)
	}
	for _, name := range []string{all[0], all[150], all[299]} {
		data, err := fs.Read(ctx, "/d/"+name)
		require.NoError(t, err)
		assert.Equal(t, []byte(name), data)
	}
	_, err = fs.Stat(ctx, "/d/absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShardedDir_ShapeIndependentOfOrder(t *testing.T) {
	ctx := context.Background()
	all := names(120)
	shuffled := append([]string(nil), all...)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	build := func(order []string) string {
		fs, _ := newTestFS(t)
		_, err := fs.Mkdir(ctx, "/d", MkdirOptions{MTime: testTime})
		require.NoError(t, err)
		writeAll(t, fs, "/d", order, 0)
		stat, err := fs.Stat(ctx, "/d")
		require.NoError(t, err)
		return stat.CID
	}
	assert.Equal(t, build(all), build(shuffled))
}

func TestShardedDir_RemoveCollapses(t *testing.T) {
	ctx := context.Background()
	all := names(60)

	build := func(files []string) (*FS, Entry) {
		fs, _ := newTestFS(t)
		_, err := fs.Mkdir(ctx, "/d", MkdirOptions{MTime: testTime})
		require.NoError(t, err)
		writeAll(t, fs, "/d", files, 0)
		e, err := fs.Begin().Resolve(ctx, "/d")
		require.NoError(t, err)
		return fs, e
	}

	fs, full := build(all)
	txn := fs.Begin()
	d, err := txn.openDir(full)
	require.NoError(t, err)
	for _, name := range all[5:] {
		ok, err := d.remove(ctx, name)
		require.NoError(t, err)
		require.True(t, ok, name)
	}
	ok, err := d.remove(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := d.encode()
	require.NoError(t, err)
	cid, err := txn.stage(n)
	require.NoError(t, err)

	_, small := build(all[:5])
	assert.Equal(t, small.CID, cid)

	links, err := d.links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 5)
	assert.Equal(t, all[0], links[0].Name)
}

func TestSlotIndex(t *testing.T) {
	h := uint64(0xfedcba9876543210)
	assert.Equal(t, 0xf, slotIndex(h, 0))
	assert.Equal(t, 0xe, slotIndex(h, 1))
	assert.Equal(t, 0x0, slotIndex(h, maxDepth-1))
}
