package mfs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/Fuonder/dagfs.git/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestFS(t *testing.T) (*FS, *storage.MemStorage) {
	t.Helper()
	st, err := storage.NewMemStorage()
	require.NoError(t, err)
	fs, err := New(context.Background(), st, Options{})
	require.NoError(t, err)
	fs.now = func() time.Time { return testTime }
	return fs, st
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	st, err := storage.NewMemStorage()
	require.NoError(t, err)

	fs, err := New(ctx, st, Options{})
	require.NoError(t, err)
	root := fs.Root()
	assert.True(t, root.CID.Defined())
	assert.False(t, fs.Pending())

	saved, err := st.LoadRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root.CID, saved)

	stat, err := fs.Stat(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, models.KindDirectory, stat.Type)
	assert.Equal(t, models.DefaultDirMode, stat.Mode)

	reopened, err := New(ctx, st, Options{})
	require.NoError(t, err)
	assert.Equal(t, root.CID, reopened.Root().CID)
}

func TestNew_MissingRootBlock(t *testing.T) {
	ctx := context.Background()
	st, err := storage.NewMemStorage()
	require.NoError(t, err)
	require.NoError(t, st.SaveRoot(ctx, dag.Sum([]byte("nothing"))))

	_, err = New(ctx, st, Options{})
	assert.ErrorIs(t, err, storage.ErrBlockNotFound)
}

func TestFS_MkdirWriteRead(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)

	_, err := fs.Mkdir(ctx, "/docs", MkdirOptions{})
	require.NoError(t, err)
	_, err = fs.Write(ctx, "/docs/readme.txt", []byte("hello"), WriteOptions{Create: true})
	require.NoError(t, err)

	data, err := fs.Read(ctx, "/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	stat, err := fs.Stat(ctx, "/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, models.KindFile, stat.Type)
	assert.Equal(t, models.DefaultFileMode, stat.Mode)
	assert.Equal(t, int64(5), stat.Size)
	assert.Equal(t, testTime, stat.MTime)

	mode := models.Mode(0600)
	_, err = fs.Write(ctx, "/docs/readme.txt", []byte("bye"), WriteOptions{Mode: &mode})
	require.NoError(t, err)
	stat, err = fs.Stat(ctx, "/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, mode, stat.Mode)
	assert.Equal(t, int64(3), stat.Size)

	_, err = fs.Write(ctx, "/docs/readme.txt", []byte("again"), WriteOptions{})
	require.NoError(t, err)
	stat, err = fs.Stat(ctx, "/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, mode, stat.Mode, "existing file keeps its mode")
}

func TestFS_Errors(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)
	_, err := fs.Mkdir(ctx, "/dir", MkdirOptions{})
	require.NoError(t, err)
	_, err = fs.Write(ctx, "/file", nil, WriteOptions{Create: true})
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{name: "MkdirExisting", call: func() error {
			_, err := fs.Mkdir(ctx, "/dir", MkdirOptions{})
			return err
		}, want: ErrExist},
		{name: "MkdirOverFile", call: func() error {
			_, err := fs.Mkdir(ctx, "/file", MkdirOptions{Parents: true})
			return err
		}, want: ErrExist},
		{name: "MkdirRoot", call: func() error {
			_, err := fs.Mkdir(ctx, "/", MkdirOptions{})
			return err
		}, want: ErrExist},
		{name: "MkdirMissingParent", call: func() error {
			_, err := fs.Mkdir(ctx, "/a/b", MkdirOptions{})
			return err
		}, want: ErrNotFound},
		{name: "MkdirUnderFile", call: func() error {
			_, err := fs.Mkdir(ctx, "/file/sub", MkdirOptions{Parents: true})
			return err
		}, want: ErrNotDir},
		{name: "WriteDir", call: func() error {
			_, err := fs.Write(ctx, "/dir", []byte("x"), WriteOptions{Create: true})
			return err
		}, want: ErrIsDir},
		{name: "WriteMissingNoCreate", call: func() error {
			_, err := fs.Write(ctx, "/nope", []byte("x"), WriteOptions{})
			return err
		}, want: ErrNotFound},
		{name: "WriteMissingParent", call: func() error {
			_, err := fs.Write(ctx, "/nope/file", []byte("x"), WriteOptions{Create: true})
			return err
		}, want: ErrNotFound},
		{name: "ReadDir", call: func() error {
			_, err := fs.Read(ctx, "/dir")
			return err
		}, want: ErrIsDir},
		{name: "StatMissing", call: func() error {
			_, err := fs.Stat(ctx, "/dir/missing")
			return err
		}, want: ErrNotFound},
		{name: "LsFile", call: func() error {
			_, err := fs.Ls(ctx, "/file")
			return err
		}, want: ErrNotDir},
		{name: "RelativePath", call: func() error {
			_, err := fs.Stat(ctx, "dir")
			return err
		}, want: ErrInvalidPath},
		{name: "DotDot", call: func() error {
			_, err := fs.Stat(ctx, "/dir/../file")
			return err
		}, want: ErrInvalidPath},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := fs.Root()
			err := test.call()
			require.ErrorIs(t, err, test.want)
			var fe *FSError
			assert.ErrorAs(t, err, &fe)
			assert.Equal(t, before, fs.Root())
		})
	}
}

func TestFS_MkdirParents(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)
	mode := models.Mode(0700)

	_, err := fs.Mkdir(ctx, "/a/b/c", MkdirOptions{Parents: true, Mode: &mode})
	require.NoError(t, err)
	for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
		stat, err := fs.Stat(ctx, p)
		require.NoError(t, err, p)
		assert.Equal(t, mode, stat.Mode, p)
	}

	before := fs.Root()
	root, err := fs.Mkdir(ctx, "/a/b", MkdirOptions{Parents: true})
	require.NoError(t, err)
	assert.Equal(t, before, root)
}

func TestFS_Touch(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)

	_, err := fs.Touch(ctx, "/new", TouchOptions{})
	require.NoError(t, err)
	stat, err := fs.Stat(ctx, "/new")
	require.NoError(t, err)
	assert.Equal(t, models.KindFile, stat.Type)
	assert.Equal(t, int64(0), stat.Size)
	assert.Equal(t, testTime, stat.MTime)

	later := testTime.Add(time.Hour)
	_, err = fs.Touch(ctx, "/new", TouchOptions{MTime: later})
	require.NoError(t, err)
	stat, err = fs.Stat(ctx, "/new")
	require.NoError(t, err)
	assert.Equal(t, later, stat.MTime)
	assert.Equal(t, models.DefaultFileMode, stat.Mode)
}

func TestFS_Ls(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)

	for _, name := range []string{"c", "a", "b"} {
		_, err := fs.Write(ctx, "/"+name, []byte(name), WriteOptions{Create: true})
		require.NoError(t, err)
	}
	_, err := fs.Mkdir(ctx, "/d", MkdirOptions{})
	require.NoError(t, err)

	entries, err := fs.Ls(ctx, "/")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
	assert.Equal(t, models.KindDirectory, entries[3].Type)
	assert.Equal(t, int64(1), entries[0].Size)
}

func TestFS_FlushPolicy(t *testing.T) {
	ctx := context.Background()
	fs, st := newTestFS(t)
	initial := fs.Root()

	root, err := fs.Write(ctx, "/f", []byte("x"), WriteOptions{Create: true})
	require.NoError(t, err)
	assert.Equal(t, initial.Version+1, root.Version)
	assert.True(t, fs.Pending())

	saved, err := st.LoadRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, initial.CID, saved)

	flushed, err := fs.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, root, flushed)
	assert.False(t, fs.Pending())
	saved, err = st.LoadRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root.CID, saved)

	root, err = fs.Write(ctx, "/f", []byte("y"), WriteOptions{Flush: true})
	require.NoError(t, err)
	assert.False(t, fs.Pending())
	saved, err = st.LoadRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root.CID, saved)
}

func TestFS_OldVersionsStayReadable(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)

	_, err := fs.Write(ctx, "/f", []byte("v1"), WriteOptions{Create: true})
	require.NoError(t, err)
	v1 := fs.Root()
	_, err = fs.Write(ctx, "/f", []byte("v2"), WriteOptions{})
	require.NoError(t, err)

	e, err := fs.BeginAt(v1.CID).Resolve(ctx, "/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), e.node.Data)

	data, err := fs.Read(ctx, "/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestFS_Info(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)
	_, err := fs.Write(ctx, "/f", []byte("x"), WriteOptions{Create: true})
	require.NoError(t, err)

	info, err := fs.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, fs.Root().CID.String(), info.Root)
	assert.Equal(t, uint64(1), info.Version)
	assert.True(t, info.Pending)
	assert.Equal(t, 3, info.Blocks)
}

func TestFS_CorruptBlock(t *testing.T) {
	ctx := context.Background()
	fs, st := newTestFS(t)
	bogus := dag.Sum([]byte("expected"))
	require.NoError(t, st.PutBlocks(ctx, []dag.Block{{CID: bogus, Data: []byte("other")}}))

	_, err := fs.BeginAt(bogus).Resolve(ctx, "/")
	assert.ErrorIs(t, err, ErrCorruptBlock)
}

func TestFS_WriteManyFiles(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFS(t)
	_, err := fs.Mkdir(ctx, "/many", MkdirOptions{})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		_, err := fs.Write(ctx, fmt.Sprintf("/many/f%02d", i), []byte{byte(i)}, WriteOptions{Create: true})
		require.NoError(t, err)
	}
	entries, err := fs.Ls(ctx, "/many")
	require.NoError(t, err)
	assert.Len(t, entries, 50)
	stat, err := fs.Stat(ctx, "/many")
	require.NoError(t, err)
	assert.Equal(t, models.KindDirectory, stat.Type)
}
