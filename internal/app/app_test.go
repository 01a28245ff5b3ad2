package app

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Fuonder/dagfs.git/internal/mfs"
	"github.com/Fuonder/dagfs.git/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCounter struct {
	calls atomic.Int32
}

func (c *closeCounter) Close() error {
	c.calls.Add(1)
	return nil
}

func newTree(t *testing.T) (*mfs.FS, *storage.MemStorage) {
	t.Helper()
	st, err := storage.NewMemStorage()
	require.NoError(t, err)
	fs, err := mfs.New(context.Background(), st, mfs.Options{})
	require.NoError(t, err)
	return fs, st
}

func TestApplication_FlushLoop(t *testing.T) {
	fs, st := newTree(t)
	ctx := context.Background()

	root, err := fs.Touch(ctx, "/a", mfs.TouchOptions{})
	require.NoError(t, err)
	require.True(t, fs.Pending())

	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	a := NewApplication(srv, fs, nil, 10*time.Millisecond)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- a.Run(runCtx) }()

	require.Eventually(t, func() bool { return !fs.Pending() }, 2*time.Second, 10*time.Millisecond)
	saved, err := st.LoadRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root.CID, saved)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop")
	}
}

func TestApplication_CloseFlushesPending(t *testing.T) {
	fs, st := newTree(t)
	ctx := context.Background()

	root, err := fs.Mkdir(ctx, "/d", mfs.MkdirOptions{})
	require.NoError(t, err)

	store := &closeCounter{}
	a := NewApplication(&http.Server{Addr: "127.0.0.1:0"}, fs, store, 0)
	require.NoError(t, a.Close(ctx))

	assert.False(t, fs.Pending())
	saved, err := st.LoadRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root.CID, saved)
	assert.Equal(t, int32(1), store.calls.Load())
}

type failingFlusher struct{}

func (failingFlusher) Pending() bool { return true }

func (failingFlusher) Flush(context.Context) (mfs.Root, error) {
	return mfs.Root{}, errors.New("store is gone")
}

func TestApplication_CloseFlushFailure(t *testing.T) {
	store := &closeCounter{}
	a := NewApplication(&http.Server{Addr: "127.0.0.1:0"}, failingFlusher{}, store, 0)
	assert.NoError(t, a.Close(context.Background()))
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestApplication_RunServerError(t *testing.T) {
	fs, _ := newTree(t)
	a := NewApplication(&http.Server{Addr: "256.0.0.1:-1"}, fs, nil, 0)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not fail")
	}
}
