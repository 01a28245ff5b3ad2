// Package app runs the HTTP server together with the background flusher
// that publishes pending roots of the tree.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/mfs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Flusher publishes the pending root of the tree.
type Flusher interface {
	Pending() bool
	Flush(ctx context.Context) (mfs.Root, error)
}

type Application struct {
	srv      *http.Server
	tree     Flusher
	store    io.Closer
	interval time.Duration
}

// NewApplication wires the server with the tree it serves. With a zero
// interval pending roots are published only on Close or by an explicit flush.
func NewApplication(srv *http.Server, tree Flusher, store io.Closer, interval time.Duration) *Application {
	return &Application{
		srv:      srv,
		tree:     tree,
		store:    store,
		interval: interval,
	}
}

// Run serves until ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Log.Info("Starting HTTP server", zap.String("addr", a.srv.Addr))
		err := a.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	if a.interval > 0 {
		group.Go(func() error {
			return a.flushLoop(ctx)
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Log.Info("Shutting down due to error", zap.Error(err))
		return err
	}
	logger.Log.Info("Shutting down gracefully")
	return nil
}

func (a *Application) flushLoop(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	logger.Log.Info("Starting flusher", zap.Duration("interval", a.interval))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.flushPending(ctx)
		}
	}
}

func (a *Application) flushPending(ctx context.Context) {
	if !a.tree.Pending() {
		return
	}
	root, err := a.tree.Flush(ctx)
	if err != nil {
		logger.Log.Warn("can not flush pending root", zap.Error(err))
		return
	}
	logger.Log.Debug("pending root flushed",
		zap.Stringer("root", root.CID),
		zap.Uint64("version", root.Version))
}

// Close stops the server, publishes a pending root and closes the store.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if err := a.srv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	a.flushPending(ctx)
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Log.Error("Error during shutdown", zap.Error(err))
		return err
	}
	logger.Log.Info("Application shutdown complete")
	return nil
}
