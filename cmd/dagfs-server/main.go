package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Fuonder/dagfs.git/internal/app"
	"github.com/Fuonder/dagfs.git/internal/buildinfo"
	"github.com/Fuonder/dagfs.git/internal/chmod"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/mfs"
	"github.com/Fuonder/dagfs.git/internal/server"
	"github.com/Fuonder/dagfs.git/internal/statfs"
	"github.com/Fuonder/dagfs.git/internal/storage"
	"github.com/Fuonder/dagfs.git/internal/storage/boltstore"
	"github.com/Fuonder/dagfs.git/internal/storage/database"
	"github.com/Fuonder/dagfs.git/internal/validation/filevalidation"
	"go.uber.org/zap"
)

// Set with -ldflags "-X main.buildVersion=...".
var (
	buildVersion = buildinfo.NotAvailable
	buildCommit  = buildinfo.NotAvailable
	buildDate    = buildinfo.NotAvailable
)

const shutdownTimeout = 10 * time.Second

func main() {
	bInfo := buildinfo.NewBuildInfo(buildVersion, buildCommit, buildDate, nil)
	fmt.Println(bInfo.String())

	opts, err := parseFlags(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "error during parsing flags:", err)
		os.Exit(2)
	}
	if err := logger.Initialize(opts.LogLevel); err != nil {
		panic(err)
	}
	logger.Log.Info("Starting dagfs server", bInfo.Fields()...)
	logger.Log.Debug("Flags parsed", zap.String("flags", opts.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, opts, bInfo); err != nil {
		logger.Log.Fatal("error during run", zap.Error(err))
	}
	logger.Log.Info("Server finished")
}

// backend is the block store chosen by the options together with the
// pieces of it the HTTP layer needs.
type backend struct {
	store    storage.BlockStore
	db       storage.BlockDatabaseHandler
	diskPath string
}

// openStore picks the store: PostgreSQL, then bolt, then the JSON file,
// then memory.
func openStore(ctx context.Context, opts ServerOptions) (backend, error) {
	switch {
	case opts.DatabaseDSN != "":
		conn, err := database.NewPSQLConnection(ctx, opts.DatabaseDSN)
		if err != nil {
			return backend{}, err
		}
		st, err := database.NewDBStorage(ctx, conn)
		if err != nil {
			return backend{}, err
		}
		logger.Log.Info("using PostgreSQL block store")
		return backend{store: st, db: st}, nil
	case opts.BoltPath != "":
		if err := filevalidation.CheckPathWritable(opts.BoltPath); err != nil {
			return backend{}, err
		}
		st, err := boltstore.NewBoltStorage(ctx, opts.BoltPath)
		if err != nil {
			return backend{}, err
		}
		logger.Log.Info("using bolt block store", zap.String("path", opts.BoltPath))
		return backend{store: st, diskPath: filepath.Dir(opts.BoltPath)}, nil
	case opts.FileStoragePath != "":
		if err := filevalidation.CheckPathWritable(opts.FileStoragePath); err != nil {
			return backend{}, err
		}
		st, err := storage.NewJSONStorage(opts.Restore, opts.FileStoragePath, opts.StoreInterval)
		if err != nil {
			return backend{}, err
		}
		logger.Log.Info("using JSON file block store",
			zap.String("path", opts.FileStoragePath),
			zap.Bool("restore", opts.Restore))
		return backend{store: st, diskPath: filepath.Dir(opts.FileStoragePath)}, nil
	default:
		st, err := storage.NewMemStorage()
		if err != nil {
			return backend{}, err
		}
		logger.Log.Info("using in-memory block store")
		return backend{store: st}, nil
	}
}

func run(ctx context.Context, opts ServerOptions, bInfo *buildinfo.BuildInfo) error {
	b, err := openStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("can not open block store: %w", err)
	}

	fs, err := mfs.New(ctx, b.store, mfs.Options{ShardSplitThreshold: opts.ShardSplitThreshold})
	if err != nil {
		b.store.Close()
		return fmt.Errorf("can not open tree: %w", err)
	}
	logger.Log.Info("tree opened", zap.Stringer("root", fs.Root().CID))

	h := server.NewHandler(fs, fs,
		chmod.New(chmod.FromFS(fs)),
		statfs.NewCollector(fs, b.diskPath),
		b.db,
		bInfo,
		opts.HashKey,
		opts.TrustedSubnet)

	srv := &http.Server{
		Addr:              opts.NetAddr.String(),
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	application := app.NewApplication(srv, fs, b.store, opts.StoreInterval)

	runErr := application.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := application.Close(closeCtx); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}
