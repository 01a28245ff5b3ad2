package server

import (
	"context"

	"github.com/Fuonder/dagfs.git/internal/chmod"
	"github.com/Fuonder/dagfs.git/internal/mfs"
	"github.com/Fuonder/dagfs.git/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_server.go -package=mocks

// FileReader интерфейс для чтения дерева файлов.
type FileReader interface {
	Stat(ctx context.Context, path string) (models.Stat, error)
	Ls(ctx context.Context, path string) ([]models.DirEntry, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

// FileWriter интерфейс для изменения дерева файлов.
type FileWriter interface {
	Mkdir(ctx context.Context, path string, opts mfs.MkdirOptions) (mfs.Root, error)
	Write(ctx context.Context, path string, data []byte, opts mfs.WriteOptions) (mfs.Root, error)
	Touch(ctx context.Context, path string, opts mfs.TouchOptions) (mfs.Root, error)
	Flush(ctx context.Context) (mfs.Root, error)
}

// ModeChanger интерфейс для изменения прав доступа.
type ModeChanger interface {
	Chmod(ctx context.Context, path, spec string, opts chmod.Options) (mfs.Root, error)
	ChmodMode(ctx context.Context, path string, mode models.Mode, opts chmod.Options) (mfs.Root, error)
}

// FSStatReader интерфейс для получения сведений о хранилище.
type FSStatReader interface {
	StatFS(ctx context.Context) (models.FSStat, error)
}
