// Package storage содержит интерфейсы хранилища блоков дерева файлов и их
// реализации: в памяти, в JSON-файле, в bolt (пакет boltstore) и в PostgreSQL
// (пакет database). Блоки неизменяемы и адресуются по содержимому (CID);
// единственное изменяемое значение — CID корня дерева.
package storage

//go:generate mockgen -source=repository.go -destination=mocks/mock_storage.go -package=mocks

import (
	"context"

	"github.com/Fuonder/dagfs.git/internal/dag"
)

// BlockReader интерфейс для чтения блоков.
type BlockReader interface {
	// GetBlock возвращает закодированный блок по CID.
	GetBlock(ctx context.Context, cid dag.CID) ([]byte, error)
	// HasBlock проверяет наличие блока.
	HasBlock(ctx context.Context, cid dag.CID) (bool, error)
}

// BlockWriter интерфейс для записи блоков.
type BlockWriter interface {
	// PutBlocks сохраняет несколько блоков. Повторная запись блока не ошибка.
	PutBlocks(ctx context.Context, blocks []dag.Block) error
}

// RootKeeper хранит CID корня дерева.
type RootKeeper interface {
	// LoadRoot возвращает сохранённый корень или ErrRootNotFound.
	LoadRoot(ctx context.Context) (dag.CID, error)
	// SaveRoot долговременно сохраняет корень.
	SaveRoot(ctx context.Context, root dag.CID) error
}

// BlockStore — полное хранилище, с которым работает дерево файлов.
type BlockStore interface {
	BlockReader
	BlockWriter
	RootKeeper
	// CountBlocks возвращает число хранимых блоков.
	CountBlocks(ctx context.Context) (int, error)
	// Close освобождает ресурсы хранилища.
	Close() error
}

// BlockFileHandler интерфейс для хранилищ, которые выгружают блоки в файл.
type BlockFileHandler interface {
	// DumpBlocks выгружает блоки и корень в файл.
	DumpBlocks() error
	// loadBlocksFromFile загружает блоки из файла.
	loadBlocksFromFile() error
}

// BlockDatabaseHandler интерфейс для проверки соединения с базой данных.
type BlockDatabaseHandler interface {
	// CheckConnection проверяет подключение к базе данных.
	CheckConnection() error
}

// DBConnection интерфейс для работы с базой данных.
// Включает операции для чтения, записи, создания таблиц и проверки соединения.
type DBConnection interface {
	DBReader
	DBWriter
	// CreateTablesContext создает таблицы в базе данных в контексте.
	CreateTablesContext(ctx context.Context) error
	// TryConnectContext пытается подключиться к базе данных в контексте.
	TryConnectContext(ctx context.Context) error
	// Close закрывает соединение с базой данных.
	Close() error
}

// DBReader интерфейс для чтения блоков из базы данных.
type DBReader interface {
	// GetBlock получает блок по CID.
	GetBlock(ctx context.Context, cid dag.CID) ([]byte, error)
	// CountBlocks считает блоки.
	CountBlocks(ctx context.Context) (int, error)
	// GetRoot получает сохранённый корень.
	GetRoot(ctx context.Context) (dag.CID, error)
}

// DBWriter интерфейс для записи блоков в базу данных.
type DBWriter interface {
	// AppendBatch добавляет несколько блоков в одной транзакции.
	AppendBatch(ctx context.Context, blocks []dag.Block) error
	// SetRoot заменяет сохранённый корень.
	SetRoot(ctx context.Context, root dag.CID) error
}
