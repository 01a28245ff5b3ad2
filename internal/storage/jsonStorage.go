package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Fuonder/dagfs.git/internal/dag"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/models"
	"go.uber.org/zap"
)

// StoreMode описывает, когда блоки выгружаются в файл: сразу при сохранении
// корня (Sync) или периодически с интервалом StoreInterval.
type StoreMode struct {
	Sync          bool
	StoreInterval time.Duration
}

type jsonDump struct {
	Root   dag.CID             `json:"root,omitempty"`
	Blocks map[dag.CID][]byte `json:"blocks"`
}

// JSONStorage keeps blocks in memory and dumps them, with the root, into a
// single JSON file.
type JSONStorage struct {
	blocks       map[dag.CID][]byte
	root         dag.CID
	dirty        bool
	fStore       bool
	fStoragePath string
	Mode         StoreMode
	mu           sync.Mutex
}

func NewJSONStorage(loadFromFile bool, filePath string, interval time.Duration) (*JSONStorage, error) {
	st := JSONStorage{blocks: make(map[dag.CID][]byte)}
	st.fStoragePath = filePath
	st.fStore = loadFromFile
	if st.fStore {
		err := st.loadBlocksFromFile()
		if err != nil {
			return nil, err
		}
	}
	if interval == 0 {
		st.Mode.Sync = true
	} else {
		st.Mode.Sync = false
		st.Mode.StoreInterval = interval
	}
	return &st, nil
}

// DumpBlocks writes the file if anything changed since the last dump.
func (st *JSONStorage) DumpBlocks() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.dumpLocked()
}

func (st *JSONStorage) dumpLocked() error {
	if !st.dirty {
		return nil
	}
	data, err := json.MarshalIndent(jsonDump{Root: st.root, Blocks: st.blocks}, "", "    ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(st.fStoragePath), filepath.Base(st.fStoragePath)+".*")
	if err != nil {
		return fmt.Errorf("can not create temporary dump file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), os.FileMode(models.OsAllRw)); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), st.fStoragePath); err != nil {
		return err
	}
	st.dirty = false
	logger.Log.Debug("blocks dumped",
		zap.String("file", st.fStoragePath),
		zap.Int("blocks", len(st.blocks)))
	return nil
}

func (st *JSONStorage) loadBlocksFromFile() error {
	_, err := os.Stat(st.fStoragePath)
	if os.IsNotExist(err) {
		logger.Log.Info("no blocks file yet, starting empty", zap.String("file", st.fStoragePath))
		return nil
	} else if err != nil {
		return fmt.Errorf("can not find blocks file \"%s\": %w", st.fStoragePath, err)
	}
	file, err := os.Open(st.fStoragePath)
	if err != nil {
		return fmt.Errorf("can not open blocks file \"%s\": %w", st.fStoragePath, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var dump jsonDump
	err = json.Unmarshal(data, &dump)
	if err != nil {
		return fmt.Errorf("can not decode blocks file \"%s\": %w", st.fStoragePath, err)
	}
	for cid, block := range dump.Blocks {
		if dag.Sum(block) != cid {
			return fmt.Errorf("blocks file \"%s\": block %s does not match its content", st.fStoragePath, cid)
		}
	}
	if dump.Blocks != nil {
		st.blocks = dump.Blocks
	}
	st.root = dump.Root
	return nil
}

func (st *JSONStorage) GetBlock(_ context.Context, cid dag.CID) ([]byte, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	data, ok := st.blocks[cid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, cid)
	}
	return data, nil
}

func (st *JSONStorage) HasBlock(_ context.Context, cid dag.CID) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.blocks[cid]
	return ok, nil
}

func (st *JSONStorage) PutBlocks(_ context.Context, blocks []dag.Block) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, b := range blocks {
		if _, exists := st.blocks[b.CID]; exists {
			continue
		}
		st.blocks[b.CID] = append([]byte(nil), b.Data...)
		st.dirty = true
	}
	return nil
}

func (st *JSONStorage) LoadRoot(_ context.Context) (dag.CID, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.root.Defined() {
		return "", ErrRootNotFound
	}
	return st.root, nil
}

// SaveRoot records the root and, in sync mode, dumps the file right away.
func (st *JSONStorage) SaveRoot(_ context.Context, root dag.CID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.root != root {
		st.root = root
		st.dirty = true
	}
	if st.Mode.Sync {
		return st.dumpLocked()
	}
	return nil
}

func (st *JSONStorage) CountBlocks(_ context.Context) (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.blocks), nil
}

// Close dumps whatever is left.
func (st *JSONStorage) Close() error {
	return st.DumpBlocks()
}
