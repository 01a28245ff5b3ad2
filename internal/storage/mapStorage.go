package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Fuonder/dagfs.git/internal/dag"
)

// MemStorage keeps blocks in a map. Nothing survives a restart.
type MemStorage struct {
	blocks map[dag.CID][]byte
	root   dag.CID
	mu     sync.RWMutex
}

func NewMemStorage() (*MemStorage, error) {
	ms := MemStorage{
		blocks: make(map[dag.CID][]byte),
	}
	return &ms, nil
}

func (ms *MemStorage) GetBlock(_ context.Context, cid dag.CID) ([]byte, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	data, ok := ms.blocks[cid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, cid)
	}
	return data, nil
}

func (ms *MemStorage) HasBlock(_ context.Context, cid dag.CID) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	_, ok := ms.blocks[cid]
	return ok, nil
}

func (ms *MemStorage) PutBlocks(_ context.Context, blocks []dag.Block) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, b := range blocks {
		if _, exists := ms.blocks[b.CID]; exists {
			continue
		}
		ms.blocks[b.CID] = append([]byte(nil), b.Data...)
	}
	return nil
}

func (ms *MemStorage) LoadRoot(_ context.Context) (dag.CID, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if !ms.root.Defined() {
		return "", ErrRootNotFound
	}
	return ms.root, nil
}

func (ms *MemStorage) SaveRoot(_ context.Context, root dag.CID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.root = root
	return nil
}

func (ms *MemStorage) CountBlocks(_ context.Context) (int, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.blocks), nil
}

func (ms *MemStorage) Close() error {
	return nil
}
