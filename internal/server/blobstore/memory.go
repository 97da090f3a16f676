package blobstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/google/uuid"
)

// MemoryStore keeps blobs in process memory. It is meant for development
// and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Upload(ctx context.Context, userID, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", remoteErr("upload", err)
	}
	handle := uuid.NewString() + "/" + EncryptedName(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blobs[userID] == nil {
		s.blobs[userID] = make(map[string][]byte)
	}
	s.blobs[userID][handle] = append([]byte(nil), data...)
	return handle, nil
}

func (s *MemoryStore) Download(ctx context.Context, userID, handle string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, remoteErr("download", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[userID][handle]
	if !ok {
		return nil, remoteErr("download", common.ErrorNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, handle string) error {
	if err := ctx.Err(); err != nil {
		return remoteErr("delete", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[userID][handle]; !ok {
		return remoteErr("delete", common.ErrorNotFound)
	}
	delete(s.blobs[userID], handle)
	return nil
}

// Len returns the number of blobs stored for userID.
func (s *MemoryStore) Len(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs[userID])
}
