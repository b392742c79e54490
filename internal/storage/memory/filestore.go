package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

type fileEntry struct {
	data        []byte
	contentType string
}

// FileStore keeps uploaded blobs in memory and hands back opaque URLs.
type FileStore struct {
	mu    sync.RWMutex
	files map[string]fileEntry
}

func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]fileEntry)}
}

func fileKey(folder, key string) string {
	return folder + "/" + key
}

func (s *FileStore) SaveFile(_ context.Context, folder, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[fileKey(folder, key)] = fileEntry{
		data:        append([]byte(nil), data...),
		contentType: contentType,
	}
	return fmt.Sprintf("/files/%s/%s", folder, key), nil
}

func (s *FileStore) GetFile(_ context.Context, folder, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.files[fileKey(folder, key)]
	if !ok {
		return nil, "", models.NewNotFound("file", fileKey(folder, key))
	}
	return append([]byte(nil), entry.data...), entry.contentType, nil
}

func (s *FileStore) DeleteFile(_ context.Context, folder, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, fileKey(folder, key))
	return nil
}

var _ interfaces.FileStore = (*FileStore)(nil)
