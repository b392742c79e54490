package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// fileRow is the stored shape of one uploaded blob.
type fileRow struct {
	Folder      string    `json:"folder"`
	Key         string    `json:"key"`
	Data        []byte    `json:"data"`
	ContentType string    `json:"content_type"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FileStore implements interfaces.FileStore on the files table. Records
// hold the raw bytes; callers only ever see the returned URL.
type FileStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewFileStore creates a new FileStore.
func NewFileStore(db *surrealdb.DB, logger *common.Logger) *FileStore {
	return &FileStore{db: db, logger: logger}
}

func (s *FileStore) SaveFile(ctx context.Context, folder, key string, data []byte, contentType string) (string, error) {
	sql := `UPSERT $rid SET
		folder = $folder, key = $key, data = $data,
		content_type = $content_type, updated_at = $updated_at`
	vars := map[string]any{
		"rid":          surrealmodels.NewRecordID("files", recordKey(folder, key)),
		"folder":       folder,
		"key":          key,
		"data":         data,
		"content_type": contentType,
		"updated_at":   time.Now(),
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return fmt.Sprintf("/files/%s/%s", folder, key), nil
}

func (s *FileStore) GetFile(ctx context.Context, folder, key string) ([]byte, string, error) {
	sql := "SELECT folder, key, data, content_type, updated_at FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("files", recordKey(folder, key)),
	}

	results, err := surrealdb.Query[[]fileRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, "", models.NewNotFound("file", folder+"/"+key)
		}
		return nil, "", fmt.Errorf("failed to get file: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, "", models.NewNotFound("file", folder+"/"+key)
	}
	row := (*results)[0].Result[0]
	return row.Data, row.ContentType, nil
}

func (s *FileStore) DeleteFile(ctx context.Context, folder, key string) error {
	rid := surrealmodels.NewRecordID("files", recordKey(folder, key))
	if _, err := surrealdb.Delete[fileRow](ctx, s.db, rid); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.FileStore = (*FileStore)(nil)
