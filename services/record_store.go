package services

import (
	"context"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"djanselme/internal/status"
)

// PBRecordStore adapts the embedded PocketBase app to the pipeline's
// RecordStore interface.
type PBRecordStore struct {
	app core.App
}

func NewPBRecordStore(app core.App) *PBRecordStore {
	return &PBRecordStore{app: app}
}

func (s *PBRecordStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	col, err := s.app.FindCollectionByNameOrId(collection)
	if err != nil {
		return "", fmt.Errorf("%w: %v", status.ErrPersistFailed, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := s.app.Save(record); err != nil {
		return "", fmt.Errorf("%w: %v", status.ErrPersistFailed, err)
	}
	return record.Id, nil
}
