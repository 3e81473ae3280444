package records

import (
	"context"
	"fmt"
	"os"
	"telemetryd/internal/models"
	"telemetryd/internal/providers"
	"telemetryd/internal/structures"
)

type RecordStoreInterface interface {
	Snapshot(ctx context.Context) (*models.RecordSnapshot, error)
}

// FileRecordStore reads the popup export from disk on every call, so each
// aggregation sees the current records.
type FileRecordStore struct {
	path   string
	logger providers.Logger
}

func NewFileRecordStore(conf *structures.Config, logger providers.Logger) RecordStoreInterface {
	return &FileRecordStore{
		path:   conf.Records.FilePath,
		logger: logger,
	}
}

func (f *FileRecordStore) Snapshot(ctx context.Context) (*models.RecordSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Warnf(providers.TypeTelemetry, "Record file %s not found, reporting no popups", f.path)
			return &models.RecordSnapshot{}, nil
		}
		return nil, fmt.Errorf("read records: %w", err)
	}

	snapshot, err := decodeSnapshot(data, f.logger)
	if err != nil {
		return nil, fmt.Errorf("decode records %s: %w", f.path, err)
	}
	return snapshot, nil
}
