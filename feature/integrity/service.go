package integrity

import (
	"context"
	"errors"

	"rules-service/core/storage"
	"rules-service/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks without a storage client.
var ErrStorageDisabled = errors.New("object storage is disabled")

// StorageTarget describes the bucket layout to check.
type StorageTarget struct {
	Client   storage.Client
	Bucket   string
	Region   string
	Prefixes []string
}

// Service handles integrity checks.
type Service struct {
	db      *gorm.DB
	tables  []checks.Table
	storage *StorageTarget
	logger  *zap.Logger
}

// NewService creates a new integrity service. target may be nil.
func NewService(db *gorm.DB, tables []checks.Table, target *StorageTarget, logger *zap.Logger) *Service {
	return &Service{db: db, tables: tables, storage: target, logger: logger}
}

// CheckSchema compares the models with the live schema.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.tables)
}

// CheckStorage checks the bucket layout.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.storage == nil || s.storage.Client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStorage(ctx, s.storage.Client, s.storage.Bucket, s.storage.Prefixes)
}

// FixStorage creates what report lists as missing.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	if s.storage == nil || s.storage.Client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStorage(ctx, s.storage.Client, s.storage.Bucket, s.storage.Region, s.logger, report)
}
