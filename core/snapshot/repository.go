package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rules-service/core/dataset"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SignedList is the stored signed snapshot of one dataset type.
type SignedList struct {
	ListType  dataset.Kind `gorm:"column:list_type;primaryKey;type:varchar(32)"`
	Hash      string       `gorm:"column:hash;type:varchar(64);not null"`
	Signature string       `gorm:"column:signature;type:varchar(256)"`
	RawData   string       `gorm:"column:raw_data;type:text;not null"`
}

// TableName returns the table holding signed lists.
func (SignedList) TableName() string { return "signed_list" }

// Repository persists signed lists.
type Repository interface {
	// Find returns the list of kind or dataset.ErrNotFound.
	Find(ctx context.Context, kind dataset.Kind) (*SignedList, error)
	// Save creates or replaces the list.
	Save(ctx context.Context, list *SignedList) error
}

// GormRepository stores signed lists in the signed_list table.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository on db.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Find loads the list of kind.
func (r *GormRepository) Find(ctx context.Context, kind dataset.Kind) (*SignedList, error) {
	var list SignedList
	err := r.db.WithContext(ctx).Where("list_type = ?", kind).Take(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dataset.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load signed list %s: %w", kind, err)
	}
	return &list, nil
}

// Save upserts the list.
func (r *GormRepository) Save(ctx context.Context, list *SignedList) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "list_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"hash", "signature", "raw_data"}),
	}).Create(list).Error
	if err != nil {
		return fmt.Errorf("failed to save signed list %s: %w", list.ListType, err)
	}
	return nil
}

// MemoryRepository keeps signed lists in memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	lists map[dataset.Kind]SignedList
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{lists: map[dataset.Kind]SignedList{}}
}

// Find returns a copy of the stored list.
func (r *MemoryRepository) Find(_ context.Context, kind dataset.Kind) (*SignedList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list, ok := r.lists[kind]
	if !ok {
		return nil, dataset.ErrNotFound
	}
	return &list, nil
}

// Save stores a copy of list.
func (r *MemoryRepository) Save(_ context.Context, list *SignedList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[list.ListType] = *list
	return nil
}
