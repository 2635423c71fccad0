package countrylist

import (
	"context"
	"errors"

	"rules-service/core/dataset"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordID is the primary key of the single country list record.
const recordID = 1

// Entity is the stored country list.
type Entity struct {
	ID        int    `gorm:"column:id;primaryKey;autoIncrement:false"`
	RawData   string `gorm:"column:raw_data;type:text;not null"`
	Hash      string `gorm:"column:hash;type:varchar(64);not null"`
	Signature string `gorm:"column:signature;type:varchar(256)"`
}

// TableName overrides the table name.
func (Entity) TableName() string { return "country_list" }

// Repository persists the country list record.
type Repository interface {
	// Find returns the record or dataset.ErrNotFound.
	Find(ctx context.Context) (*Entity, error)
	// Save creates or replaces the record.
	Save(ctx context.Context, e *Entity) error
}

// GormRepository is the gorm implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository over db.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates the country list table.
func (r *GormRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&Entity{})
}

// Find returns the stored record.
func (r *GormRepository) Find(ctx context.Context) (*Entity, error) {
	var e Entity
	err := r.db.WithContext(ctx).Where("id = ?", recordID).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dataset.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Save creates or replaces the record.
func (r *GormRepository) Save(ctx context.Context, e *Entity) error {
	e.ID = recordID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"raw_data", "hash", "signature"}),
	}).Create(e).Error
}
