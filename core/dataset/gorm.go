package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deleteChunk bounds the number of keys per DELETE statement.
const deleteChunk = 200

// ItemEntity is the row layout shared by the item tables.
type ItemEntity struct {
	Country    string `gorm:"column:country_code;primaryKey;type:varchar(2)"`
	Hash       string `gorm:"column:hash;primaryKey;type:varchar(64)"`
	Identifier string `gorm:"column:identifier_name;type:varchar(100);not null"`
	Version    string `gorm:"column:version;type:varchar(30)"`
	RawData    string `gorm:"column:raw_data;type:text;not null"`
	Signature  string `gorm:"column:signature;type:varchar(256)"`
	Seq        int64  `gorm:"column:seq;index"`
}

func (e ItemEntity) toItem() Item {
	return Item{
		Hash:       e.Hash,
		Identifier: e.Identifier,
		Country:    e.Country,
		Version:    e.Version,
		RawData:    e.RawData,
		Signature:  e.Signature,
	}
}

func (e ItemEntity) toListing() Listing {
	return Listing{Identifier: e.Identifier, Version: e.Version, Country: e.Country, Hash: e.Hash}
}

// GormStore is a durable Store backed by one table.
type GormStore struct {
	db    *gorm.DB
	kind  Kind
	table string
}

// NewGormStore creates a store for the given kind on its default table.
func NewGormStore(db *gorm.DB, kind Kind) *GormStore {
	return &GormStore{db: db, kind: kind, table: kind.TableName()}
}

// Kind returns the dataset kind.
func (s *GormStore) Kind() Kind { return s.kind }

// Table returns the backing table name.
func (s *GormStore) Table() string { return s.table }

// Migrate creates or updates the backing table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Table(s.table).AutoMigrate(&ItemEntity{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", s.table, err)
	}
	return nil
}

// ListAll returns the listings of every stored item.
func (s *GormStore) ListAll(ctx context.Context) ([]Listing, error) {
	return listAll(s.db.WithContext(ctx), s.table)
}

// ListByCountry returns the listings of one country.
func (s *GormStore) ListByCountry(ctx context.Context, country string) ([]Listing, error) {
	var rows []ItemEntity
	err := s.db.WithContext(ctx).Table(s.table).
		Select("identifier_name", "version", "country_code", "hash").
		Where("country_code = ?", strings.ToUpper(country)).
		Order("identifier_name ASC, seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s for %s: %w", s.table, country, err)
	}
	return toListings(rows), nil
}

// GetByKey returns the item stored under key.
func (s *GormStore) GetByKey(ctx context.Context, key Key) (*Item, error) {
	var row ItemEntity
	err := s.db.WithContext(ctx).Table(s.table).
		Where("country_code = ? AND hash = ?", strings.ToUpper(key.Country), key.Hash).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", s.table, key, err)
	}
	item := row.toItem()
	return &item, nil
}

// Transaction runs fn inside a database transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(w Writer) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormWriter{tx: tx, table: s.table})
	})
}

type gormWriter struct {
	tx      *gorm.DB
	table   string
	nextSeq int64
}

func (w *gormWriter) ListAll(ctx context.Context) ([]Listing, error) {
	return listAll(w.tx.WithContext(ctx), w.table)
}

func (w *gormWriter) Upsert(ctx context.Context, item Item) error {
	if w.nextSeq == 0 {
		var top int64
		if err := w.tx.WithContext(ctx).Table(w.table).Select("COALESCE(MAX(seq), 0)").Scan(&top).Error; err != nil {
			return fmt.Errorf("failed to read sequence of %s: %w", w.table, err)
		}
		w.nextSeq = top + 1
	}

	row := ItemEntity{
		Country:    strings.ToUpper(item.Country),
		Hash:       item.Hash,
		Identifier: item.Identifier,
		Version:    item.Version,
		RawData:    item.RawData,
		Signature:  item.Signature,
		Seq:        w.nextSeq,
	}
	err := w.tx.WithContext(ctx).Table(w.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "country_code"}, {Name: "hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"identifier_name", "version", "raw_data", "signature"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %s %s: %w", w.table, item.Key(), err)
	}
	w.nextSeq++
	return nil
}

func (w *gormWriter) DeleteAllExcept(ctx context.Context, keep []Key) (int, error) {
	existing, err := listAll(w.tx.WithContext(ctx), w.table)
	if err != nil {
		return 0, err
	}

	retain := make(map[Key]struct{}, len(keep))
	for _, k := range keep {
		retain[k] = struct{}{}
	}

	var stale []Key
	for _, l := range existing {
		if _, ok := retain[l.Key()]; !ok {
			stale = append(stale, l.Key())
		}
	}

	deleted := 0
	for start := 0; start < len(stale); start += deleteChunk {
		end := min(start+deleteChunk, len(stale))
		conds := make([]string, 0, end-start)
		args := make([]any, 0, 2*(end-start))
		for _, k := range stale[start:end] {
			conds = append(conds, "(country_code = ? AND hash = ?)")
			args = append(args, k.Country, k.Hash)
		}
		res := w.tx.WithContext(ctx).Table(w.table).Where(strings.Join(conds, " OR "), args...).Delete(&ItemEntity{})
		if res.Error != nil {
			return deleted, fmt.Errorf("failed to delete stale %s: %w", w.table, res.Error)
		}
		deleted += int(res.RowsAffected)
	}
	return deleted, nil
}

func (w *gormWriter) DeleteAll(ctx context.Context) (int, error) {
	res := w.tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Table(w.table).Delete(&ItemEntity{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", w.table, res.Error)
	}
	return int(res.RowsAffected), nil
}

func listAll(db *gorm.DB, table string) ([]Listing, error) {
	var rows []ItemEntity
	err := db.Table(table).
		Select("identifier_name", "version", "country_code", "hash").
		Order("identifier_name ASC, seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return toListings(rows), nil
}

func toListings(rows []ItemEntity) []Listing {
	out := make([]Listing, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toListing())
	}
	return out
}
