package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShedLock is a row of the shedlock table.
type ShedLock struct {
	Name      string    `gorm:"column:name;primaryKey;type:varchar(64)"`
	LockUntil time.Time `gorm:"column:lock_until;not null"`
	LockedAt  time.Time `gorm:"column:locked_at;not null"`
	LockedBy  string    `gorm:"column:locked_by;type:varchar(255);not null"`
}

// TableName returns the lock table name.
func (ShedLock) TableName() string { return "shedlock" }

// DBLocker implements Locker on the shedlock table. Times are stored in UTC.
type DBLocker struct {
	db    *gorm.DB
	owner string
	now   func() time.Time
}

// NewDBLocker creates a locker on db. The shedlock table must exist.
func NewDBLocker(db *gorm.DB) *DBLocker {
	return &DBLocker{db: db, owner: ownerID(), now: func() time.Time { return time.Now().UTC() }}
}

// TryAcquire inserts the lock row, or takes over a row whose lock expired.
func (l *DBLocker) TryAcquire(ctx context.Context, name string, maxHold time.Duration) (Lease, error) {
	now := l.now()
	token := l.owner + "/" + uuid.NewString()
	row := ShedLock{Name: name, LockUntil: now.Add(maxHold), LockedAt: now, LockedBy: token}

	res := l.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to insert lock %s: %w", name, res.Error)
	}
	if res.RowsAffected == 1 {
		return &dbLease{locker: l, name: name, token: token, acquiredAt: now}, nil
	}

	res = l.db.WithContext(ctx).Model(&ShedLock{}).
		Where("name = ? AND lock_until <= ?", name, now).
		Updates(map[string]any{"lock_until": row.LockUntil, "locked_at": now, "locked_by": token})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to take over lock %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotAcquired
	}
	return &dbLease{locker: l, name: name, token: token, acquiredAt: now}, nil
}

type dbLease struct {
	locker     *DBLocker
	name       string
	token      string
	acquiredAt time.Time
}

func (d *dbLease) AcquiredAt() time.Time { return d.acquiredAt }

func (d *dbLease) Release(ctx context.Context, keepUntil time.Time) error {
	until := d.locker.now()
	if keepUntil.After(until) {
		until = keepUntil.UTC()
	}
	err := d.locker.db.WithContext(ctx).Model(&ShedLock{}).
		Where("name = ? AND locked_by = ?", d.name, d.token).
		Update("lock_until", until).Error
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", d.name, err)
	}
	return nil
}
