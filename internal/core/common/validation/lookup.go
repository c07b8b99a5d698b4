package validation

import (
	"context"

	"gorm.io/gorm"
)

// GormLookup runs Unique and Exists checks as count queries.
type GormLookup struct {
	db *gorm.DB
}

func NewGormLookup(db *gorm.DB) *GormLookup {
	return &GormLookup{db: db}
}

func (l *GormLookup) Exists(ctx context.Context, table, column string, value any) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Table(table).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}

func (l *GormLookup) IsTaken(ctx context.Context, table, column string, value any, excludeID int64) (bool, error) {
	var count int64
	q := l.db.WithContext(ctx).Table(table).Where(column+" = ?", value)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
