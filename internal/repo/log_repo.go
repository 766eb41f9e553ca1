// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// InteractionLog model.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/claim-gateway/internal/domain"
)

// ErrInvalidSource is returned by CreateLog for a row whose Source is not
// one of the known channels.
var ErrInvalidSource = errors.New("invalid log source")

// CreateLog appends l to the interaction log. CreatedAt is stamped here when
// the caller left it zero.
func CreateLog(ctx context.Context, db *gorm.DB, l *domain.InteractionLog) error {
	if !l.Source.Valid() {
		return ErrInvalidSource
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(l).Error
}

// ListLogs returns every log row in insertion order.
func ListLogs(ctx context.Context, db *gorm.DB) ([]domain.InteractionLog, error) {
	out := []domain.InteractionLog{}
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// DeleteLog removes exactly the row identified by id. Referenced actors are
// left untouched. If no row is affected, it returns ErrNotFound.
func DeleteLog(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.InteractionLog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountLogs returns the total number of log rows.
func CountLogs(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.InteractionLog{}).Count(&total).Error
	return total, err
}
