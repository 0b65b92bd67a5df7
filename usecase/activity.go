package usecase

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"itcommunity/domain"
)

// recordActivity appends an audit row using tx, so it commits or rolls back
// together with the write it describes.
func recordActivity(tx *gorm.DB, userID uint, kind domain.ActivityType, action, itemTitle string, itemID uint) error {
	a := domain.Activity{
		UserID:    userID,
		Type:      kind,
		Action:    action,
		ItemTitle: itemTitle,
		ItemID:    itemID,
	}
	if err := tx.Create(&a).Error; err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// ActivityLog reads the audit trail.
type ActivityLog struct {
	db *gorm.DB
}

func NewActivityLog(db *gorm.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

// Recent returns the user's latest activities, newest first.
func (l *ActivityLog) Recent(ctx context.Context, userID uint, limit int) ([]domain.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var items []domain.Activity
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return items, nil
}
