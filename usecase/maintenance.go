package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"itcommunity/domain"
)

// Events without an end time are treated as finished this long after they start.
const defaultEventLength = 24 * time.Hour

// SweepResult counts the rows touched by one maintenance pass.
type SweepResult struct {
	EventsStarted       int64 `json:"events_started"`
	EventsCompleted     int64 `json:"events_completed"`
	NotificationsPruned int64 `json:"notifications_pruned"`
}

// MaintenanceService moves events along their schedule and prunes old
// notifications. Job deadlines are not touched here; applying checks them.
type MaintenanceService struct {
	db        *gorm.DB
	retention time.Duration
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewMaintenanceService returns a sweeper. A zero retention keeps read
// notifications forever.
func NewMaintenanceService(db *gorm.DB, retention time.Duration, log logrus.FieldLogger) *MaintenanceService {
	return &MaintenanceService{
		db:        db,
		retention: retention,
		log:       log.WithField("component", "maintenance"),
		now:       time.Now,
	}
}

func (s *MaintenanceService) Sweep(ctx context.Context) (SweepResult, error) {
	now := s.now().UTC()
	db := s.db.WithContext(ctx)
	var res SweepResult

	completed := db.Model(&domain.Event{}).
		Where("status IN ?", []domain.EventStatus{domain.EventUpcoming, domain.EventOngoing}).
		Where("(ends_at IS NOT NULL AND ends_at <= ?) OR (ends_at IS NULL AND starts_at <= ?)", now, now.Add(-defaultEventLength)).
		Update("status", domain.EventCompleted)
	if completed.Error != nil {
		return res, fmt.Errorf("failed to complete events: %w", completed.Error)
	}
	res.EventsCompleted = completed.RowsAffected

	started := db.Model(&domain.Event{}).
		Where("status = ? AND starts_at <= ?", domain.EventUpcoming, now).
		Update("status", domain.EventOngoing)
	if started.Error != nil {
		return res, fmt.Errorf("failed to start events: %w", started.Error)
	}
	res.EventsStarted = started.RowsAffected

	if s.retention > 0 {
		pruned := db.Where("is_read = ? AND created_at < ?", true, now.Add(-s.retention)).Delete(&domain.Notification{})
		if pruned.Error != nil {
			return res, fmt.Errorf("failed to prune notifications: %w", pruned.Error)
		}
		res.NotificationsPruned = pruned.RowsAffected
	}

	if res != (SweepResult{}) {
		s.log.WithFields(logrus.Fields{
			"events_started":       res.EventsStarted,
			"events_completed":     res.EventsCompleted,
			"notifications_pruned": res.NotificationsPruned,
		}).Info("Maintenance sweep finished")
	}
	return res, nil
}
