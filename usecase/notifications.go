package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"itcommunity/domain"
	"itcommunity/infrastructure"
)

// Notifier persists a notification for one user.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

// EventPublisher forwards stored notifications to the delivery queue.
type EventPublisher interface {
	PublishNotification(ctx context.Context, event infrastructure.NotificationEvent) error
}

// DeliveryOutcome is the result of notifying one recipient. Err is nil on success.
type DeliveryOutcome struct {
	RecipientID uint
	Err         error
}

// NotifyEach sends one notification per recipient, one after another. A failed
// recipient is logged and recorded in the outcomes; it never stops the loop.
func NotifyEach(ctx context.Context, notifier Notifier, log logrus.FieldLogger, recipients []uint, build func(recipientID uint) *domain.Notification) []DeliveryOutcome {
	outcomes := make([]DeliveryOutcome, 0, len(recipients))
	for _, id := range recipients {
		err := notifier.Notify(ctx, build(id))
		if err != nil {
			log.WithError(err).WithField("recipient_id", id).Warn("Notification not delivered")
		}
		outcomes = append(outcomes, DeliveryOutcome{RecipientID: id, Err: err})
	}
	return outcomes
}

func notificationData(fields map[string]interface{}) datatypes.JSON {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

type NotificationService struct {
	db        *gorm.DB
	publisher EventPublisher
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewNotificationService returns a service that stores notifications and,
// when publisher is non-nil, queues them for delivery.
func NewNotificationService(db *gorm.DB, publisher EventPublisher, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{
		db:        db,
		publisher: publisher,
		log:       log.WithField("component", "notifications"),
		now:       time.Now,
	}
}

// Notify stores n. Publishing to the queue is best-effort.
func (s *NotificationService) Notify(ctx context.Context, n *domain.Notification) error {
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.publisher != nil {
		event := infrastructure.NotificationEvent{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Type:           string(n.Type),
			Title:          n.Title,
			Priority:       string(n.Priority),
		}
		if err := s.publisher.PublishNotification(ctx, event); err != nil {
			s.log.WithError(err).WithField("notification_id", n.ID).Warn("Failed to queue notification")
		}
	}
	return nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var items []domain.Notification
	if err := q.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*domain.Notification, error) {
	var n domain.Notification
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("notification %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}

	if !n.IsRead {
		now := s.now()
		n.IsRead = true
		n.ReadAt = &now
		if err := s.db.WithContext(ctx).Model(&n).Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
	}
	return &n, nil
}

// MarkDelivered stamps delivered_at once the queue consumer has handled the event.
func (s *NotificationService) MarkDelivered(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND delivered_at IS NULL", id).
		Update("delivered_at", s.now())
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification %d delivered: %w", id, res.Error)
	}
	return nil
}
