package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityJobPosted        ActivityType = "job_posted"
	ActivityJobApplied       ActivityType = "job_applied"
	ActivityProjectUploaded  ActivityType = "project_uploaded"
	ActivityProjectApproved  ActivityType = "project_approved"
	ActivityProjectRejected  ActivityType = "project_rejected"
	ActivityEventRegistered  ActivityType = "event_registered"
	ActivityApplicationMoved ActivityType = "application_status_changed"
)

// Activity is an append-only audit row.
type Activity struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;index" json:"user_id"`
	Type      ActivityType `gorm:"size:64;not null;index" json:"type"`
	Action    string       `gorm:"size:255;not null" json:"action"`
	ItemTitle string       `gorm:"size:255" json:"item_title,omitempty"`
	ItemID    uint         `json:"item_id,omitempty"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityMedium NotificationPriority = "MEDIUM"
	PriorityHigh   NotificationPriority = "HIGH"
)

type NotificationType string

const (
	NotificationJobPosted         NotificationType = "job_posted"
	NotificationApplicationSent   NotificationType = "application_submitted"
	NotificationNewApplication    NotificationType = "new_application"
	NotificationApplicationStatus NotificationType = "application_status"
	NotificationProjectReview     NotificationType = "project_review"
)

// Notification is a persisted message for one user. Data carries
// type-specific ids ({"job_id": 1, "application_id": 7}).
type Notification struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	UserID      uint                 `gorm:"not null;index" json:"user_id"`
	Type        NotificationType     `gorm:"size:64;not null" json:"type"`
	Title       string               `gorm:"size:255;not null" json:"title"`
	Message     string               `gorm:"type:text" json:"message"`
	Priority    NotificationPriority `gorm:"size:16;not null" json:"priority"`
	Data        datatypes.JSON       `json:"data,omitempty"`
	IsRead      bool                 `gorm:"index" json:"is_read"`
	ReadAt      *time.Time           `json:"read_at,omitempty"`
	DeliveredAt *time.Time           `json:"delivered_at,omitempty"`
	CreatedAt   time.Time            `gorm:"index" json:"created_at"`
}
