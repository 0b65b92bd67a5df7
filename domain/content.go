package domain

import "time"

type ProjectStatus string

const (
	ProjectPendingApproval ProjectStatus = "PENDING_APPROVAL"
	ProjectApproved        ProjectStatus = "APPROVED"
	ProjectRejected        ProjectStatus = "REJECTED"
)

// Project is a showcase entry uploaded by a student or professional and
// moderated by admins.
type Project struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Title           string        `gorm:"size:255;not null" json:"title"`
	Description     string        `gorm:"type:text" json:"description"`
	Technologies    []string      `gorm:"type:text;serializer:json" json:"technologies"`
	RepositoryURL   string        `gorm:"size:512" json:"repository_url,omitempty"`
	DemoURL         string        `gorm:"size:512" json:"demo_url,omitempty"`
	Status          ProjectStatus `gorm:"size:32;not null;index" json:"status"`
	OwnerID         uint          `gorm:"not null;index" json:"owner_id"`
	Owner           *User         `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	ReviewedBy      *uint         `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	ReviewNotes     string        `gorm:"type:text" json:"review_notes,omitempty"`
	RejectionReason string        `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type EventType string

const (
	EventWorkshop   EventType = "WORKSHOP"
	EventMeetup     EventType = "MEETUP"
	EventConference EventType = "CONFERENCE"
	EventHackathon  EventType = "HACKATHON"
	EventWebinar    EventType = "WEBINAR"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "UPCOMING"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

type Event struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Type        EventType   `gorm:"size:32;not null;index" json:"type"`
	Status      EventStatus `gorm:"size:32;not null;index" json:"status"`
	Location    string      `gorm:"size:255" json:"location"`
	StartsAt    time.Time   `gorm:"index" json:"starts_at"`
	EndsAt      *time.Time  `json:"ends_at,omitempty"`
	Capacity    int         `json:"capacity"`
	OrganizerID uint        `gorm:"not null;index" json:"organizer_id"`
	Organizer   *User       `gorm:"foreignKey:OrganizerID;constraint:OnDelete:CASCADE" json:"organizer,omitempty"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// EventRegistration is one attendee's seat at an event. At most one per (event, user).
type EventRegistration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_registration_event_user" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_registration_event_user;index" json:"user_id"`
	Event     *Event    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
