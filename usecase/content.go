package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"itcommunity/domain"
)

// ProjectInput is the body of a project submission.
type ProjectInput struct {
	Title         string   `json:"title" binding:"required,min=3,max=255"`
	Description   string   `json:"description" binding:"required"`
	Technologies  []string `json:"technologies" binding:"dive,skill"`
	RepositoryURL string   `json:"repository_url" binding:"omitempty,url,max=512"`
	DemoURL       string   `json:"demo_url" binding:"omitempty,url,max=512"`
}

// EventInput is the body of an event announcement.
type EventInput struct {
	Title       string           `json:"title" binding:"required,min=3,max=255"`
	Description string           `json:"description"`
	Type        domain.EventType `json:"type" binding:"required,oneof=WORKSHOP MEETUP CONFERENCE HACKATHON WEBINAR"`
	Location    string           `json:"location" binding:"max=255"`
	StartsAt    time.Time        `json:"starts_at" binding:"required"`
	EndsAt      *time.Time       `json:"ends_at"`
	Capacity    int              `json:"capacity" binding:"gte=0"`
}

// ContentService handles community projects and events.
type ContentService struct {
	db  *gorm.DB
	log logrus.FieldLogger
	now func() time.Time
}

func NewContentService(db *gorm.DB, log logrus.FieldLogger) *ContentService {
	return &ContentService{db: db, log: log.WithField("component", "content"), now: time.Now}
}

// SubmitProject stores a project awaiting moderation.
func (s *ContentService) SubmitProject(ctx context.Context, ownerID uint, in ProjectInput) (*domain.Project, error) {
	project := domain.Project{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Technologies:  nonNil(in.Technologies),
		RepositoryURL: in.RepositoryURL,
		DemoURL:       in.DemoURL,
		Status:        domain.ProjectPendingApproval,
		OwnerID:       ownerID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		return recordActivity(tx, ownerID, domain.ActivityProjectUploaded, "Uploaded a project", project.Title, project.ID)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns approved projects, newest first.
func (s *ContentService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var items []domain.Project
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ?", domain.ProjectApproved).
		Order("created_at DESC").Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return items, nil
}

// GetProject returns an approved project, or any project to its owner.
func (s *ContentService) GetProject(ctx context.Context, id, viewerID uint) (*domain.Project, error) {
	var project domain.Project
	err := s.db.WithContext(ctx).Preload("Owner").First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("project %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project %d: %w", id, err)
	}
	if project.Status != domain.ProjectApproved && project.OwnerID != viewerID {
		return nil, domain.NewNotFoundError("project %d not found", id)
	}
	return &project, nil
}

func (s *ContentService) CreateEvent(ctx context.Context, organizerID uint, in EventInput) (*domain.Event, error) {
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return nil, domain.NewBadRequestError("ends_at must not be before starts_at")
	}
	event := domain.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        in.Type,
		Status:      domain.EventUpcoming,
		Location:    in.Location,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Capacity:    in.Capacity,
		OrganizerID: organizerID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &event, nil
}

// ListEvents returns events that have not been cancelled, soonest first.
func (s *ContentService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var items []domain.Event
	err := s.db.WithContext(ctx).
		Preload("Organizer").
		Where("status <> ?", domain.EventCancelled).
		Order("starts_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return items, nil
}

func (s *ContentService) GetEvent(ctx context.Context, id uint) (*domain.Event, error) {
	var event domain.Event
	err := s.db.WithContext(ctx).Preload("Organizer").First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("event %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %d: %w", id, err)
	}
	return &event, nil
}

// RegisterForEvent reserves a seat. Capacity 0 means unlimited.
func (s *ContentService) RegisterForEvent(ctx context.Context, eventID, userID uint) (*domain.EventRegistration, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventUpcoming {
		return nil, domain.NewBadRequestError("event %d is not open for registration", eventID)
	}

	reg := domain.EventRegistration{EventID: eventID, UserID: userID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&domain.EventRegistration{}).Where("event_id = ?", eventID).Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if event.Capacity > 0 && taken >= int64(event.Capacity) {
			return domain.NewBadRequestError("event %d is full", eventID)
		}
		if err := tx.Omit(clause.Associations).Create(&reg).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.NewConflictError("already registered for event %d", eventID)
			}
			return fmt.Errorf("failed to register: %w", err)
		}
		return recordActivity(tx, userID, domain.ActivityEventRegistered, "Registered for an event", event.Title, event.ID)
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
