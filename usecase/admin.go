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

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ContentType names a moderated collection.
type ContentType string

const (
	ContentUsers    ContentType = "users"
	ContentProjects ContentType = "projects"
	ContentJobs     ContentType = "jobs"
	ContentEvents   ContentType = "events"
)

// ListQuery is the common page/filter input of admin listings.
type ListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Search string `form:"search"`
	Status string `form:"status"`
	Type   string `form:"type"`
}

func (q ListQuery) normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	return q
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// listSpec says which columns a listing searches and filters on.
type listSpec struct {
	searchColumns []string
	statusColumn  string
	typeColumn    string
	preload       []string
}

var listSpecs = map[ContentType]listSpec{
	ContentUsers:    {searchColumns: []string{"name", "email", "company_name"}, typeColumn: "role"},
	ContentProjects: {searchColumns: []string{"title", "description"}, statusColumn: "status", preload: []string{"Owner"}},
	ContentJobs:     {searchColumns: []string{"title", "description", "location"}, statusColumn: "status", typeColumn: "type", preload: []string{"Company"}},
	ContentEvents:   {searchColumns: []string{"title", "description", "location"}, statusColumn: "status", typeColumn: "type", preload: []string{"Organizer"}},
}

// where builds the filter: search terms are OR'd across the text columns and
// matched case-insensitively.
func (spec listSpec) where(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term := strings.TrimSpace(q.Search); term != "" && len(spec.searchColumns) > 0 {
			pattern := likePattern(term)
			parts := make([]string, len(spec.searchColumns))
			args := make([]interface{}, len(spec.searchColumns))
			for i, col := range spec.searchColumns {
				parts[i] = "LOWER(" + col + ") LIKE ?"
				args[i] = pattern
			}
			db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
		}
		if q.Status != "" && spec.statusColumn != "" {
			db = db.Where(spec.statusColumn+" = ?", strings.ToUpper(q.Status))
		}
		if q.Type != "" && spec.typeColumn != "" {
			db = db.Where(spec.typeColumn+" = ?", strings.ToUpper(q.Type))
		}
		return db
	}
}

func paginate[T any](ctx context.Context, db *gorm.DB, kind ContentType, q ListQuery) (*Page[T], error) {
	spec := listSpecs[kind]
	q = q.normalized()

	var total int64
	if err := db.WithContext(ctx).Model(new(T)).Scopes(spec.where(q)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", kind, err)
	}

	items := []T{}
	find := db.WithContext(ctx).Scopes(spec.where(q))
	for _, p := range spec.preload {
		find = find.Preload(p)
	}
	err := find.Order("created_at DESC").Order("id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

// MetricsCache keeps the last computed dashboard.
type MetricsCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// AdminService owns moderation, admin listings and dashboard metrics.
type AdminService struct {
	db       *gorm.DB
	notifier Notifier
	cache    MetricsCache
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewAdminService wires the service. cache may be nil.
func NewAdminService(db *gorm.DB, notifier Notifier, cache MetricsCache, log logrus.FieldLogger) *AdminService {
	return &AdminService{
		db:       db,
		notifier: notifier,
		cache:    cache,
		log:      log.WithField("component", "admin"),
		now:      time.Now,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, q ListQuery) (*Page[domain.User], error) {
	return paginate[domain.User](ctx, s.db, ContentUsers, q)
}

func (s *AdminService) ListProjects(ctx context.Context, q ListQuery) (*Page[domain.Project], error) {
	return paginate[domain.Project](ctx, s.db, ContentProjects, q)
}

func (s *AdminService) ListJobs(ctx context.Context, q ListQuery) (*Page[domain.Job], error) {
	return paginate[domain.Job](ctx, s.db, ContentJobs, q)
}

func (s *AdminService) ListEvents(ctx context.Context, q ListQuery) (*Page[domain.Event], error) {
	return paginate[domain.Event](ctx, s.db, ContentEvents, q)
}

// ApproveProject moves a pending project to APPROVED.
func (s *AdminService) ApproveProject(ctx context.Context, adminID, projectID uint, notes string) (*domain.Project, error) {
	return s.reviewProject(ctx, adminID, projectID, true, notes)
}

// RejectProject moves a pending project to REJECTED.
func (s *AdminService) RejectProject(ctx context.Context, adminID, projectID uint, reason string) (*domain.Project, error) {
	return s.reviewProject(ctx, adminID, projectID, false, reason)
}

func (s *AdminService) reviewProject(ctx context.Context, adminID, projectID uint, approve bool, text string) (*domain.Project, error) {
	var project domain.Project
	err := s.db.WithContext(ctx).First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("project %d not found", projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project %d: %w", projectID, err)
	}
	if project.Status != domain.ProjectPendingApproval {
		return nil, domain.NewBadRequestError("project %d is not pending approval", projectID)
	}

	now := s.now()
	project.ReviewedBy = &adminID
	project.ReviewedAt = &now

	activity, action, title := domain.ActivityProjectApproved, "Approved a project", "Project Approved"
	message := fmt.Sprintf("Your project %q has been approved", project.Title)
	if approve {
		project.Status = domain.ProjectApproved
		project.ReviewNotes = text
	} else {
		project.Status = domain.ProjectRejected
		project.RejectionReason = text
		activity, action, title = domain.ActivityProjectRejected, "Rejected a project", "Project Rejected"
		message = fmt.Sprintf("Your project %q was not approved", project.Title)
		if text != "" {
			message += ": " + text
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&project).Error; err != nil {
			return fmt.Errorf("failed to update project %d: %w", projectID, err)
		}
		return recordActivity(tx, adminID, activity, action, project.Title, project.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyReview(ctx, project, title, message)
	s.invalidateMetrics(ctx)
	return &project, nil
}

func (s *AdminService) notifyReview(ctx context.Context, project domain.Project, title, message string) {
	NotifyEach(ctx, s.notifier, s.log, []uint{project.OwnerID}, func(ownerID uint) *domain.Notification {
		return &domain.Notification{
			UserID:   ownerID,
			Type:     domain.NotificationProjectReview,
			Title:    title,
			Message:  message,
			Priority: domain.PriorityMedium,
			Data:     notificationData(map[string]interface{}{"project_id": project.ID, "status": project.Status}),
		}
	})
}

// BulkApprove approves pending projects or publishes draft jobs in a single
// transaction and returns how many rows changed.
func (s *AdminService) BulkApprove(ctx context.Context, adminID uint, kind ContentType, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewBadRequestError("ids must not be empty")
	}

	var affected int64
	var pending []domain.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch kind {
		case ContentProjects:
			if err := tx.Where("id IN ? AND status = ?", ids, domain.ProjectPendingApproval).Find(&pending).Error; err != nil {
				return fmt.Errorf("failed to load pending projects: %w", err)
			}
			if len(pending) == 0 {
				return nil
			}
			pendingIDs := make([]uint, len(pending))
			for i, p := range pending {
				pendingIDs[i] = p.ID
			}
			res := tx.Model(&domain.Project{}).Where("id IN ?", pendingIDs).Updates(map[string]interface{}{
				"status":      domain.ProjectApproved,
				"reviewed_by": adminID,
				"reviewed_at": s.now(),
			})
			if res.Error != nil {
				return fmt.Errorf("failed to approve projects: %w", res.Error)
			}
			affected = res.RowsAffected
			for _, p := range pending {
				if err := recordActivity(tx, adminID, domain.ActivityProjectApproved, "Approved a project", p.Title, p.ID); err != nil {
					return err
				}
			}
		case ContentJobs:
			res := tx.Model(&domain.Job{}).
				Where("id IN ? AND status = ?", ids, domain.JobStatusDraft).
				Update("status", domain.JobStatusPublished)
			if res.Error != nil {
				return fmt.Errorf("failed to publish jobs: %w", res.Error)
			}
			affected = res.RowsAffected
		default:
			return domain.NewBadRequestError("bulk approve is not supported for %s", kind)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, p := range pending {
		p.Status = domain.ProjectApproved
		s.notifyReview(ctx, p, "Project Approved", fmt.Sprintf("Your project %q has been approved", p.Title))
	}

	s.log.WithFields(logrus.Fields{"type": kind, "requested": len(ids), "approved": affected}).Info("Bulk approve")
	s.invalidateMetrics(ctx)
	return affected, nil
}

// BulkDelete removes projects, jobs or events in a single transaction. Jobs
// take their applications and bookmarks with them.
func (s *AdminService) BulkDelete(ctx context.Context, kind ContentType, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewBadRequestError("ids must not be empty")
	}

	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res *gorm.DB
		switch kind {
		case ContentProjects:
			res = tx.Where("id IN ?", ids).Delete(&domain.Project{})
		case ContentEvents:
			res = tx.Where("id IN ?", ids).Delete(&domain.Event{})
		case ContentJobs:
			if err := tx.Model(&domain.Job{}).Where("id IN ?", ids).Count(&affected).Error; err != nil {
				return fmt.Errorf("failed to count jobs: %w", err)
			}
			return deleteJobs(tx, ids)
		default:
			return domain.NewBadRequestError("bulk delete is not supported for %s", kind)
		}
		if res.Error != nil {
			return fmt.Errorf("failed to delete %s: %w", kind, res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"type": kind, "requested": len(ids), "deleted": affected}).Info("Bulk delete")
	s.invalidateMetrics(ctx)
	return affected, nil
}
