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

// JobFilter narrows the public job list. Zero values mean "any".
type JobFilter struct {
	Type            domain.JobType         `form:"type" binding:"omitempty,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT"`
	Remote          *bool                  `form:"remote"`
	ExperienceLevel domain.ExperienceLevel `form:"experience_level" binding:"omitempty,oneof=ENTRY MID SENIOR LEAD"`
	Location        string                 `form:"location"`
	Skills          []string               `form:"skills"`
	SalaryMin       *int                   `form:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax       *int                   `form:"salary_max" binding:"omitempty,gte=0"`
	Featured        *bool                  `form:"featured"`
	Search          string                 `form:"search"`
}

// JobListing is a job annotated for the caller.
type JobListing struct {
	domain.Job
	MyApplication  *domain.JobApplication `json:"my_application,omitempty"`
	IsBookmarked   bool                   `json:"is_bookmarked"`
	ApplicantCount int64                  `json:"applicant_count"`
	BookmarkCount  int64                  `json:"bookmark_count"`
}

// JobInput is the body of a create request.
type JobInput struct {
	Title               string                 `json:"title" binding:"required,min=3,max=255"`
	Description         string                 `json:"description" binding:"required"`
	Requirements        []string               `json:"requirements"`
	Location            string                 `json:"location" binding:"required,max=255"`
	Type                domain.JobType         `json:"type" binding:"required,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT"`
	Status              domain.JobStatus       `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED CLOSED"`
	ExperienceLevel     domain.ExperienceLevel `json:"experience_level" binding:"omitempty,oneof=ENTRY MID SENIOR LEAD"`
	Salary              string                 `json:"salary" binding:"max=128"`
	SalaryMin           *int                   `json:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax           *int                   `json:"salary_max" binding:"omitempty,gte=0"`
	SalaryCurrency      string                 `json:"salary_currency" binding:"omitempty,len=3"`
	SalaryPeriod        string                 `json:"salary_period" binding:"omitempty,oneof=HOURLY MONTHLY YEARLY"`
	IsRemote            bool                   `json:"is_remote"`
	IsHybrid            bool                   `json:"is_hybrid"`
	IsOnSite            bool                   `json:"is_on_site"`
	RequiredSkills      []string               `json:"required_skills" binding:"dive,skill"`
	PreferredSkills     []string               `json:"preferred_skills" binding:"dive,skill"`
	Technologies        []string               `json:"technologies" binding:"dive,skill"`
	ApplicationDeadline *time.Time             `json:"application_deadline"`
	IsFeatured          bool                   `json:"is_featured"`
	IsUrgent            bool                   `json:"is_urgent"`
}

// JobUpdate is a partial update; nil fields are left unchanged.
type JobUpdate struct {
	Title               *string                 `json:"title" binding:"omitempty,min=3,max=255"`
	Description         *string                 `json:"description"`
	Requirements        *[]string               `json:"requirements"`
	Location            *string                 `json:"location" binding:"omitempty,max=255"`
	Type                *domain.JobType         `json:"type" binding:"omitempty,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT"`
	Status              *domain.JobStatus       `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED CLOSED"`
	ExperienceLevel     *domain.ExperienceLevel `json:"experience_level" binding:"omitempty,oneof=ENTRY MID SENIOR LEAD"`
	Salary              *string                 `json:"salary" binding:"omitempty,max=128"`
	SalaryMin           *int                    `json:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax           *int                    `json:"salary_max" binding:"omitempty,gte=0"`
	SalaryCurrency      *string                 `json:"salary_currency" binding:"omitempty,len=3"`
	SalaryPeriod        *string                 `json:"salary_period" binding:"omitempty,oneof=HOURLY MONTHLY YEARLY"`
	IsRemote            *bool                   `json:"is_remote"`
	IsHybrid            *bool                   `json:"is_hybrid"`
	IsOnSite            *bool                   `json:"is_on_site"`
	RequiredSkills      *[]string               `json:"required_skills" binding:"omitempty,dive,skill"`
	PreferredSkills     *[]string               `json:"preferred_skills" binding:"omitempty,dive,skill"`
	Technologies        *[]string               `json:"technologies" binding:"omitempty,dive,skill"`
	ApplicationDeadline *time.Time              `json:"application_deadline"`
	IsFeatured          *bool                   `json:"is_featured"`
	IsUrgent            *bool                   `json:"is_urgent"`
}

// JobService owns job postings, applications, bookmarks and per-job analytics.
type JobService struct {
	db       *gorm.DB
	notifier Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewJobService(db *gorm.DB, notifier Notifier, log logrus.FieldLogger) *JobService {
	return &JobService{
		db:       db,
		notifier: notifier,
		log:      log.WithField("component", "jobs"),
		now:      time.Now,
	}
}

// ListJobs returns every published job matching f, featured and urgent jobs
// first, then newest. viewerID 0 means an anonymous caller.
func (s *JobService) ListJobs(ctx context.Context, f JobFilter, viewerID uint) ([]JobListing, error) {
	q := s.db.WithContext(ctx).
		Preload("Company").
		Where("status = ?", domain.JobStatusPublished)

	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Remote != nil {
		q = q.Where("is_remote = ?", *f.Remote)
	}
	if f.ExperienceLevel != "" {
		q = q.Where("experience_level = ?", f.ExperienceLevel)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", likePattern(f.Location))
	}
	if f.SalaryMin != nil {
		q = q.Where("salary_min >= ?", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		q = q.Where("salary_max <= ?", *f.SalaryMax)
	}
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}
	if strings.TrimSpace(f.Search) != "" {
		term := likePattern(f.Search)
		companies := s.db.Model(&domain.User{}).
			Select("id").
			Where("LOWER(company_name) LIKE ? OR LOWER(name) LIKE ?", term, term)
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR company_id IN (?))", term, term, companies)
	}

	var jobs []domain.Job
	if err := q.Order("is_featured DESC, is_urgent DESC, posted_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(f.Skills) > 0 {
		wanted := skillSet(f.Skills)
		kept := jobs[:0]
		for _, j := range jobs {
			if jobHasAnySkill(j, wanted) {
				kept = append(kept, j)
			}
		}
		jobs = kept
	}

	return s.annotate(ctx, jobs, viewerID)
}

func jobHasAnySkill(j domain.Job, wanted map[string]struct{}) bool {
	for _, list := range [][]string{j.RequiredSkills, j.PreferredSkills, j.Technologies} {
		if countMatches(wanted, list) > 0 {
			return true
		}
	}
	return false
}

// annotate attaches counts and the viewer's own application and bookmark.
func (s *JobService) annotate(ctx context.Context, jobs []domain.Job, viewerID uint) ([]JobListing, error) {
	ids := make([]uint, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}

	applicants, err := countByJob(ctx, s.db, &domain.JobApplication{}, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count applicants: %w", err)
	}
	bookmarks, err := countByJob(ctx, s.db, &domain.JobBookmark{}, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookmarks: %w", err)
	}

	mine := map[uint]*domain.JobApplication{}
	saved := map[uint]bool{}
	if viewerID != 0 && len(ids) > 0 {
		var apps []domain.JobApplication
		if err := s.db.WithContext(ctx).Where("applicant_id = ? AND job_id IN ?", viewerID, ids).Find(&apps).Error; err != nil {
			return nil, fmt.Errorf("failed to load own applications: %w", err)
		}
		for i := range apps {
			mine[apps[i].JobID] = &apps[i]
		}

		var marks []domain.JobBookmark
		if err := s.db.WithContext(ctx).Where("user_id = ? AND job_id IN ?", viewerID, ids).Find(&marks).Error; err != nil {
			return nil, fmt.Errorf("failed to load own bookmarks: %w", err)
		}
		for _, b := range marks {
			saved[b.JobID] = true
		}
	}

	listings := make([]JobListing, len(jobs))
	for i, j := range jobs {
		listings[i] = JobListing{
			Job:            j,
			MyApplication:  mine[j.ID],
			IsBookmarked:   saved[j.ID],
			ApplicantCount: applicants[j.ID],
			BookmarkCount:  bookmarks[j.ID],
		}
	}
	return listings, nil
}

func (s *JobService) findJob(ctx context.Context, id uint) (*domain.Job, error) {
	var job domain.Job
	err := s.db.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("job %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job %d: %w", id, err)
	}
	return &job, nil
}

func (s *JobService) findOwnedJob(ctx context.Context, id, companyID uint) (*domain.Job, error) {
	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != companyID {
		return nil, domain.NewForbiddenError("only the posting company can manage job %d", id)
	}
	return job, nil
}

// GetJob returns one job. The owning company also gets the applicant list,
// newest first; every other viewer bumps the view counter.
func (s *JobService) GetJob(ctx context.Context, id, viewerID uint) (*JobListing, error) {
	var job domain.Job
	err := s.db.WithContext(ctx).Preload("Company").First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("job %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job %d: %w", id, err)
	}

	if viewerID != 0 && viewerID == job.CompanyID {
		err := s.db.WithContext(ctx).
			Preload("Applicant").
			Where("job_id = ?", job.ID).
			Order("applied_at DESC").
			Find(&job.Applications).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load applicants: %w", err)
		}
	} else {
		err := s.db.WithContext(ctx).
			Model(&domain.Job{}).
			Where("id = ?", job.ID).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count view: %w", err)
		}
		job.Views++
	}

	listings, err := s.annotate(ctx, []domain.Job{job}, viewerID)
	if err != nil {
		return nil, err
	}
	return &listings[0], nil
}

// ListCompanyJobs returns every job the company posted, in any status.
func (s *JobService) ListCompanyJobs(ctx context.Context, companyID uint) ([]JobListing, error) {
	var jobs []domain.Job
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").Order("id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list company jobs: %w", err)
	}
	return s.annotate(ctx, jobs, companyID)
}

// CreateJob stores a posting for the company and tells every admin about it.
func (s *JobService) CreateJob(ctx context.Context, companyID uint, in JobInput) (*domain.Job, error) {
	if err := checkSalaryBounds(in.SalaryMin, in.SalaryMax); err != nil {
		return nil, err
	}

	var company domain.User
	err := s.db.WithContext(ctx).First(&company, companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("company %d not found", companyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	job := domain.Job{
		Title:               strings.TrimSpace(in.Title),
		Description:         in.Description,
		Requirements:        nonNil(in.Requirements),
		Location:            in.Location,
		Type:                in.Type,
		Status:              in.Status,
		Experience:          in.ExperienceLevel,
		Salary:              in.Salary,
		SalaryMin:           in.SalaryMin,
		SalaryMax:           in.SalaryMax,
		SalaryCurrency:      in.SalaryCurrency,
		SalaryPeriod:        in.SalaryPeriod,
		IsRemote:            in.IsRemote,
		IsHybrid:            in.IsHybrid,
		IsOnSite:            in.IsOnSite,
		RequiredSkills:      nonNil(in.RequiredSkills),
		PreferredSkills:     nonNil(in.PreferredSkills),
		Technologies:        nonNil(in.Technologies),
		ApplicationDeadline: in.ApplicationDeadline,
		PostedAt:            s.now(),
		IsFeatured:          in.IsFeatured,
		IsUrgent:            in.IsUrgent,
		CompanyID:           companyID,
	}
	if job.Status == "" {
		job.Status = domain.JobStatusPublished
	}
	if job.SalaryCurrency == "" {
		job.SalaryCurrency = "USD"
	}
	if job.SalaryPeriod == "" {
		job.SalaryPeriod = "YEARLY"
	}
	if job.SalaryMin == nil && job.SalaryMax == nil && job.Salary != "" {
		job.SalaryMin, job.SalaryMax = ParseSalary(job.Salary)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&job).Error; err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		return recordActivity(tx, companyID, domain.ActivityJobPosted, "Posted a new job", job.Title, job.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyAdmins(ctx, job, company)

	s.log.WithFields(logrus.Fields{"job_id": job.ID, "company_id": companyID}).Info("Job created")
	return &job, nil
}

func (s *JobService) notifyAdmins(ctx context.Context, job domain.Job, company domain.User) []DeliveryOutcome {
	var adminIDs []uint
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Pluck("id", &adminIDs).Error; err != nil {
		s.log.WithError(err).Warn("Failed to load admins for job notification")
		return nil
	}

	return NotifyEach(ctx, s.notifier, s.log, adminIDs, func(adminID uint) *domain.Notification {
		return &domain.Notification{
			UserID:   adminID,
			Type:     domain.NotificationJobPosted,
			Title:    "New Job Posted",
			Message:  fmt.Sprintf("%s posted a new job: %s", company.DisplayName(), job.Title),
			Priority: domain.PriorityLow,
			Data:     notificationData(map[string]interface{}{"job_id": job.ID, "company_id": company.ID}),
		}
	})
}

// UpdateJob applies a partial update. Only the posting company may call it.
func (s *JobService) UpdateJob(ctx context.Context, id, companyID uint, in JobUpdate) (*domain.Job, error) {
	job, err := s.findOwnedJob(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	setIf(&job.Title, in.Title)
	setIf(&job.Description, in.Description)
	setIf(&job.Requirements, in.Requirements)
	setIf(&job.Location, in.Location)
	setIf(&job.Type, in.Type)
	setIf(&job.Status, in.Status)
	setIf(&job.Experience, in.ExperienceLevel)
	setIf(&job.SalaryCurrency, in.SalaryCurrency)
	setIf(&job.SalaryPeriod, in.SalaryPeriod)
	setIf(&job.IsRemote, in.IsRemote)
	setIf(&job.IsHybrid, in.IsHybrid)
	setIf(&job.IsOnSite, in.IsOnSite)
	setIf(&job.RequiredSkills, in.RequiredSkills)
	setIf(&job.PreferredSkills, in.PreferredSkills)
	setIf(&job.Technologies, in.Technologies)
	setIf(&job.IsFeatured, in.IsFeatured)
	setIf(&job.IsUrgent, in.IsUrgent)
	if in.ApplicationDeadline != nil {
		job.ApplicationDeadline = in.ApplicationDeadline
	}
	if in.SalaryMin != nil {
		job.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		job.SalaryMax = in.SalaryMax
	}
	if in.Salary != nil {
		job.Salary = *in.Salary
		if in.SalaryMin == nil && in.SalaryMax == nil {
			job.SalaryMin, job.SalaryMax = ParseSalary(job.Salary)
		}
	}
	if err := checkSalaryBounds(job.SalaryMin, job.SalaryMax); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error; err != nil {
		return nil, fmt.Errorf("failed to update job %d: %w", id, err)
	}
	return job, nil
}

// DeleteJob removes the job with its applications and bookmarks.
func (s *JobService) DeleteJob(ctx context.Context, id, companyID uint) error {
	if _, err := s.findOwnedJob(ctx, id, companyID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteJobs(tx, []uint{id})
	})
}

// deleteJobs removes jobs and their dependent rows inside tx.
func deleteJobs(tx *gorm.DB, ids []uint) error {
	if err := tx.Where("job_id IN ?", ids).Delete(&domain.JobBookmark{}).Error; err != nil {
		return fmt.Errorf("failed to delete bookmarks: %w", err)
	}
	if err := tx.Where("job_id IN ?", ids).Delete(&domain.JobApplication{}).Error; err != nil {
		return fmt.Errorf("failed to delete applications: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&domain.Job{}).Error; err != nil {
		return fmt.Errorf("failed to delete jobs: %w", err)
	}
	return nil
}

func checkSalaryBounds(low, high *int) error {
	if low != nil && high != nil && *high < *low {
		return domain.NewBadRequestError("salary_max must not be lower than salary_min")
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
