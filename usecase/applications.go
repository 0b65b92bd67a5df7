package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"itcommunity/domain"
)

// ApplyInput carries the optional fields of an application.
type ApplyInput struct {
	CoverLetter       string `json:"cover_letter" binding:"max=5000"`
	ResumeURL         string `json:"resume_url" binding:"max=512"`
	PortfolioURL      string `json:"portfolio_url" binding:"omitempty,url,max=512"`
	ExpectedSalary    *int   `json:"expected_salary" binding:"omitempty,gte=0"`
	Availability      string `json:"availability" binding:"max=255"`
	WillingToRelocate bool   `json:"willing_to_relocate"`
}

// StatusUpdate moves an application to Status. Notes, reason and rating are
// only written when present.
type StatusUpdate struct {
	Status          domain.ApplicationStatus `json:"status" binding:"required"`
	RecruiterNotes  *string                  `json:"recruiter_notes" binding:"omitempty,max=5000"`
	RejectionReason *string                  `json:"rejection_reason" binding:"omitempty,max=5000"`
	Rating          *int                     `json:"rating" binding:"omitempty,min=1,max=5"`
}

func (u StatusUpdate) validate() error {
	if !u.Status.Valid() {
		return domain.NewBadRequestError("unknown application status %q", u.Status)
	}
	if u.Rating != nil && (*u.Rating < 1 || *u.Rating > 5) {
		return domain.NewBadRequestError("rating must be between 1 and 5")
	}
	return nil
}

// BulkItemError reports why one application in a batch was not updated.
type BulkItemError struct {
	ApplicationID uint   `json:"application_id"`
	Error         string `json:"error"`
}

type BulkUpdateResult struct {
	Updated int             `json:"updated"`
	Errors  []BulkItemError `json:"errors"`
}

// ApplyForJob submits the applicant's application. The job must be published,
// before its deadline, and not already applied to by this applicant.
func (s *JobService) ApplyForJob(ctx context.Context, jobID, applicantID uint, in ApplyInput) (*domain.JobApplication, error) {
	var job domain.Job
	err := s.db.WithContext(ctx).First(&job, jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("job %d not found", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job %d: %w", jobID, err)
	}

	now := s.now()
	if job.Status != domain.JobStatusPublished {
		return nil, domain.NewBadRequestError("this job is not accepting applications")
	}
	if job.DeadlinePassed(now) {
		return nil, domain.NewBadRequestError("the application deadline for this job has passed")
	}

	var existing int64
	err = s.db.WithContext(ctx).
		Model(&domain.JobApplication{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if existing > 0 {
		return nil, domain.NewConflictError("you have already applied for this job")
	}

	var applicant domain.User
	err = s.db.WithContext(ctx).First(&applicant, applicantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("applicant %d not found", applicantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load applicant: %w", err)
	}

	score := SkillsMatchScore(applicant.Skills, job.RequiredSkills, job.PreferredSkills)
	app := domain.JobApplication{
		JobID:             jobID,
		ApplicantID:       applicantID,
		CoverLetter:       in.CoverLetter,
		ResumeURL:         in.ResumeURL,
		PortfolioURL:      in.PortfolioURL,
		ExpectedSalary:    in.ExpectedSalary,
		Availability:      in.Availability,
		WillingToRelocate: in.WillingToRelocate,
		SkillsMatchScore:  &score,
		Status:            domain.ApplicationPending,
		AppliedAt:         now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&app).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.NewConflictError("you have already applied for this job")
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		return recordActivity(tx, applicantID, domain.ActivityJobApplied, "Applied for a job", job.Title, job.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyApplication(ctx, job, applicant, app)

	s.log.WithFields(logrus.Fields{
		"job_id":       jobID,
		"applicant_id": applicantID,
		"match_score":  score,
	}).Info("Application submitted")
	return &app, nil
}

func (s *JobService) notifyApplication(ctx context.Context, job domain.Job, applicant domain.User, app domain.JobApplication) {
	data := notificationData(map[string]interface{}{"job_id": job.ID, "application_id": app.ID})

	ownerMessage := fmt.Sprintf("%s applied for %s", applicant.DisplayName(), job.Title)
	if app.SkillsMatchScore != nil {
		ownerMessage = fmt.Sprintf("%s (%d%% skills match)", ownerMessage, *app.SkillsMatchScore)
	}

	notes := map[uint]*domain.Notification{
		applicant.ID: {
			UserID:   applicant.ID,
			Type:     domain.NotificationApplicationSent,
			Title:    "Application Submitted",
			Message:  fmt.Sprintf("Your application for %s has been submitted", job.Title),
			Priority: domain.PriorityMedium,
			Data:     data,
		},
		job.CompanyID: {
			UserID:   job.CompanyID,
			Type:     domain.NotificationNewApplication,
			Title:    "New Application Received",
			Message:  ownerMessage,
			Priority: domain.PriorityHigh,
			Data:     data,
		},
	}
	NotifyEach(ctx, s.notifier, s.log, []uint{applicant.ID, job.CompanyID}, func(id uint) *domain.Notification {
		return notes[id]
	})
}

func (s *JobService) findApplication(ctx context.Context, id uint) (*domain.JobApplication, error) {
	var app domain.JobApplication
	err := s.db.WithContext(ctx).Preload("Job").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("application %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load application %d: %w", id, err)
	}
	return &app, nil
}

// UpdateApplicationStatus moves an application to a new status and tells the
// applicant. Any status may follow any other; only the posting company may
// change it.
func (s *JobService) UpdateApplicationStatus(ctx context.Context, id, companyID uint, in StatusUpdate) (*domain.JobApplication, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Job == nil || app.Job.CompanyID != companyID {
		return nil, domain.NewForbiddenError("only the posting company can update application %d", id)
	}

	applyStatus(app, in.Status, s.now())
	setIf(&app.RecruiterNotes, in.RecruiterNotes)
	setIf(&app.RejectionReason, in.RejectionReason)
	if in.Rating != nil {
		app.Rating = in.Rating
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(app).Error; err != nil {
		return nil, fmt.Errorf("failed to update application %d: %w", id, err)
	}

	n := statusNotification(in.Status, app.Job.Title)
	n.UserID = app.ApplicantID
	n.Data = notificationData(map[string]interface{}{"job_id": app.JobID, "application_id": app.ID, "status": app.Status})
	NotifyEach(ctx, s.notifier, s.log, []uint{app.ApplicantID}, func(uint) *domain.Notification { return n })

	return app, nil
}

// BulkUpdateApplications applies the same update to each id independently.
// Failures are collected per id; the batch itself never fails.
func (s *JobService) BulkUpdateApplications(ctx context.Context, companyID uint, ids []uint, in StatusUpdate) (*BulkUpdateResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	result := &BulkUpdateResult{Errors: []BulkItemError{}}
	for _, id := range ids {
		if _, err := s.UpdateApplicationStatus(ctx, id, companyID, in); err != nil {
			result.Errors = append(result.Errors, BulkItemError{ApplicationID: id, Error: err.Error()})
			continue
		}
		result.Updated++
	}
	return result, nil
}

// WithdrawApplication lets applicants pull their own application before a
// final answer.
func (s *JobService) WithdrawApplication(ctx context.Context, id, applicantID uint) (*domain.JobApplication, error) {
	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != applicantID {
		return nil, domain.NewForbiddenError("application %d belongs to another user", id)
	}
	if app.Status.Final() {
		return nil, domain.NewBadRequestError("application is already %s", app.Status)
	}

	applyStatus(app, domain.ApplicationWithdrawn, s.now())
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(app).Error; err != nil {
		return nil, fmt.Errorf("failed to withdraw application %d: %w", id, err)
	}

	if app.Job != nil {
		title := app.Job.Title
		NotifyEach(ctx, s.notifier, s.log, []uint{app.Job.CompanyID}, func(ownerID uint) *domain.Notification {
			return &domain.Notification{
				UserID:   ownerID,
				Type:     domain.NotificationApplicationStatus,
				Title:    "Application Withdrawn",
				Message:  fmt.Sprintf("An applicant withdrew their application for %s", title),
				Priority: domain.PriorityLow,
				Data:     notificationData(map[string]interface{}{"job_id": app.JobID, "application_id": app.ID}),
			}
		})
	}
	return app, nil
}

// ListMyApplications returns the applicant's applications with their jobs, newest first.
func (s *JobService) ListMyApplications(ctx context.Context, applicantID uint) ([]domain.JobApplication, error) {
	var apps []domain.JobApplication
	err := s.db.WithContext(ctx).
		Preload("Job.Company").
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListJobApplications returns a job's applications for its owner, best
// skills match first.
func (s *JobService) ListJobApplications(ctx context.Context, jobID, companyID uint, status domain.ApplicationStatus) ([]domain.JobApplication, error) {
	if _, err := s.findOwnedJob(ctx, jobID, companyID); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Preload("Applicant").Where("job_id = ?", jobID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var apps []domain.JobApplication
	if err := q.Order("skills_match_score DESC").Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	return apps, nil
}
