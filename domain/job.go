package domain

import "time"

type JobType string

const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeInternship JobType = "INTERNSHIP"
	JobTypeContract   JobType = "CONTRACT"
)

type JobStatus string

const (
	JobStatusDraft     JobStatus = "DRAFT"
	JobStatusPublished JobStatus = "PUBLISHED"
	JobStatusClosed    JobStatus = "CLOSED"
)

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "ENTRY"
	ExperienceMid    ExperienceLevel = "MID"
	ExperienceSenior ExperienceLevel = "SENIOR"
	ExperienceLead   ExperienceLevel = "LEAD"
)

// Job is a posting owned by the company that created it.
type Job struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Requirements []string        `gorm:"type:text;serializer:json" json:"requirements"`
	Location     string          `gorm:"size:255" json:"location"`
	Type         JobType         `gorm:"size:32;not null;index" json:"type"`
	Status       JobStatus       `gorm:"size:32;not null;index" json:"status"`
	Experience   ExperienceLevel `gorm:"column:experience_level;size:32;index" json:"experience_level,omitempty"`

	// Salary is the legacy free-text form, kept as submitted.
	Salary         string `gorm:"size:128" json:"salary,omitempty"`
	SalaryMin      *int   `json:"salary_min,omitempty"`
	SalaryMax      *int   `json:"salary_max,omitempty"`
	SalaryCurrency string `gorm:"size:8" json:"salary_currency,omitempty"`
	SalaryPeriod   string `gorm:"size:16" json:"salary_period,omitempty"`

	IsRemote bool `json:"is_remote"`
	IsHybrid bool `json:"is_hybrid"`
	IsOnSite bool `json:"is_on_site"`

	RequiredSkills  []string `gorm:"type:text;serializer:json" json:"required_skills"`
	PreferredSkills []string `gorm:"type:text;serializer:json" json:"preferred_skills"`
	Technologies    []string `gorm:"type:text;serializer:json" json:"technologies"`

	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	PostedAt            time.Time  `gorm:"index" json:"posted_at"`
	Views               int        `gorm:"not null;default:0" json:"views"`
	IsFeatured          bool       `gorm:"index" json:"is_featured"`
	IsUrgent            bool       `json:"is_urgent"`

	CompanyID uint  `gorm:"not null;index" json:"company_id"`
	Company   *User `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`

	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
	Bookmarks    []JobBookmark    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeadlinePassed reports whether the application deadline is set and before now.
func (j Job) DeadlinePassed(now time.Time) bool {
	return j.ApplicationDeadline != nil && j.ApplicationDeadline.Before(now)
}

// JobBookmark marks a job saved by a user. At most one per (job, user).
type JobBookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JobID     uint      `gorm:"not null;uniqueIndex:idx_bookmark_job_user" json:"job_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_job_user;index" json:"user_id"`
	Job       *Job      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
