package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "PENDING"
	ApplicationReviewing   ApplicationStatus = "REVIEWING"
	ApplicationShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationInterviewed ApplicationStatus = "INTERVIEWED"
	ApplicationOffered     ApplicationStatus = "OFFERED"
	ApplicationAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationWithdrawn   ApplicationStatus = "WITHDRAWN"
)

// ApplicationStatuses lists every status in pipeline order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationReviewing,
	ApplicationShortlisted,
	ApplicationInterviewed,
	ApplicationOffered,
	ApplicationAccepted,
	ApplicationRejected,
	ApplicationWithdrawn,
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Final reports whether the applicant has already received an answer or left.
func (s ApplicationStatus) Final() bool {
	return s == ApplicationAccepted || s == ApplicationRejected || s == ApplicationWithdrawn
}

// JobApplication is one applicant's submission to one job.
type JobApplication struct {
	ID          uint  `gorm:"primaryKey" json:"id"`
	JobID       uint  `gorm:"not null;uniqueIndex:idx_application_job_applicant" json:"job_id"`
	ApplicantID uint  `gorm:"not null;uniqueIndex:idx_application_job_applicant;index" json:"applicant_id"`
	Job         *Job  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	Applicant   *User `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"applicant,omitempty"`

	CoverLetter       string `gorm:"type:text" json:"cover_letter,omitempty"`
	ResumeURL         string `gorm:"size:512" json:"resume_url,omitempty"`
	PortfolioURL      string `gorm:"size:512" json:"portfolio_url,omitempty"`
	ExpectedSalary    *int   `json:"expected_salary,omitempty"`
	Availability      string `gorm:"size:255" json:"availability,omitempty"`
	WillingToRelocate bool   `json:"willing_to_relocate"`

	SkillsMatchScore *int              `json:"skills_match_score,omitempty"`
	Status           ApplicationStatus `gorm:"size:32;not null;index" json:"status"`
	RecruiterNotes   string            `gorm:"type:text" json:"recruiter_notes,omitempty"`
	RejectionReason  string            `gorm:"type:text" json:"rejection_reason,omitempty"`
	Rating           *int              `json:"rating,omitempty"`

	AppliedAt     time.Time  `gorm:"index" json:"applied_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ShortlistedAt *time.Time `json:"shortlisted_at,omitempty"`
	InterviewedAt *time.Time `json:"interviewed_at,omitempty"`
	OfferedAt     *time.Time `json:"offered_at,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
