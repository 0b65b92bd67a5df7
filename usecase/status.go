package usecase

import (
	"fmt"
	"time"

	"itcommunity/domain"
)

// applyStatus sets the status and stamps the timestamp that belongs to it.
func applyStatus(app *domain.JobApplication, status domain.ApplicationStatus, now time.Time) {
	app.Status = status
	switch status {
	case domain.ApplicationReviewing:
		app.ReviewedAt = &now
	case domain.ApplicationShortlisted:
		app.ShortlistedAt = &now
	case domain.ApplicationInterviewed:
		app.InterviewedAt = &now
	case domain.ApplicationOffered:
		app.OfferedAt = &now
	case domain.ApplicationAccepted, domain.ApplicationRejected, domain.ApplicationWithdrawn:
		app.RespondedAt = &now
	}
}

// statusNotification builds the applicant-facing message for a status change.
func statusNotification(status domain.ApplicationStatus, jobTitle string) *domain.Notification {
	n := &domain.Notification{Type: domain.NotificationApplicationStatus}

	switch status {
	case domain.ApplicationReviewing:
		n.Title = "Application Under Review"
		n.Message = fmt.Sprintf("Your application for %s is being reviewed", jobTitle)
		n.Priority = domain.PriorityMedium
	case domain.ApplicationShortlisted:
		n.Title = "You've Been Shortlisted!"
		n.Message = fmt.Sprintf("Great news! You've been shortlisted for %s", jobTitle)
		n.Priority = domain.PriorityHigh
	case domain.ApplicationInterviewed:
		n.Title = "Interview Completed"
		n.Message = fmt.Sprintf("Your interview for %s has been recorded", jobTitle)
		n.Priority = domain.PriorityHigh
	case domain.ApplicationOffered:
		n.Title = "Job Offer Received!"
		n.Message = fmt.Sprintf("Congratulations! You've received an offer for %s", jobTitle)
		n.Priority = domain.PriorityHigh
	case domain.ApplicationAccepted:
		n.Title = "Application Accepted"
		n.Message = fmt.Sprintf("Your application for %s has been accepted", jobTitle)
		n.Priority = domain.PriorityHigh
	case domain.ApplicationRejected:
		n.Title = "Application Update"
		n.Message = fmt.Sprintf("Thank you for applying to %s. The company has decided not to move forward", jobTitle)
		n.Priority = domain.PriorityMedium
	case domain.ApplicationWithdrawn:
		n.Title = "Application Withdrawn"
		n.Message = fmt.Sprintf("Your application for %s has been withdrawn", jobTitle)
		n.Priority = domain.PriorityLow
	default:
		n.Title = "Application Status Updated"
		n.Message = fmt.Sprintf("Your application for %s is now %s", jobTitle, status)
		n.Priority = domain.PriorityMedium
	}
	return n
}
