package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itcommunity/domain"
)

func TestApplyForJobScoresAndNotifies(t *testing.T) {
	svc, db, notifier := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent, "React")

	in := jobInput("Frontend Engineer")
	in.RequiredSkills = []string{"react", "node"}
	in.PreferredSkills = []string{"docker"}
	job, err := svc.CreateJob(ctx, owner.ID, in)
	require.NoError(t, err)

	app, err := svc.ApplyForJob(ctx, job.ID, student.ID, ApplyInput{CoverLetter: "Hello"})
	require.NoError(t, err)
	require.NotNil(t, app.SkillsMatchScore)
	assert.Equal(t, 35, *app.SkillsMatchScore)
	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, testNow, app.AppliedAt)

	mine := notifier.to(student.ID)
	require.Len(t, mine, 1)
	assert.Equal(t, "Application Submitted", mine[0].Title)
	assert.Equal(t, domain.PriorityMedium, mine[0].Priority)

	theirs := notifier.to(owner.ID)
	require.Len(t, theirs, 1)
	assert.Equal(t, "New Application Received", theirs[0].Title)
	assert.Equal(t, domain.PriorityHigh, theirs[0].Priority)
	assert.Contains(t, theirs[0].Message, "(35% skills match)")

	var activity domain.Activity
	require.NoError(t, db.Where("user_id = ? AND type = ?", student.ID, domain.ActivityJobApplied).First(&activity).Error)
	assert.Equal(t, job.ID, activity.ItemID)
}

func TestApplyTwiceConflicts(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent, "go")
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)

	_, err = svc.ApplyForJob(ctx, job.ID, student.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = svc.ApplyForJob(ctx, job.ID, student.ID, ApplyInput{})
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	var count int64
	require.NoError(t, db.Model(&domain.JobApplication{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApplyRejectsClosedOrExpiredJobs(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent, "go")

	expiredIn := jobInput("Expired")
	past := testNow.Add(-24 * time.Hour)
	expiredIn.ApplicationDeadline = &past
	expired, err := svc.CreateJob(ctx, owner.ID, expiredIn)
	require.NoError(t, err)

	_, err = svc.ApplyForJob(ctx, expired.ID, student.ID, ApplyInput{})
	require.True(t, domain.IsKind(err, domain.KindBadRequest))
	assert.Contains(t, err.Error(), "deadline")

	closedIn := jobInput("Closed")
	closedIn.Status = domain.JobStatusClosed
	closed, err := svc.CreateJob(ctx, owner.ID, closedIn)
	require.NoError(t, err)

	_, err = svc.ApplyForJob(ctx, closed.ID, student.ID, ApplyInput{})
	var appErr *domain.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, domain.KindBadRequest, appErr.Kind)
	assert.Equal(t, "this job is not accepting applications", appErr.Message)

	_, err = svc.ApplyForJob(ctx, 9999, student.ID, ApplyInput{})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	var count int64
	require.NoError(t, db.Model(&domain.JobApplication{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateApplicationStatus(t *testing.T) {
	svc, db, notifier := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	other := createUser(t, db, "Globex", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent, "go")
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)
	app, err := svc.ApplyForJob(ctx, job.ID, student.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.UpdateApplicationStatus(ctx, app.ID, other.ID, StatusUpdate{Status: domain.ApplicationRejected})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	_, err = svc.UpdateApplicationStatus(ctx, app.ID, owner.ID, StatusUpdate{Status: "HIRED"})
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))

	updated, err := svc.UpdateApplicationStatus(ctx, app.ID, owner.ID, StatusUpdate{
		Status:         domain.ApplicationShortlisted,
		RecruiterNotes: strPtr("strong Go background"),
		Rating:         intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationShortlisted, updated.Status)
	require.NotNil(t, updated.ShortlistedAt)
	assert.Equal(t, testNow, *updated.ShortlistedAt)
	assert.Equal(t, "strong Go background", updated.RecruiterNotes)

	// any status may follow any other
	back, err := svc.UpdateApplicationStatus(ctx, app.ID, owner.ID, StatusUpdate{Status: domain.ApplicationPending})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, back.Status)
	assert.Equal(t, "strong Go background", back.RecruiterNotes)
	assert.Equal(t, intPtr(4), back.Rating)

	notes := notifier.to(student.ID)
	require.Len(t, notes, 3)
	assert.Equal(t, domain.NotificationApplicationStatus, notes[1].Type)
	assert.Equal(t, domain.PriorityHigh, notes[1].Priority)
}

func TestBulkUpdateApplicationsCollectsErrors(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)

	var ids []uint
	for _, name := range []string{"Ann", "Ben", "Cid"} {
		u := createUser(t, db, name, domain.RoleStudent, "go")
		app, err := svc.ApplyForJob(ctx, job.ID, u.ID, ApplyInput{})
		require.NoError(t, err)
		ids = append(ids, app.ID)
	}
	ids = append(ids, 9999)

	result, err := svc.BulkUpdateApplications(ctx, owner.ID, ids, StatusUpdate{Status: domain.ApplicationReviewing})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, uint(9999), result.Errors[0].ApplicationID)

	var reviewing int64
	db.Model(&domain.JobApplication{}).Where("status = ?", domain.ApplicationReviewing).Count(&reviewing)
	assert.Equal(t, int64(3), reviewing)

	_, err = svc.BulkUpdateApplications(ctx, owner.ID, ids, StatusUpdate{Status: "NOPE"})
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))
}

func TestWithdrawApplication(t *testing.T) {
	svc, db, notifier := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent, "go")
	intruder := createUser(t, db, "Eve", domain.RoleStudent)
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)
	app, err := svc.ApplyForJob(ctx, job.ID, student.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.WithdrawApplication(ctx, app.ID, intruder.ID)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	withdrawn, err := svc.WithdrawApplication(ctx, app.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationWithdrawn, withdrawn.Status)
	assert.NotNil(t, withdrawn.RespondedAt)

	_, err = svc.WithdrawApplication(ctx, app.ID, student.ID)
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))

	ownerNotes := notifier.to(owner.ID)
	assert.Equal(t, "Application Withdrawn", ownerNotes[len(ownerNotes)-1].Title)
}

func TestListApplications(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)

	weak := createUser(t, db, "Weak", domain.RoleStudent, "cobol")
	strong := createUser(t, db, "Strong", domain.RoleStudent, "go", "sql", "docker")
	_, err = svc.ApplyForJob(ctx, job.ID, weak.ID, ApplyInput{})
	require.NoError(t, err)
	strongApp, err := svc.ApplyForJob(ctx, job.ID, strong.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = svc.UpdateApplicationStatus(ctx, strongApp.ID, owner.ID, StatusUpdate{Status: domain.ApplicationShortlisted})
	require.NoError(t, err)

	all, err := svc.ListJobApplications(ctx, job.ID, owner.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, strong.ID, all[0].ApplicantID)
	assert.Equal(t, "Strong", all[0].Applicant.Name)

	shortlisted, err := svc.ListJobApplications(ctx, job.ID, owner.ID, domain.ApplicationShortlisted)
	require.NoError(t, err)
	require.Len(t, shortlisted, 1)

	_, err = svc.ListJobApplications(ctx, job.ID, weak.ID, "")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	mine, err := svc.ListMyApplications(ctx, strong.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Job)
	assert.Equal(t, "Acme", mine[0].Job.Company.Name)
}

func TestGetJobAnalytics(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)

	full := createUser(t, db, "Full", domain.RoleStudent, "go", "sql", "docker")
	half := createUser(t, db, "Half", domain.RoleStudent, "go")
	svc.now = func() time.Time { return testNow.AddDate(0, 0, -2) }
	_, err = svc.ApplyForJob(ctx, job.ID, full.ID, ApplyInput{})
	require.NoError(t, err)
	svc.now = func() time.Time { return testNow }
	_, err = svc.ApplyForJob(ctx, job.ID, half.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.BookmarkJob(ctx, job.ID, half.ID)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err = svc.GetJob(ctx, job.ID, 0)
		require.NoError(t, err)
	}

	stats, err := svc.GetJobAnalytics(ctx, job.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalApplications)
	assert.Equal(t, int64(1), stats.TotalBookmarks)
	assert.Equal(t, 4, stats.Views)
	assert.Equal(t, int64(2), stats.StatusBreakdown[domain.ApplicationPending])
	// (100 + 35) / 2
	assert.Equal(t, 67.5, stats.AverageMatchScore)
	assert.Equal(t, 50.0, stats.ConversionRate)

	require.Len(t, stats.DailyApplications, histogramDays)
	assert.Equal(t, "2024-06-15", stats.DailyApplications[histogramDays-1].Date)
	assert.Equal(t, 1, stats.DailyApplications[histogramDays-1].Count)
	assert.Equal(t, 1, stats.DailyApplications[histogramDays-3].Count)

	_, err = svc.GetJobAnalytics(ctx, job.ID, full.ID)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}
