package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itcommunity/domain"
)

func TestCreateJobDefaultsAndAdminNotice(t *testing.T) {
	svc, db, notifier := newJobService(t)
	ctx := context.Background()
	company := createUser(t, db, "Acme", domain.RoleCompany)
	admin := createUser(t, db, "Root", domain.RoleAdmin)

	in := jobInput("Backend Engineer")
	in.Salary = "50k - 80k"
	job, err := svc.CreateJob(ctx, company.ID, in)
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusPublished, job.Status)
	assert.Equal(t, "USD", job.SalaryCurrency)
	assert.Equal(t, "YEARLY", job.SalaryPeriod)
	assert.Equal(t, intPtr(50000), job.SalaryMin)
	assert.Equal(t, intPtr(80000), job.SalaryMax)
	assert.Equal(t, testNow, job.PostedAt.UTC())

	notes := notifier.to(admin.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationJobPosted, notes[0].Type)
	assert.Equal(t, domain.PriorityLow, notes[0].Priority)
	assert.Contains(t, notes[0].Message, "Acme Inc")

	var activities []domain.Activity
	require.NoError(t, db.Where("user_id = ?", company.ID).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActivityJobPosted, activities[0].Type)
	assert.Equal(t, job.ID, activities[0].ItemID)
}

func TestCreateJobSurvivesNotificationFailures(t *testing.T) {
	svc, db, notifier := newJobService(t)
	company := createUser(t, db, "Acme", domain.RoleCompany)
	broken := createUser(t, db, "Broken", domain.RoleAdmin)
	working := createUser(t, db, "Working", domain.RoleAdmin)
	notifier.fails = map[uint]bool{broken.ID: true}

	job, err := svc.CreateJob(context.Background(), company.ID, jobInput("SRE"))
	require.NoError(t, err)
	assert.NotZero(t, job.ID)

	assert.Empty(t, notifier.to(broken.ID))
	assert.Len(t, notifier.to(working.ID), 1)
}

func TestNotifyEachReportsEveryRecipient(t *testing.T) {
	notifier := &recordingNotifier{fails: map[uint]bool{2: true}}
	outcomes := NotifyEach(context.Background(), notifier, quietLogger(), []uint{1, 2, 3}, func(id uint) *domain.Notification {
		return &domain.Notification{UserID: id, Title: "hi"}
	})

	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err)
	assert.Equal(t, uint(2), outcomes[1].RecipientID)
	assert.NoError(t, outcomes[2].Err)
	assert.Len(t, notifier.sent, 2)
}

func TestCreateJobRejectsInvertedSalary(t *testing.T) {
	svc, db, _ := newJobService(t)
	company := createUser(t, db, "Acme", domain.RoleCompany)

	in := jobInput("Backend Engineer")
	in.SalaryMin = intPtr(9000)
	in.SalaryMax = intPtr(1000)
	_, err := svc.CreateJob(context.Background(), company.ID, in)
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))
}

func TestUpdateJobByNonOwnerIsForbidden(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	other := createUser(t, db, "Globex", domain.RoleCompany)
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)

	_, err = svc.UpdateJob(ctx, job.ID, other.ID, JobUpdate{Title: strPtr("Hijacked")})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	var stored domain.Job
	require.NoError(t, db.First(&stored, job.ID).Error)
	assert.Equal(t, "Backend Engineer", stored.Title)

	updated, err := svc.UpdateJob(ctx, job.ID, owner.ID, JobUpdate{
		Title:  strPtr("Senior Backend Engineer"),
		Salary: strPtr("90k-120k"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", updated.Title)
	assert.Equal(t, intPtr(90000), updated.SalaryMin)
	assert.Equal(t, []string{"Go", "SQL"}, updated.RequiredSkills)

	_, err = svc.UpdateJob(ctx, 9999, owner.ID, JobUpdate{})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestDeleteJobRemovesApplicationsAndBookmarks(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent, "go")
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)

	_, err = svc.ApplyForJob(ctx, job.ID, student.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = svc.BookmarkJob(ctx, job.ID, student.ID)
	require.NoError(t, err)

	assert.True(t, domain.IsKind(svc.DeleteJob(ctx, job.ID, student.ID), domain.KindForbidden))
	require.NoError(t, svc.DeleteJob(ctx, job.ID, owner.ID))

	var jobs, apps, marks int64
	db.Model(&domain.Job{}).Count(&jobs)
	db.Model(&domain.JobApplication{}).Count(&apps)
	db.Model(&domain.JobBookmark{}).Count(&marks)
	assert.Zero(t, jobs)
	assert.Zero(t, apps)
	assert.Zero(t, marks)
}

func TestListJobsFiltersAndOrdering(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	acme := createUser(t, db, "Acme", domain.RoleCompany)
	globex := createUser(t, db, "Globex", domain.RoleCompany)

	post := func(company uint, in JobInput, at time.Time) *domain.Job {
		svc.now = func() time.Time { return at }
		job, err := svc.CreateJob(ctx, company, in)
		require.NoError(t, err)
		return job
	}

	older := post(acme.ID, jobInput("Go Developer"), testNow.Add(-48*time.Hour))
	newer := post(acme.ID, jobInput("Platform Engineer"), testNow.Add(-time.Hour))

	featuredIn := jobInput("Data Engineer")
	featuredIn.IsFeatured = true
	featuredIn.IsRemote = true
	featuredIn.RequiredSkills = []string{"Python"}
	featuredIn.PreferredSkills = nil
	featured := post(globex.ID, featuredIn, testNow.Add(-72*time.Hour))

	draftIn := jobInput("Hidden Draft")
	draftIn.Status = domain.JobStatusDraft
	post(acme.ID, draftIn, testNow)

	all, err := svc.ListJobs(ctx, JobFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{featured.ID, newer.ID, older.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	remote, err := svc.ListJobs(ctx, JobFilter{Remote: boolPtr(true)}, 0)
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, featured.ID, remote[0].ID)

	bySkill, err := svc.ListJobs(ctx, JobFilter{Skills: []string{"python"}}, 0)
	require.NoError(t, err)
	require.Len(t, bySkill, 1)
	assert.Equal(t, featured.ID, bySkill[0].ID)

	byCompany, err := svc.ListJobs(ctx, JobFilter{Search: "globex"}, 0)
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, featured.ID, byCompany[0].ID)

	byTitle, err := svc.ListJobs(ctx, JobFilter{Search: "PLATFORM"}, 0)
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, newer.ID, byTitle[0].ID)
}

func TestListJobsAnnotatesViewer(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent, "go")
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)

	_, err = svc.ApplyForJob(ctx, job.ID, student.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = svc.BookmarkJob(ctx, job.ID, student.ID)
	require.NoError(t, err)

	listings, err := svc.ListJobs(ctx, JobFilter{}, student.ID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].IsBookmarked)
	require.NotNil(t, listings[0].MyApplication)
	assert.Equal(t, domain.ApplicationPending, listings[0].MyApplication.Status)
	assert.Equal(t, int64(1), listings[0].ApplicantCount)
	assert.Equal(t, int64(1), listings[0].BookmarkCount)

	anonymous, err := svc.ListJobs(ctx, JobFilter{}, 0)
	require.NoError(t, err)
	assert.False(t, anonymous[0].IsBookmarked)
	assert.Nil(t, anonymous[0].MyApplication)
}

func TestGetJobCountsViewsForNonOwners(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent, "go")
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)
	_, err = svc.ApplyForJob(ctx, job.ID, student.ID, ApplyInput{})
	require.NoError(t, err)

	seen, err := svc.GetJob(ctx, job.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, seen.Views)
	assert.Empty(t, seen.Applications)

	seen, err = svc.GetJob(ctx, job.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, seen.Views)

	mine, err := svc.GetJob(ctx, job.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Views)
	require.Len(t, mine.Applications, 1)
	assert.Equal(t, student.ID, mine.Applications[0].Applicant.ID)

	_, err = svc.GetJob(ctx, 4242, 0)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestBookmarks(t *testing.T) {
	svc, db, _ := newJobService(t)
	ctx := context.Background()
	owner := createUser(t, db, "Acme", domain.RoleCompany)
	student := createUser(t, db, "Sam", domain.RoleStudent)
	job, err := svc.CreateJob(ctx, owner.ID, jobInput("Backend Engineer"))
	require.NoError(t, err)

	_, err = svc.BookmarkJob(ctx, job.ID, student.ID)
	require.NoError(t, err)
	_, err = svc.BookmarkJob(ctx, job.ID, student.ID)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	saved, err := svc.ListBookmarks(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.NotNil(t, saved[0].Job)
	assert.Equal(t, "Acme", saved[0].Job.Company.Name)

	require.NoError(t, svc.UnbookmarkJob(ctx, job.ID, student.ID))
	assert.True(t, domain.IsKind(svc.UnbookmarkJob(ctx, job.ID, student.ID), domain.KindNotFound))

	_, err = svc.BookmarkJob(ctx, 777, student.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
