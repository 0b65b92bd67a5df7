package usecase

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"itcommunity/domain"
)

const histogramDays = 30

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type JobAnalytics struct {
	JobID             uint                               `json:"job_id"`
	Title             string                             `json:"title"`
	TotalApplications int64                              `json:"total_applications"`
	TotalBookmarks    int64                              `json:"total_bookmarks"`
	Views             int                                `json:"views"`
	StatusBreakdown   map[domain.ApplicationStatus]int64 `json:"status_breakdown"`
	AverageMatchScore float64                            `json:"average_match_score"`
	DailyApplications []DailyCount                       `json:"daily_applications"`
	ConversionRate    float64                            `json:"conversion_rate"`
}

// GetJobAnalytics summarises a job's applications for its owner.
func (s *JobService) GetJobAnalytics(ctx context.Context, jobID, companyID uint) (*JobAnalytics, error) {
	job, err := s.findOwnedJob(ctx, jobID, companyID)
	if err != nil {
		return nil, err
	}

	byJob := func(db *gorm.DB) *gorm.DB { return db.Where("job_id = ?", jobID) }

	statuses, err := groupCount(ctx, s.db, &domain.JobApplication{}, "status", byJob)
	if err != nil {
		return nil, fmt.Errorf("failed to count application statuses: %w", err)
	}

	var bookmarks int64
	if err := s.db.WithContext(ctx).Model(&domain.JobBookmark{}).Scopes(byJob).Count(&bookmarks).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookmarks: %w", err)
	}

	var avg struct{ Score *float64 }
	err = s.db.WithContext(ctx).
		Model(&domain.JobApplication{}).
		Scopes(byJob).
		Select("AVG(skills_match_score) AS score").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average match scores: %w", err)
	}

	now := s.now()
	start := startOfDay(now).AddDate(0, 0, -(histogramDays - 1))
	var appliedAt []time.Time
	err = s.db.WithContext(ctx).
		Model(&domain.JobApplication{}).
		Scopes(byJob).
		Where("applied_at >= ?", start).
		Pluck("applied_at", &appliedAt).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load application dates: %w", err)
	}

	out := &JobAnalytics{
		JobID:             job.ID,
		Title:             job.Title,
		TotalApplications: sum(statuses),
		TotalBookmarks:    bookmarks,
		Views:             job.Views,
		StatusBreakdown:   make(map[domain.ApplicationStatus]int64, len(statuses)),
		DailyApplications: dailyHistogram(appliedAt, start, histogramDays),
	}
	for status, n := range statuses {
		out.StatusBreakdown[domain.ApplicationStatus(status)] = n
	}
	if avg.Score != nil {
		out.AverageMatchScore = round(*avg.Score, 1)
	}
	if job.Views > 0 {
		out.ConversionRate = round(float64(out.TotalApplications)/float64(job.Views)*100, 2)
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dailyHistogram buckets times into days consecutive days beginning at start.
func dailyHistogram(times []time.Time, start time.Time, days int) []DailyCount {
	buckets := make([]DailyCount, days)
	index := make(map[string]int, days)
	for i := range buckets {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		buckets[i].Date = date
		index[date] = i
	}
	for _, t := range times {
		if i, ok := index[t.In(start.Location()).Format("2006-01-02")]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}
