package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"itcommunity/domain"
)

const metricsCacheKey = "admin:dashboard:metrics"

type UserMetrics struct {
	Total         int64            `json:"total"`
	ByRole        map[string]int64 `json:"by_role"`
	NewLast7Days  int64            `json:"new_last_7_days"`
	NewLast30Days int64            `json:"new_last_30_days"`
}

type StatusMetrics struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

type EventMetrics struct {
	StatusMetrics
	Upcoming int64 `json:"upcoming"`
}

// DashboardMetrics holds measured counts only.
type DashboardMetrics struct {
	Users             UserMetrics   `json:"users"`
	Projects          StatusMetrics `json:"projects"`
	Jobs              StatusMetrics `json:"jobs"`
	Applications      StatusMetrics `json:"applications"`
	Events            EventMetrics  `json:"events"`
	FeaturedJobs      int64         `json:"featured_jobs"`
	AverageMatchScore float64       `json:"average_match_score"`
	GeneratedAt       time.Time     `json:"generated_at"`
}

// Metrics returns the dashboard, from cache when one is configured and warm.
func (s *AdminService) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	if s.cache != nil {
		var cached DashboardMetrics
		hit, err := s.cache.Get(ctx, metricsCacheKey, &cached)
		if err != nil {
			s.log.WithError(err).Warn("Metrics cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	m, err := s.computeMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, metricsCacheKey, m); err != nil {
			s.log.WithError(err).Warn("Metrics cache write failed")
		}
	}
	return m, nil
}

// computeMetrics runs the grouped counts concurrently.
func (s *AdminService) computeMetrics(ctx context.Context) (*DashboardMetrics, error) {
	now := s.now()
	m := &DashboardMetrics{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		m.Users.ByRole, err = groupCount(gctx, s.db, &domain.User{}, "role")
		return err
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.User{}).
			Where("created_at >= ?", now.AddDate(0, 0, -7)).
			Count(&m.Users.NewLast7Days).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.User{}).
			Where("created_at >= ?", now.AddDate(0, 0, -30)).
			Count(&m.Users.NewLast30Days).Error
	})
	g.Go(func() (err error) {
		m.Projects.ByStatus, err = groupCount(gctx, s.db, &domain.Project{}, "status")
		return err
	})
	g.Go(func() (err error) {
		m.Jobs.ByStatus, err = groupCount(gctx, s.db, &domain.Job{}, "status")
		return err
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.Job{}).Where("is_featured = ?", true).Count(&m.FeaturedJobs).Error
	})
	g.Go(func() (err error) {
		m.Applications.ByStatus, err = groupCount(gctx, s.db, &domain.JobApplication{}, "status")
		return err
	})
	g.Go(func() error {
		var avg struct{ Score *float64 }
		err := s.db.WithContext(gctx).Model(&domain.JobApplication{}).
			Select("AVG(skills_match_score) AS score").
			Scan(&avg).Error
		if err == nil && avg.Score != nil {
			m.AverageMatchScore = round(*avg.Score, 1)
		}
		return err
	})
	g.Go(func() (err error) {
		m.Events.ByStatus, err = groupCount(gctx, s.db, &domain.Event{}, "status")
		return err
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.Event{}).
			Where("starts_at > ? AND status <> ?", now, domain.EventCancelled).
			Count(&m.Events.Upcoming).Error
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute metrics: %w", err)
	}

	m.Users.Total = sum(m.Users.ByRole)
	m.Projects.Total = sum(m.Projects.ByStatus)
	m.Jobs.Total = sum(m.Jobs.ByStatus)
	m.Applications.Total = sum(m.Applications.ByStatus)
	m.Events.Total = sum(m.Events.ByStatus)
	return m, nil
}

func (s *AdminService) invalidateMetrics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, metricsCacheKey); err != nil {
		s.log.WithError(err).Warn("Metrics cache invalidation failed")
	}
}
