package usecase

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"itcommunity/domain"
)

func (s *JobService) BookmarkJob(ctx context.Context, jobID, userID uint) (*domain.JobBookmark, error) {
	if _, err := s.findJob(ctx, jobID); err != nil {
		return nil, err
	}

	var existing int64
	err := s.db.WithContext(ctx).
		Model(&domain.JobBookmark{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check bookmark: %w", err)
	}
	if existing > 0 {
		return nil, domain.NewConflictError("job %d is already bookmarked", jobID)
	}

	bookmark := domain.JobBookmark{JobID: jobID, UserID: userID}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&bookmark).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, domain.NewConflictError("job %d is already bookmarked", jobID)
		}
		return nil, fmt.Errorf("failed to bookmark job: %w", err)
	}
	return &bookmark, nil
}

func (s *JobService) UnbookmarkJob(ctx context.Context, jobID, userID uint) error {
	var bookmark domain.JobBookmark
	err := s.db.WithContext(ctx).Where("job_id = ? AND user_id = ?", jobID, userID).First(&bookmark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError("bookmark for job %d not found", jobID)
	}
	if err != nil {
		return fmt.Errorf("failed to load bookmark: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&bookmark).Error; err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

// ListBookmarks returns the user's saved jobs, most recently saved first.
func (s *JobService) ListBookmarks(ctx context.Context, userID uint) ([]domain.JobBookmark, error) {
	var items []domain.JobBookmark
	err := s.db.WithContext(ctx).
		Preload("Job.Company").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return items, nil
}
