package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"itcommunity/domain"
	"itcommunity/infrastructure"
)

const (
	excerptLength = 500
	// Fits a TEXT column on every supported driver.
	maxStoredText = 60000
)

// ResumeUpload is what the caller gets back after a resume is stored.
type ResumeUpload struct {
	ID             uint     `json:"id"`
	URL            string   `json:"url"`
	FileName       string   `json:"file_name"`
	MimeType       string   `json:"mime_type"`
	Size           int64    `json:"size"`
	Excerpt        string   `json:"excerpt"`
	DetectedSkills []string `json:"detected_skills"`
}

type UploadService struct {
	db    *gorm.DB
	store *infrastructure.ResumeStore
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewUploadService(db *gorm.DB, store *infrastructure.ResumeStore, log logrus.FieldLogger) *UploadService {
	return &UploadService{
		db:    db,
		store: store,
		log:   log.WithField("component", "uploads"),
		now:   time.Now,
	}
}

// UploadResume stores the file, extracts its text and reports which of the
// user's listed skills appear in it. Extraction failures leave the text empty.
func (s *UploadService) UploadResume(ctx context.Context, userID uint, header *multipart.FileHeader) (*ResumeUpload, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("user %d not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	stored, err := s.store.Save(ctx, userID, header, s.now())
	if err != nil {
		return nil, err
	}

	text, err := infrastructure.ExtractText(stored.Data, stored.MimeType)
	if err != nil {
		s.log.WithError(err).WithField("file", stored.Name).Warn("Resume text extraction failed")
		text = ""
	}
	text = strings.TrimSpace(text)

	upload := domain.Upload{
		UserID:        userID,
		FileName:      stored.Name,
		StoredPath:    stored.Key,
		MimeType:      stored.MimeType,
		Size:          stored.Size,
		ExtractedText: truncateBytes(text, maxStoredText),
	}
	if err := s.db.WithContext(ctx).Create(&upload).Error; err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "file": stored.Name, "size": stored.Size}).Info("Resume uploaded")

	return &ResumeUpload{
		ID:             upload.ID,
		URL:            stored.URL,
		FileName:       stored.Name,
		MimeType:       stored.MimeType,
		Size:           stored.Size,
		Excerpt:        excerpt(text, excerptLength),
		DetectedSkills: skillsInText(user.Skills, text),
	}, nil
}

func excerpt(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}

// truncateBytes cuts text to at most n bytes without splitting a rune.
func truncateBytes(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
