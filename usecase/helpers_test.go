package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"itcommunity/config"
	"itcommunity/domain"
	"itcommunity/infrastructure"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestDB opens a private in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	cfg.Database.AutoMigrate = true

	db, err := infrastructure.NewDatabase(cfg, quietLogger())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// recordingNotifier keeps every notification it is handed.
type recordingNotifier struct {
	mu    sync.Mutex
	sent  []domain.Notification
	fails map[uint]bool
}

func (n *recordingNotifier) Notify(_ context.Context, note *domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fails[note.UserID] {
		return errors.New("mailbox unavailable")
	}
	n.sent = append(n.sent, *note)
	return nil
}

func (n *recordingNotifier) to(userID uint) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Notification
	for _, note := range n.sent {
		if note.UserID == userID {
			out = append(out, note)
		}
	}
	return out
}

func newJobService(t *testing.T) (*JobService, *gorm.DB, *recordingNotifier) {
	t.Helper()
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewJobService(db, notifier, quietLogger())
	svc.now = func() time.Time { return testNow }
	return svc, db, notifier
}

func createUser(t *testing.T, db *gorm.DB, name string, role domain.Role, skills ...string) domain.User {
	t.Helper()
	u := domain.User{
		Name:   name,
		Email:  uuid.NewString() + "@example.com",
		Role:   role,
		Skills: skills,
	}
	if role == domain.RoleCompany {
		u.CompanyName = name + " Inc"
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func jobInput(title string) JobInput {
	return JobInput{
		Title:           title,
		Description:     "Build and run services",
		Location:        "Jakarta",
		Type:            domain.JobTypeFullTime,
		RequiredSkills:  []string{"Go", "SQL"},
		PreferredSkills: []string{"Docker"},
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }
