package interfaces

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"itcommunity/domain"
	"itcommunity/usecase"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups everything the handlers call into.
type Services struct {
	Jobs          *usecase.JobService
	Admin         *usecase.AdminService
	Content       *usecase.ContentService
	Notifications *usecase.NotificationService
	Uploads       *usecase.UploadService
	Activities    *usecase.ActivityLog
}

type HTTPHandler struct {
	services Services
	db       *gorm.DB
	probes   map[string]Pinger
	log      logrus.FieldLogger
}

// NewHTTPHandler mounts every route on router. probes are the optional
// dependencies reported by /health, keyed by name.
func NewHTTPHandler(router *gin.Engine, services Services, tokens TokenParser, db *gorm.DB, probes map[string]Pinger, log logrus.FieldLogger) {
	h := &HTTPHandler{services: services, db: db, probes: probes, log: log}

	auth := Authenticate(tokens)
	applicants := RequireRoles(domain.RoleStudent, domain.RoleProfessional)
	companies := RequireRoles(domain.RoleCompany)

	router.GET("/health", h.Health)

	api := router.Group("/api")

	api.GET("/jobs", OptionalAuth(tokens), h.ListJobs)
	api.GET("/jobs/:id", OptionalAuth(tokens), h.GetJob)
	api.POST("/jobs", auth, companies, h.CreateJob)
	api.PATCH("/jobs/:id", auth, companies, h.UpdateJob)
	api.DELETE("/jobs/:id", auth, companies, h.DeleteJob)
	api.POST("/jobs/:id/apply", auth, applicants, h.ApplyForJob)
	api.GET("/jobs/:id/applications", auth, companies, h.ListJobApplications)
	api.GET("/jobs/:id/analytics", auth, companies, h.JobAnalytics)
	api.POST("/jobs/:id/bookmark", auth, h.BookmarkJob)
	api.DELETE("/jobs/:id/bookmark", auth, h.UnbookmarkJob)

	api.PATCH("/applications/:id/status", auth, companies, h.UpdateApplicationStatus)
	api.PATCH("/applications/bulk", auth, companies, h.BulkUpdateApplications)
	api.POST("/applications/:id/withdraw", auth, applicants, h.WithdrawApplication)

	api.GET("/companies/me/jobs", auth, companies, h.ListCompanyJobs)
	api.GET("/me/applications", auth, applicants, h.ListMyApplications)
	api.GET("/me/bookmarks", auth, h.ListBookmarks)
	api.GET("/me/activities", auth, h.ListActivities)

	api.GET("/notifications", auth, h.ListNotifications)
	api.PATCH("/notifications/:id/read", auth, h.MarkNotificationRead)

	api.POST("/uploads/resume", auth, applicants, h.UploadResume)

	api.GET("/projects", h.ListProjects)
	api.GET("/projects/:id", OptionalAuth(tokens), h.GetProject)
	api.POST("/projects", auth, applicants, h.SubmitProject)

	api.GET("/events", h.ListEvents)
	api.GET("/events/:id", h.GetEvent)
	api.POST("/events", auth, RequireRoles(domain.RoleProfessional, domain.RoleCompany), h.CreateEvent)
	api.POST("/events/:id/register", auth, h.RegisterForEvent)

	admin := api.Group("/admin", auth, RequireRoles(domain.RoleAdmin))
	admin.GET("/users", h.AdminListUsers)
	admin.GET("/projects", h.AdminListProjects)
	admin.GET("/jobs", h.AdminListJobs)
	admin.GET("/events", h.AdminListEvents)
	admin.POST("/projects/:id/approve", h.ApproveProject)
	admin.POST("/projects/:id/reject", h.RejectProject)
	admin.POST("/bulk/approve", h.BulkApprove)
	admin.POST("/bulk/delete", h.BulkDelete)
	admin.GET("/metrics", h.Metrics)
}

// Health reports whether the database and every configured probe answer.
func (h *HTTPHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	for name, probe := range h.probes {
		checks[name] = "ok"
		if err := probe.Ping(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
		}
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "checks": checks, "timestamp": time.Now()})
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, http.StatusBadRequest, string(domain.KindBadRequest), "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// splitList accepts both repeated keys and comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
