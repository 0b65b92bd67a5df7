package interfaces

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itcommunity/usecase"
)

func (h *HTTPHandler) ListNotifications(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.Query("unread"))
	items, err := h.services.Notifications.ListForUser(c.Request.Context(), userID(c), unread)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "total": len(items)})
}

func (h *HTTPHandler) MarkNotificationRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.services.Notifications.MarkRead(c.Request.Context(), userID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *HTTPHandler) ListActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.services.Activities.Recent(c.Request.Context(), userID(c), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": items})
}

// UploadResume expects the file in the "resume" form field.
func (h *HTTPHandler) UploadResume(c *gin.Context) {
	header, err := c.FormFile("resume")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "bad_request", "resume file is required")
		return
	}
	out, err := h.services.Uploads.UploadResume(c.Request.Context(), userID(c), header)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *HTTPHandler) ListProjects(c *gin.Context) {
	items, err := h.services.Content.ListProjects(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": items, "total": len(items)})
}

func (h *HTTPHandler) GetProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	project, err := h.services.Content.GetProject(c.Request.Context(), id, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *HTTPHandler) SubmitProject(c *gin.Context) {
	var in usecase.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	project, err := h.services.Content.SubmitProject(c.Request.Context(), userID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *HTTPHandler) ListEvents(c *gin.Context) {
	items, err := h.services.Content.ListEvents(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": items, "total": len(items)})
}

func (h *HTTPHandler) GetEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	event, err := h.services.Content.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *HTTPHandler) CreateEvent(c *gin.Context) {
	var in usecase.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	event, err := h.services.Content.CreateEvent(c.Request.Context(), userID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *HTTPHandler) RegisterForEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reg, err := h.services.Content.RegisterForEvent(c.Request.Context(), id, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}
