package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itcommunity/domain"
	"itcommunity/usecase"
)

func (h *HTTPHandler) AdminListUsers(c *gin.Context) {
	var q usecase.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.services.Admin.ListUsers(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *HTTPHandler) AdminListProjects(c *gin.Context) {
	var q usecase.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.services.Admin.ListProjects(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *HTTPHandler) AdminListJobs(c *gin.Context) {
	var q usecase.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.services.Admin.ListJobs(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *HTTPHandler) AdminListEvents(c *gin.Context) {
	var q usecase.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.services.Admin.ListEvents(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type reviewRequest struct {
	Notes  string `json:"notes" binding:"max=5000"`
	Reason string `json:"reason" binding:"max=5000"`
}

func (h *HTTPHandler) ApproveProject(c *gin.Context) {
	h.reviewProject(c, true)
}

func (h *HTTPHandler) RejectProject(c *gin.Context) {
	h.reviewProject(c, false)
}

func (h *HTTPHandler) reviewProject(c *gin.Context, approve bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in reviewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
	}

	var (
		project *domain.Project
		err     error
	)
	if approve {
		project, err = h.services.Admin.ApproveProject(c.Request.Context(), userID(c), id, in.Notes)
	} else {
		project, err = h.services.Admin.RejectProject(c.Request.Context(), userID(c), id, in.Reason)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type bulkRequest struct {
	Type usecase.ContentType `json:"type" binding:"required,oneof=users projects jobs events"`
	IDs  []uint              `json:"ids" binding:"required,min=1,max=500"`
}

func (h *HTTPHandler) BulkApprove(c *gin.Context) {
	var in bulkRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.services.Admin.BulkApprove(c.Request.Context(), userID(c), in.Type, in.IDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": n})
}

func (h *HTTPHandler) BulkDelete(c *gin.Context) {
	var in bulkRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.services.Admin.BulkDelete(c.Request.Context(), in.Type, in.IDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *HTTPHandler) Metrics(c *gin.Context) {
	m, err := h.services.Admin.Metrics(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
