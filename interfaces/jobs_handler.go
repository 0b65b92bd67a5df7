package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itcommunity/domain"
	"itcommunity/usecase"
)

func (h *HTTPHandler) ListJobs(c *gin.Context) {
	var filter usecase.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	filter.Skills = splitList(filter.Skills)

	jobs, err := h.services.Jobs.ListJobs(c.Request.Context(), filter, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": len(jobs)})
}

func (h *HTTPHandler) GetJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, err := h.services.Jobs.GetJob(c.Request.Context(), id, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *HTTPHandler) CreateJob(c *gin.Context) {
	var in usecase.JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.services.Jobs.CreateJob(c.Request.Context(), userID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *HTTPHandler) UpdateJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in usecase.JobUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.services.Jobs.UpdateJob(c.Request.Context(), id, userID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *HTTPHandler) DeleteJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Jobs.DeleteJob(c.Request.Context(), id, userID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) ApplyForJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in usecase.ApplyInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
	}
	app, err := h.services.Jobs.ApplyForJob(c.Request.Context(), id, userID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *HTTPHandler) ListJobApplications(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	status := domain.ApplicationStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		abortWithError(c, http.StatusBadRequest, string(domain.KindBadRequest), "unknown status "+string(status))
		return
	}
	apps, err := h.services.Jobs.ListJobApplications(c.Request.Context(), id, userID(c), status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

func (h *HTTPHandler) JobAnalytics(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	stats, err := h.services.Jobs.GetJobAnalytics(c.Request.Context(), id, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *HTTPHandler) BookmarkJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	bookmark, err := h.services.Jobs.BookmarkJob(c.Request.Context(), id, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookmark)
}

func (h *HTTPHandler) UnbookmarkJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Jobs.UnbookmarkJob(c.Request.Context(), id, userID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) UpdateApplicationStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in usecase.StatusUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.services.Jobs.UpdateApplicationStatus(c.Request.Context(), id, userID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

type bulkStatusRequest struct {
	ApplicationIDs []uint `json:"application_ids" binding:"required,min=1,max=200"`
	usecase.StatusUpdate
}

func (h *HTTPHandler) BulkUpdateApplications(c *gin.Context) {
	var in bulkStatusRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.services.Jobs.BulkUpdateApplications(c.Request.Context(), userID(c), in.ApplicationIDs, in.StatusUpdate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HTTPHandler) WithdrawApplication(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	app, err := h.services.Jobs.WithdrawApplication(c.Request.Context(), id, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *HTTPHandler) ListCompanyJobs(c *gin.Context) {
	jobs, err := h.services.Jobs.ListCompanyJobs(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": len(jobs)})
}

func (h *HTTPHandler) ListMyApplications(c *gin.Context) {
	apps, err := h.services.Jobs.ListMyApplications(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

func (h *HTTPHandler) ListBookmarks(c *gin.Context) {
	items, err := h.services.Jobs.ListBookmarks(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": items, "total": len(items)})
}
