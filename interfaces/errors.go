package interfaces

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"itcommunity/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func abortWithError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     kind,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
		Timestamp: time.Now(),
	})
}

// respondError renders business errors with their own status; anything else
// is logged and hidden behind a 500.
func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		abortWithError(c, appErr.Code, string(appErr.Kind), appErr.Message)
		return
	}

	h.log.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"path":       c.Request.URL.Path,
	}).Error("Unhandled error")
	abortWithError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
}

func badRequest(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, string(domain.KindBadRequest), err.Error())
}
