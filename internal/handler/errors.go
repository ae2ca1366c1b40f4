package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
)

// errorEnvelope is the JSON error contract shared by both services. The
// error field distinguishes mapped failures ("HTTP Error") from anything
// unanticipated ("Internal Server Error").
type errorEnvelope struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

// writeError maps a typed error onto the envelope. Errors that are not part
// of the taxonomy fall through to the generic 500 so no internal detail
// leaks to clients.
func writeError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		writeInternalError(c)
		return
	}

	c.AbortWithStatusJSON(appErr.Status, errorEnvelope{
		Error:      "HTTP Error",
		Detail:     appErr.Detail,
		StatusCode: appErr.Status,
	})
}

// writeInternalError sends the fixed 500 envelope used for panics and
// unclassified errors.
func writeInternalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorEnvelope{
		Error:      "Internal Server Error",
		Detail:     "An unexpected error occurred",
		StatusCode: http.StatusInternalServerError,
	})
}
