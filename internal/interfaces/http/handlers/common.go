// Package handlers implements the read API over the served cache snapshot.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/turtacn/gem-thermo/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON encodes data with go-json so API bodies match the cache
// documents byte for byte.
func writeJSON(c *gin.Context, status int, data interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Code:    string(errors.ErrCodeSerialization),
			Message: "failed to encode response",
		})
		return
	}
	c.Data(status, "application/json; charset=utf-8", b)
}

// writeAppError maps application errors to HTTP status codes.  Server-side
// failures are masked.
func writeAppError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		_ = c.Error(err)
		writeJSON(c, status, ErrorResponse{Code: string(errors.ErrCodeInternal), Message: "internal server error"})
		return
	}

	resp := ErrorResponse{Code: string(code), Message: err.Error()}
	var ae *errors.AppError
	if errors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	writeJSON(c, status, resp)
}

//Personal.AI order the ending
