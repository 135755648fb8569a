package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/domain"
	"transitcrm/internal/http/middleware"
)

// ErrorResponse is the payload of every failing JSON endpoint.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to JSON responses. Upstream bodies
// are never echoed; only the upstream status goes into details.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsUpstream(err):
		respondError(c, http.StatusBadGateway, "upstream_error", "crm api request failed", gin.H{"upstream_status": domain.UpstreamStatus(err)})
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
