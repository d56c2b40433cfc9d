package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/models"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errorStatus = []struct {
	err    error
	status int
	kind   string
}{
	{models.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{models.ErrForbidden, http.StatusForbidden, "forbidden"},
	{models.ErrNotFound, http.StatusNotFound, "not_found"},
	{models.ErrInvalidID, http.StatusBadRequest, "invalid_id"},
	{models.ErrInvalidInput, http.StatusBadRequest, "bad_request"},
	{models.ErrAlreadyExists, http.StatusConflict, "conflict"},
	{models.ErrPaymentIncomplete, http.StatusBadRequest, "payment_incomplete"},
	{models.ErrStorageDisabled, http.StatusServiceUnavailable, "unavailable"},
}

// StatusFor maps a domain error onto an HTTP status and a short error kind.
func StatusFor(err error) (int, string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status, e.kind
		}
	}
	return http.StatusInternalServerError, "internal"
}

// RespondError aborts the request with the JSON error body for err.
// Unexpected errors are logged and hidden from the client.
func RespondError(c *gin.Context, err error) {
	status, kind := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		l := Logger(c)
		l.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   kind,
		Message: strings.TrimSpace(msg),
	})
}

// RespondStatus aborts with an explicit status, kind and message.
func RespondStatus(c *gin.Context, status int, kind, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: kind, Message: msg})
}
