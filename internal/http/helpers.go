package http

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"healthlog/internal/core"
	"healthlog/internal/services"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

func atomicAdd(n *int64) {
	atomic.AddInt64(n, 1)
}

// errorStatus maps a service error to the status and message shown to the
// user. Storage failures never leak their cause.
func errorStatus(err error) (int, string) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve.Error()
	}
	var se *services.StorageError
	if errors.As(err, &se) {
		return http.StatusInternalServerError, "Could not access stored records"
	}
	return http.StatusInternalServerError, "Internal error"
}

// errorResponse builds the error response for err.
func errorResponse(err error) *HTMXResponseBuilder {
	status, msg := errorStatus(err)
	return ErrorResponse(status, msg)
}
