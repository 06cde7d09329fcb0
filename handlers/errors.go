package handlers

import (
	"errors"
	"net/http"

	"staybook/models"
)

// httpStatusFor maps the engine error taxonomy onto HTTP statuses.
func httpStatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, models.ErrAmountMismatch):
		return http.StatusBadRequest, "amount mismatch"
	case errors.Is(err, models.ErrSignatureMismatch):
		return http.StatusBadRequest, "payment signature rejected"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, models.ErrGateway):
		return http.StatusInternalServerError, "payment gateway failure"
	case errors.Is(err, models.ErrInternalInvariant):
		return http.StatusInternalServerError, "internal error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
