package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/hupe1980/clusterviz"
	"github.com/hupe1980/clusterviz/internal/resource"
	"github.com/hupe1980/clusterviz/internal/session"
)

// MsgDatasetNotFound is the error body for requests without a stored dataset.
const MsgDatasetNotFound = "Dataset not found. Please generate data first."

// errBadRequest marks malformed request parameters.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to an HTTP status and a client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, MsgDatasetNotFound
	case errors.Is(err, resource.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, resource.ErrBusy),
		errors.Is(err, resource.ErrMemoryLimitExceeded),
		errors.Is(err, session.ErrTooLarge):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrInvalidID),
		clusterviz.IsRequestError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
