package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/remote"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidName        = "INVALID_NAME"
	CodeInvalidScore       = "INVALID_SCORE"
	CodeInvalidProgress    = "INVALID_PROGRESS"
	CodeUnknownLeaderboard = "UNKNOWN_LEADERBOARD"
	CodeUnknownAchievement = "UNKNOWN_ACHIEVEMENT"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeProfileInUse       = "PROFILE_IN_USE"
	CodeNameInUse          = "NAME_IN_USE"
	CodeNotConnected       = "NOT_CONNECTED"
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
	CodeLaunchCancelled    = "LAUNCH_CANCELLED"
	CodeRemoteUnavailable  = "REMOTE_UNAVAILABLE"
	CodeRemoteRejected     = "REMOTE_REJECTED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Validation
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidName, "Profile name must not be empty"}}
	case errors.Is(err, model.ErrInvalidScore):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidScore, "Score must be a finite number"}}
	case errors.Is(err, model.ErrInvalidProgress):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidProgress, "Progress must be between 0 and 100"}}
	case errors.Is(err, model.ErrUnknownLeaderboard):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeUnknownLeaderboard, "Leaderboard is not registered"}}
	case errors.Is(err, model.ErrUnknownAchievement):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeUnknownAchievement, "Achievement is not registered"}}

	// Lookup and conflicts
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "Profile not found"}}
	case errors.Is(err, model.ErrProfileInUse):
		return &httpError{http.StatusConflict, APIError{CodeProfileInUse, "Profile is active or authenticated"}}
	case errors.Is(err, model.ErrNameInUse):
		return &httpError{http.StatusConflict, APIError{CodeNameInUse, "Another profile already has that name"}}
	case errors.Is(err, model.ErrNotConnected):
		return &httpError{http.StatusConflict, APIError{CodeNotConnected, "Profile has no live remote session"}}
	case errors.Is(err, model.ErrNotAuthenticated):
		return &httpError{http.StatusConflict, APIError{CodeNotAuthenticated, "No authenticated profile"}}
	case errors.Is(err, model.ErrLaunchCancelled):
		return &httpError{http.StatusConflict, APIError{CodeLaunchCancelled, "Launch cancelled by shutdown"}}

	// Remote service
	case errors.Is(err, remote.ErrUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeRemoteUnavailable, "Remote service unavailable"}}
	case errors.Is(err, remote.ErrNotAuthenticated):
		return &httpError{http.StatusBadGateway, APIError{CodeRemoteRejected, "Remote service rejected credentials"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// PanicHandler answers a request whose handler panicked with a JSON internal error
func PanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	WriteError(w, NewInternalError())
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
