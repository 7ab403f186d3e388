package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingCredential is returned when neither username nor email is supplied.
	ErrMissingCredential = errors.New("username or email is required")
	// ErrUserNotFound is returned when no user matches the supplied identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredential is returned when the password does not match.
	ErrInvalidCredential = errors.New("invalid login credentials")
	// ErrUnauthorized is returned when no token is presented at all.
	ErrUnauthorized = errors.New("unauthorized request")
	// ErrInvalidToken is returned for a bad signature, expired token, or unknown user.
	ErrInvalidToken = errors.New("invalid refresh token")
	// ErrTokenReused is returned when a presented refresh token no longer matches
	// the stored one, signaling replay of a rotated token.
	ErrTokenReused = errors.New("refresh token is expired or already used")
	// ErrUserExists is returned when registering a taken username or email.
	ErrUserExists = errors.New("user with email or username already exists")
	// ErrAvatarRequired is returned when registration lacks a usable avatar file.
	ErrAvatarRequired = errors.New("avatar file is required")
	// ErrInvalidUpload is returned for an unsupported media file.
	ErrInvalidUpload = errors.New("unsupported media file")
	// ErrMediaUnavailable is returned when the media host rejects or cannot
	// take an upload.
	ErrMediaUnavailable = errors.New("media host unavailable")
	// ErrSelfSubscription is returned when a user subscribes to their own channel.
	ErrSelfSubscription = errors.New("cannot subscribe to your own channel")
	// ErrVideoNotFound is returned when a video does not exist or is unpublished.
	ErrVideoNotFound = errors.New("video not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped store failures fall
// through to a generic 500 while keeping their cause intact for logging.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_CREDENTIAL")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredential):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrTokenReused):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_REUSED")
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrAvatarRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "AVATAR_REQUIRED")
	case errors.Is(err, ErrInvalidUpload):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_UPLOAD")
	case errors.Is(err, ErrMediaUnavailable):
		return NewHTTPError(http.StatusBadGateway, ErrMediaUnavailable.Error(), "MEDIA_UNAVAILABLE")
	case errors.Is(err, ErrSelfSubscription):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SELF_SUBSCRIPTION")
	case errors.Is(err, ErrVideoNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "VIDEO_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
