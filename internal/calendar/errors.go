package calendar

import "errors"

var (
	// ErrUnauthorized indicates the calendar rejected the credentials. It is
	// never folded into an empty event list.
	ErrUnauthorized = errors.New("calendar authorization required")

	// ErrUnavailable indicates the calendar server is unreachable.
	ErrUnavailable = errors.New("calendar server unavailable")

	// ErrTimeout indicates the calendar request exceeded the configured timeout.
	ErrTimeout = errors.New("calendar request timed out")

	// ErrNoToken indicates no access token is stored.
	ErrNoToken = errors.New("no calendar token stored")
)

// UnauthorizedError carries the authorization URL the user must visit to
// grant access again. It matches ErrUnauthorized under errors.Is.
type UnauthorizedError struct {
	AuthURL string
}

func (e *UnauthorizedError) Error() string {
	if e.AuthURL == "" {
		return ErrUnauthorized.Error()
	}
	return ErrUnauthorized.Error() + ": visit " + e.AuthURL
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }
