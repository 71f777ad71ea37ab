package gateway

import "errors"

// Failure taxonomy for one backend call. Handlers map these onto HTTP
// statuses: ErrTimeout -> 504, ErrUnreachable -> 503. A non-2xx backend
// status is not an error at this layer; it comes back as a Response.
var (
	ErrTimeout     = errors.New("backend call timed out")
	ErrUnreachable = errors.New("backend unreachable")
)

// IsTimeout reports whether err is the timeout flavor of a failed call.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsUnreachable reports whether err is a connectivity failure.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
