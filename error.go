package guardian

import "fmt"

type ErrorCode int

const (
	Unknown = iota
	// Unauthorized means the caller presented no credential or a bad one.
	Unauthorized
	// InvalidRequest means a required request field is missing.
	InvalidRequest
	// StorageFailure means the event store failed an append or read.
	StorageFailure
	// NotifyFailure means alert delivery failed.
	NotifyFailure
	// InternalFailure is any other unhandled failure inside the pipeline.
	InternalFailure
)

// Guardian custom error.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	return fmt.Errorf("error code: %d, user data: %v, details: %w", e.Code, e.UserData, e.Err).Error()
}
