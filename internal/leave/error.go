package leave

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	ErrCodeInvalidArgument     = "INVALID_ARGUMENT"
	ErrCodeRejected            = "SUBMISSION_REJECTED"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

func NewInvalidArgumentError(msg string) error {
	return &DomainError{
		Code:    ErrCodeInvalidArgument,
		Message: msg,
	}
}

func NewRejectedError(msg string) error {
	return &DomainError{
		Code:    ErrCodeRejected,
		Message: msg,
	}
}

func NewUpstreamUnavailableError(msg string) error {
	return &DomainError{
		Code:    ErrCodeUpstreamUnavailable,
		Message: msg,
	}
}
