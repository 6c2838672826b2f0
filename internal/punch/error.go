package punch

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

// 打刻ワークフローのエラー分類。どれもその場で利用者へ返すだけで、
// ワークフロー自体は落とさない。自動リトライもしない。
const (
	CodeInvalidArgument     Code = "INVALID_ARGUMENT"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT"
	CodeInternal            Code = "INTERNAL"
	CodePermissionDenied    Code = "PERMISSION_DENIED"
	CodeLocationDisabled    Code = "LOCATION_SERVICE_DISABLED"
	CodeCaptureFailed       Code = "CAPTURE_FAILED"
	CodeNoFaceDetected      Code = "NO_FACE_DETECTED"
	CodeGeoResolutionFailed Code = "GEO_RESOLUTION_FAILED"
	CodeFetchFailed         Code = "FETCH_FAILED"
	CodeSubmissionRejected  Code = "SUBMISSION_REJECTED"
	CodeSubmissionTransport Code = "SUBMISSION_TRANSPORT_ERROR"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func ErrPermissionDenied(msg string) *APIError {
	return &APIError{Code: CodePermissionDenied, Message: msg}
}
func ErrLocationDisabled(msg string) *APIError {
	return &APIError{Code: CodeLocationDisabled, Message: msg}
}
func ErrCaptureFailed(msg string) *APIError {
	return &APIError{Code: CodeCaptureFailed, Message: msg}
}
func ErrNoFaceDetected() *APIError {
	return &APIError{Code: CodeNoFaceDetected, Message: "no face detected, please take a clear face selfie"}
}
func ErrGeoResolution(msg string) *APIError {
	return &APIError{Code: CodeGeoResolutionFailed, Message: msg}
}
func ErrFetchFailed(msg string) *APIError {
	return &APIError{Code: CodeFetchFailed, Message: msg}
}
func ErrSubmissionRejected(msg string) *APIError {
	return &APIError{Code: CodeSubmissionRejected, Message: msg}
}
func ErrSubmissionTransport(msg string) *APIError {
	return &APIError{Code: CodeSubmissionTransport, Message: msg}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodePermissionDenied:
			return http.StatusForbidden
		case CodeLocationDisabled:
			return http.StatusPreconditionFailed
		case CodeNoFaceDetected, CodeCaptureFailed:
			return http.StatusUnprocessableEntity
		case CodeGeoResolutionFailed, CodeFetchFailed, CodeSubmissionRejected:
			return http.StatusBadGateway
		case CodeSubmissionTransport:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
