package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// InvalidSourceError reports a URL that cannot be resolved into a video:
// malformed, unknown, unavailable or without the requested stream.
type InvalidSourceError struct {
	URL string
	Err error
}

func (e *InvalidSourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid source %q", e.URL)
	}
	return fmt.Sprintf("invalid source %q: %v", e.URL, e.Err)
}

func (e *InvalidSourceError) Unwrap() error {
	return e.Err
}

// TransferError reports a download that started but did not finish cleanly.
// Path is the destination file, which may hold a partial download.
type TransferError struct {
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer to %s failed: %v", e.Path, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

type ErrorCode string

const (
	ErrorCodeInvalidSource     ErrorCode = "INVALID_SOURCE"
	ErrorCodeStreamNotFound    ErrorCode = "STREAM_NOT_FOUND"
	ErrorCodeFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrorCodeTransferFailed    ErrorCode = "TRANSFER_FAILED"
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidationError   ErrorCode = "VALIDATION_ERROR"
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

func NewErrorWithDetails(code ErrorCode, message string, statusCode int, details map[string]interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

func NewValidationError(message string, details map[string]interface{}) *AppError {
	return NewErrorWithDetails(ErrorCodeValidationError, message, http.StatusBadRequest, details)
}

func NewInvalidSourceError(err *InvalidSourceError) *AppError {
	details := map[string]interface{}{
		"provided": err.URL,
	}
	if err.Err != nil {
		details["reason"] = err.Err.Error()
	}
	return NewErrorWithDetails(
		ErrorCodeInvalidSource,
		"The provided URL is not a downloadable video",
		http.StatusBadRequest,
		details,
	)
}

func NewStreamNotFoundError(streamID string) *AppError {
	return NewErrorWithDetails(
		ErrorCodeStreamNotFound,
		fmt.Sprintf("Stream %s is not available for this video", streamID),
		http.StatusNotFound,
		map[string]interface{}{
			"stream_id": streamID,
		},
	)
}

func NewFileNotFoundError(name string) *AppError {
	return NewError(
		ErrorCodeFileNotFound,
		fmt.Sprintf("File %s not found", name),
		http.StatusNotFound,
	)
}

func NewTransferError(err *TransferError) *AppError {
	return NewErrorWithDetails(
		ErrorCodeTransferFailed,
		"An error occurred during download",
		http.StatusInternalServerError,
		map[string]interface{}{
			"reason": err.Err.Error(),
		},
	)
}

func NewRateLimitError() *AppError {
	return NewError(
		ErrorCodeRateLimitExceeded,
		"Too many requests",
		http.StatusTooManyRequests,
	)
}

func NewInternalError() *AppError {
	return NewError(
		ErrorCodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
}

// ToAppError maps domain errors onto their HTTP representation.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var sourceErr *InvalidSourceError
	if errors.As(err, &sourceErr) {
		return NewInvalidSourceError(sourceErr)
	}

	var transferErr *TransferError
	if errors.As(err, &transferErr) {
		return NewTransferError(transferErr)
	}

	return NewInternalError()
}
