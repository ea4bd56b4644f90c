package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode is the machine-readable reason code carried in error responses.
type ErrorCode string

// String implements fmt.Stringer
func (c ErrorCode) String() string { return string(c) }

const (
	ErrorCode_HTTP_OK          ErrorCode = "ok"
	ErrorCode_INTERNAL         ErrorCode = "internal"
	ErrorCode_INVALID_ARGUMENT ErrorCode = "invalid_argument"
	ErrorCode_INVALID_PAYLOAD  ErrorCode = "invalid_payload"

	// Upload validation
	ErrorCode_UNSUPPORTED_FILE_TYPE ErrorCode = "unsupported_file_type"
	ErrorCode_FILE_TOO_LARGE        ErrorCode = "file_too_large"
	ErrorCode_EMPTY_UPLOAD          ErrorCode = "empty_upload"

	// Pipeline failures (reason codes surfaced to callers)
	ErrorCode_NO_TEXT_EXTRACTED ErrorCode = "no_text_extracted"
	ErrorCode_NO_CONTENT        ErrorCode = "no_content"
	ErrorCode_CLASSIFIER_ERROR  ErrorCode = "classifier_error"
	ErrorCode_UNDECODABLE_AUDIO ErrorCode = "undecodable_audio"

	// Infrastructure
	ErrorCode_STORAGE_FAILED ErrorCode = "storage_failed"
	ErrorCode_CACHE_FAILED   ErrorCode = "cache_failed"
)

// AppError is the application error type handed to the HTTP layer. It pairs
// the wire-visible reason code and message with the wrapped cause for logs.
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e AppError) Unwrap() error { return e.Raw }

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Upload Errors

func ErrUnsupportedFileType(filename string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_UNSUPPORTED_FILE_TYPE,
		Message:  "Unsupported file type",
	}.WithDetail("filename", filename)
}

func ErrFileTooLarge(maxBytes int64) AppError {
	return AppError{
		HTTPCode: http.StatusRequestEntityTooLarge,
		Code:     ErrorCode_FILE_TOO_LARGE,
		Message:  "File too large",
	}.WithDetail("max_bytes", fmt.Sprintf("%d", maxBytes))
}

func ErrEmptyUpload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_EMPTY_UPLOAD,
		Message:  "Uploaded file is empty",
	}
}

// Pipeline Errors

func ErrNoTextExtracted(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_NO_TEXT_EXTRACTED,
		Message:  "No text could be extracted from the document",
	}
}

func ErrNoContent() AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_NO_CONTENT,
		Message:  "Document contains no analyzable content",
	}
}

func ErrClassifierUnavailable(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_CLASSIFIER_ERROR,
		Message:  "Sentiment classifier is unavailable",
	}
}

func ErrUndecodableAudio(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_UNDECODABLE_AUDIO,
		Message:  "Audio container could not be decoded",
	}
}

// Integration Errors

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_CACHE_FAILED,
		Message:  fmt.Sprintf("Cache operation failed: %s", operation),
	}
}
