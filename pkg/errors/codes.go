package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Aliases used at call sites that read better with the short form.
const (
	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeNotFound           = ErrCodeNotFound
	CodeServiceUnavailable = ErrCodeServiceUnavailable
	CodeNotImplemented     = ErrCodeNotImplemented
	CodeOK                 = ErrorCode("OK")
	CodeUnknown            = ErrorCode("UNKNOWN")
)

// Dataset Error Codes
const (
	ErrCodeDatasetLoadFailed    ErrorCode = "DS_001"
	ErrCodeDatasetMalformed     ErrorCode = "DS_002"
	ErrCodeDatasetColumnMissing ErrorCode = "DS_003"
	ErrCodeDatasetNotLoaded     ErrorCode = "DS_004"
	ErrCodeDatasetSourceInvalid ErrorCode = "DS_005"
)

// Dashboard Error Codes
const (
	ErrCodeNoMatchingRows     ErrorCode = "DASH_001"
	ErrCodeSelectionInvalid   ErrorCode = "DASH_002"
	ErrCodeChartOptionInvalid ErrorCode = "DASH_003"
	ErrCodeExportFailed       ErrorCode = "DASH_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeDatasetLoadFailed:    http.StatusServiceUnavailable,
	ErrCodeDatasetMalformed:     http.StatusUnprocessableEntity,
	ErrCodeDatasetColumnMissing: http.StatusUnprocessableEntity,
	ErrCodeDatasetNotLoaded:     http.StatusServiceUnavailable,
	ErrCodeDatasetSourceInvalid: http.StatusBadRequest,

	ErrCodeNoMatchingRows:     http.StatusNotFound,
	ErrCodeSelectionInvalid:   http.StatusBadRequest,
	ErrCodeChartOptionInvalid: http.StatusBadRequest,
	ErrCodeExportFailed:       http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeDatasetLoadFailed:    "failed to load dataset",
	ErrCodeDatasetMalformed:     "dataset is malformed",
	ErrCodeDatasetColumnMissing: "dataset is missing a required column",
	ErrCodeDatasetNotLoaded:     "dataset not loaded",
	ErrCodeDatasetSourceInvalid: "invalid dataset source",

	ErrCodeNoMatchingRows:     "no matching rows for current filter",
	ErrCodeSelectionInvalid:   "invalid filter selection",
	ErrCodeChartOptionInvalid: "invalid chart option",
	ErrCodeExportFailed:       "failed to export table",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
