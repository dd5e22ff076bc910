package errors

import (
	"net/http"
	"strings"
)

// ErrorCode identifies a failure category as "<MODULE>_<nnn>".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Module returns the prefix before the first underscore, or "" when absent.
func (c ErrorCode) Module() string {
	s := string(c)
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}
	return ""
}

// Sentinel codes.
const (
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Common codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTimeout            ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeInvalidConfig      ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeStorageError       ErrorCode = "COMMON_010"
	ErrCodeMessagingError     ErrorCode = "COMMON_011"
)

// Model input codes.
const (
	ErrCodeModelReadFailed ErrorCode = "MDL_001"
	ErrCodeModelInvalid    ErrorCode = "MDL_002"
	ErrCodeModelEmpty      ErrorCode = "MDL_003"
)

// Condition file codes (compartment parameters, redox couples).
const (
	ErrCodeConditionsReadFailed  ErrorCode = "CFG_001"
	ErrCodeConditionsInvalid     ErrorCode = "CFG_002"
	ErrCodeModelConditionsAbsent ErrorCode = "CFG_003"
	ErrCodeRedoxCoupleInvalid    ErrorCode = "CFG_004"
)

// Compound resolution codes.
const (
	ErrCodeCompoundNotFound   ErrorCode = "CMP_001"
	ErrCodeCompoundLookupFail ErrorCode = "CMP_002"
)

// ΔG calculation codes.
const (
	ErrCodeFormulaInvalid      ErrorCode = "THM_001"
	ErrCodeFormulaUnparsable   ErrorCode = "THM_002"
	ErrCodeEstimateFailed      ErrorCode = "THM_003"
	ErrCodeNoTransmembraneInfo ErrorCode = "THM_004"
)

// Cache document and store codes.
const (
	ErrCodeCacheReadFailed     ErrorCode = "CCH_001"
	ErrCodeCacheWriteFailed    ErrorCode = "CCH_002"
	ErrCodeCacheEntryNotFound  ErrorCode = "CCH_003"
	ErrCodeCacheNotLoaded      ErrorCode = "CCH_004"
	ErrCodeCachePublishFailed  ErrorCode = "CCH_005"
	ErrCodeCacheDocumentFormat ErrorCode = "CCH_006"
)

// External service codes.
const (
	ErrCodeServiceRequest     ErrorCode = "SVC_001"
	ErrCodeServiceResponse    ErrorCode = "SVC_002"
	ErrCodeServiceRateLimited ErrorCode = "SVC_003"
)

var notFoundCodes = []ErrorCode{
	ErrCodeNotFound,
	ErrCodeCompoundNotFound,
	ErrCodeCacheEntryNotFound,
}

// ErrorCodeHTTPStatus maps codes to HTTP statuses for the read API.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeInvalidConfig:      http.StatusInternalServerError,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeCompoundNotFound:   http.StatusNotFound,
	ErrCodeCacheEntryNotFound: http.StatusNotFound,
	ErrCodeCacheNotLoaded:     http.StatusServiceUnavailable,

	ErrCodeServiceRateLimited: http.StatusTooManyRequests,
}

// ErrorCodeMessage holds default messages for codes surfaced to API clients.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeCacheEntryNotFound: "cache entry not found",
	ErrCodeCacheNotLoaded:     "thermodynamic cache not loaded",
	ErrCodeModelReadFailed:    "model file could not be read",
	ErrCodeModelInvalid:       "model document is invalid",
}

// HTTPStatusForCode returns the mapped status or 500.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message or "unknown error".
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

//Personal.AI order the ending
