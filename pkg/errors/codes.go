package errors

import "net/http"

// ErrorCode identifies a specific failure condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
)

// Submission period error codes
const (
	ErrCodePeriodUnknownMonth ErrorCode = "PER_001"
	ErrCodePeriodInvalidYear  ErrorCode = "PER_002"
	ErrCodePeriodNotFound     ErrorCode = "PER_003"
)

// Submission module error codes
const (
	ErrCodeSubmissionNotFound     ErrorCode = "SUB_001"
	ErrCodeSubmissionKindInvalid  ErrorCode = "SUB_002"
	ErrCodeSubmissionQueryFailed  ErrorCode = "SUB_003"
	ErrCodeSubmissionEventFailed  ErrorCode = "SUB_004"
	ErrCodeDecisionInvalid        ErrorCode = "SUB_005"
)

// Registration application error codes
const (
	ErrCodeReferenceMissing     ErrorCode = "REG_001"
	ErrCodeNoOrganisations      ErrorCode = "REG_002"
	ErrCodeApplicationNotReady  ErrorCode = "REG_003"
	ErrCodeReferenceBuildFailed ErrorCode = "REG_004"
)

// Payment error codes
const (
	ErrCodeFeeCalculationFailed   ErrorCode = "PAY_001"
	ErrCodePaymentInitiationFailed ErrorCode = "PAY_002"
)

// Session store error codes
const (
	ErrCodeSessionUnavailable ErrorCode = "SES_001"
	ErrCodeSessionCorrupt     ErrorCode = "SES_002"
)

// ErrCodeOK is returned by GetCode for a nil error.
const ErrCodeOK ErrorCode = "OK"

// ErrCodeUnknown is returned by GetCode when no AppError is present in the chain.
const ErrCodeUnknown ErrorCode = "UNKNOWN"

// HTTPStatus maps an ErrorCode onto the HTTP status the interface layer
// should respond with. Codes with no specific mapping become 500.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodePeriodUnknownMonth,
		ErrCodePeriodInvalidYear, ErrCodeSubmissionKindInvalid, ErrCodeDecisionInvalid:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound, ErrCodePeriodNotFound, ErrCodeSubmissionNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeReferenceMissing, ErrCodeNoOrganisations,
		ErrCodeApplicationNotReady:
		return http.StatusConflict
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeExternalService, ErrCodeFeeCalculationFailed,
		ErrCodePaymentInitiationFailed, ErrCodeSubmissionQueryFailed,
		ErrCodeSubmissionEventFailed:
		return http.StatusBadGateway
	case ErrCodeServiceUnavailable, ErrCodeSessionUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
