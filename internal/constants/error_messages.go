package constants

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeEntryNotFound      = "ENTRY_NOT_FOUND"
	ErrCodeOperationFailed    = "OPERATION_FAILED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

const (
	ErrMsgValidationFailed   = "validation failed"
	ErrMsgInvalidRequestBody = "failed to parse request body"
	ErrMsgEntryNotFound      = "not found"
	ErrMsgOperationFailed    = "could not process the request"
	ErrMsgUnauthorized       = "invalid token or login required"
	ErrMsgInternalError      = "Internal server error"
)

const (
	EntryProcessed = "entry processed successfully"
	EntryUpdated   = "entry updated successfully"
	EntryDeleted   = "entry deleted successfully"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:   ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody: ErrMsgInvalidRequestBody,
	ErrCodeEntryNotFound:      ErrMsgEntryNotFound,
	ErrCodeOperationFailed:    ErrMsgOperationFailed,
	ErrCodeUnauthorized:       ErrMsgUnauthorized,
	ErrCodeInternalError:      ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

// GetHTTPStatus maps an error code to a response status. A missing entry is
// answered with 200 and success=false, which existing callers rely on.
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody:
		return 400
	case ErrCodeUnauthorized:
		return 401
	case ErrCodeValidationFailed:
		return 422
	case ErrCodeEntryNotFound:
		return 200
	default:
		return 500
	}
}
