package reminder

import "errors"

var (
	ErrServerError    = errors.New("SERVER_ERROR")    // 5xx or undecodable response
	ErrTimeout        = errors.New("TIMEOUT")         // context deadline or cancel
	ErrInvalidRequest = errors.New("INVALID_REQUEST") // 4xx, not retryable
	ErrNetworkError   = errors.New("NETWORK_ERROR")   // connection failures
)
