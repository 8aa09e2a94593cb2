package service

import "errors"

var (
	ErrNegativeQuantity = errors.New("quantity must be greater than or equal to 0")
	ErrNegativePrice    = errors.New("price_per_unit must be greater than or equal to 0")
	ErrMissingCustomer  = errors.New("customer_name is required")
	ErrMissingItem      = errors.New("item is required")
	ErrTotalOutOfRange  = errors.New("total must be a finite amount no greater than 1000000000000")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
