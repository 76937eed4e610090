package domain

import "errors"

var (
	ErrAccountExists     = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrInvalidSession    = errors.New("invalid session token")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("cannot transfer to same account")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrLoanCapExceeded   = errors.New("loan amount exceeds cap")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrRateLimited       = errors.New("request rejected by admission gate")
	ErrInternal          = errors.New("internal fault")
)

// ErrorType resolves an error into the stable outward reason used by
// observability tallies and failure logs.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrLoanCapExceeded), errors.Is(err, ErrSelfTransfer):
		return "bad_request"
	case errors.Is(err, ErrAccountExists):
		return "conflict"
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrRecipientNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidSession):
		return "unauthorized"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrRateLimited):
		return "rate_limit"
	default:
		return "internal"
	}
}
