package ethereum

import "errors"

// Failure taxonomy for the preparation flow. Every public method wraps its
// cause in exactly one of these so callers can switch on errors.Is instead
// of string matching.
var (
	ErrInvalidAddress      = errors.New("invalid address")
	ErrContractCall        = errors.New("contract call failed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrApproval            = errors.New("approval failed")
	ErrQuoteRequest        = errors.New("quote request failed")
	ErrTransaction         = errors.New("transaction failed")
)
