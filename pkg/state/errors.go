package state

import "fmt"

// InsufficientBalance reports that from's balance cannot cover the
// amount plus fee a transaction requires.
type InsufficientBalance struct {
	Available uint64
	Required  uint64
}

func (e *InsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance: available %d, required %d", e.Available, e.Required)
}

// InvalidNonce reports a transaction whose nonce does not match the
// sender's next expected nonce.
type InvalidNonce struct {
	Expected uint64
	Actual   uint64
}

func (e *InvalidNonce) Error() string {
	return fmt.Sprintf("invalid nonce: expected %d, got %d", e.Expected, e.Actual)
}

// FeeTooLow reports a transaction fee below the minimum the chain
// accepts.
type FeeTooLow struct {
	Min    uint64
	Actual uint64
}

func (e *FeeTooLow) Error() string {
	return fmt.Sprintf("fee too low: minimum %d, got %d", e.Min, e.Actual)
}

// Sentinel transaction rejections that carry no extra data.
var (
	ErrZeroAmount             = fmt.Errorf("transaction amount must be at least 1")
	ErrDuplicateTransaction   = fmt.Errorf("transaction fingerprint already spent")
	ErrInvalidSignature       = fmt.Errorf("transaction signature invalid")
	ErrProofVerificationFailed = fmt.Errorf("transaction proof verification failed")
)
