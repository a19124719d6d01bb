package loans

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrInvalidTerm    = errors.New("invalid term")
	ErrInvalidBalance = errors.New("invalid balance")
	ErrNonConverging  = errors.New("non-converging amortization")
)

// InvalidTermError reports a non-positive number of periods or a malformed
// rate segment list.
type InvalidTermError struct {
	Periods int
	Reason  string
}

func (e *InvalidTermError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid term: %s", e.Reason)
	}
	return fmt.Sprintf("invalid term: periods must be positive, got %d", e.Periods)
}

// Is reports whether target is ErrInvalidTerm.
func (e *InvalidTermError) Is(target error) bool {
	return target == ErrInvalidTerm
}

// InvalidBalanceError reports a non-positive balance or a negative amount.
type InvalidBalanceError struct {
	Balance float64
	Reason  string
}

func (e *InvalidBalanceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid balance: %s", e.Reason)
	}
	return fmt.Sprintf("invalid balance: must be positive, got %.2f", e.Balance)
}

// Is reports whether target is ErrInvalidBalance.
func (e *InvalidBalanceError) Is(target error) bool {
	return target == ErrInvalidBalance
}

// NonConvergingAmortizationError reports a payment too small to ever repay the
// balance, detected by the iteration bound of a month walk.
type NonConvergingAmortizationError struct {
	Months  int
	Balance float64
	Payment float64
	Rate    float64
}

func (e *NonConvergingAmortizationError) Error() string {
	return fmt.Sprintf("amortization does not converge after %d months: payment %.2f against interest %.2f on balance %.2f",
		e.Months, e.Payment, e.Balance*e.Rate, e.Balance)
}

// Is reports whether target is ErrNonConverging.
func (e *NonConvergingAmortizationError) Is(target error) bool {
	return target == ErrNonConverging
}
