package domain

import "errors"

// Sentinel errors returned by repositories. Callers match them with
// errors.Is after unwrapping.
var (
	// ErrPlannedExpenseNotFound is returned when a planned expense id does
	// not resolve to an existing row. This is the only hard failure the
	// confidence engine surfaces.
	ErrPlannedExpenseNotFound = errors.New("planned expense not found")

	// ErrWalletNotFound is returned when a wallet lookup misses. The
	// confidence engine recovers from it by treating the balance as zero.
	ErrWalletNotFound = errors.New("wallet not found")
)
