package ports

import (
	"errors"
	"fmt"
)

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Analytics Errors
	ErrMalformedTrade         = errors.New("trade rows do not form an entry/exit pair")
	ErrHeaderMismatch         = errors.New("source headers do not match the expected trade schema")
	ErrInsufficientData       = errors.New("insufficient data points")
	ErrLengthMismatch         = errors.New("sequences have mismatched lengths")
	ErrDegenerateDistribution = errors.New("standard deviation or denominator is zero")
	ErrNoValidIntervals       = fmt.Errorf("no valid intervals: %w", ErrInsufficientData)

	// Exchange Specific Errors
	ErrExchangeUnavailable  = errors.New("exchange API is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the exchange")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")
	ErrInvalidAPIKeys       = errors.New("invalid API keys or permissions")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)
