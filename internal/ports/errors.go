package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrConfigurationError = errors.New("invalid or missing configuration")
	ErrInsufficientData   = errors.New("not enough price data")

	// Venue Specific Errors
	ErrConnectionFailed     = errors.New("failed to connect to the venue")
	ErrNotConnected         = errors.New("venue connection is not established")
	ErrAuthenticationFailed = errors.New("venue authorization failed (check API token)")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrInsufficientFunds    = errors.New("insufficient balance for stake")
	ErrProposalRejected     = errors.New("contract proposal rejected")
	ErrBuyRejected          = errors.New("contract buy rejected")
	ErrSettlementUnknown    = errors.New("contract outcome could not be determined")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrUpdateFailed = errors.New("database update failed")
)
