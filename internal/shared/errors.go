package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// Remote service errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrMalformedResponse  = fmt.Errorf("malformed remote response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Account and media errors
	ErrAccountNotFound   = fmt.Errorf("account not found")
	ErrMissingExternalID = fmt.Errorf("missing external tracking id")
	ErrUnknownMediaKind  = fmt.Errorf("unknown media kind")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
