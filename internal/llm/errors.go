package llm

import "errors"

// Provider failures are classified into two sentinel errors so callers
// can map them to exit codes or HTTP statuses with errors.Is. Neither
// is retried automatically.
var (
	// ErrProviderUnavailable covers network, auth and server-side failures.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited is returned when the provider signals throttling.
	ErrRateLimited = errors.New("provider rate limited")
)
