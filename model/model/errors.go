package model

import "errors"

// Sync errors. Connectors and the reconciliation coordinator return
// these as values; anything unrecognized from a connector is folded
// into ErrNetwork so callers retry instead of treating it as permanent.
var (
	// ErrDuplicateSource - connect attempted with an (owner, source name)
	// pair already in use.
	ErrDuplicateSource = errors.New("a source with this name already exists for the user")
	// ErrInvalidCredentials - platform rejected the provided credentials
	// at connect time.
	ErrInvalidCredentials = errors.New("invalid credentials provided")
	// ErrSourceConnection - the account exists but its stored credentials
	// are no longer usable, discovered at poll time.
	ErrSourceConnection = errors.New("source connection error: api token expired or invalid")
	// ErrRateLimit - platform throttling; back off before retrying.
	ErrRateLimit = errors.New("external api rate limit exceeded")
	// ErrNetwork - transient failure reaching the platform; safe to retry.
	ErrNetwork = errors.New("network error during external api call")
	// ErrSourceNotFound - operation referenced a missing source account.
	ErrSourceNotFound = errors.New("source account not found")
	// ErrUnsupportedSourceType - no connector registered for the source type.
	ErrUnsupportedSourceType = errors.New("no connector registered for source type")
)
