package gymledger

import "errors"

// Sentinel errors for common failure scenarios.
var (
	// Authorization errors
	ErrMissingRole = errors.New("gymledger: caller is missing the required role")
	ErrNilAccount  = errors.New("gymledger: nil account")

	// Precondition errors
	ErrInsufficientBalance = errors.New("gymledger: insufficient balance")
	ErrUnknownTier         = errors.New("gymledger: unknown membership tier")
	ErrMembershipLapsed    = errors.New("gymledger: membership has lapsed")
	ErrChallengeNotFound   = errors.New("gymledger: challenge not found")
	ErrNoActiveChallenge   = errors.New("gymledger: no active challenge registration")
	ErrSessionNotFound     = errors.New("gymledger: training session not found")
	ErrSessionNotFuture    = errors.New("gymledger: session date must be in the future")
	ErrRecipientNotStaff   = errors.New("gymledger: recipient does not hold the staff role")
	ErrUnknownRole         = errors.New("gymledger: unknown role tag")
	ErrInvalidAmount       = errors.New("gymledger: amount must be positive")
	ErrInvalidPrice        = errors.New("gymledger: price must be positive")
	ErrNoProceeds          = errors.New("gymledger: no collected proceeds to withdraw")

	// State gate errors
	ErrPaused = errors.New("gymledger: ledger is paused")

	// General errors
	ErrNotFound = errors.New("gymledger: not found")

	// Store errors
	ErrStoreNotReady   = errors.New("gymledger: store not ready")
	ErrStoreClosed     = errors.New("gymledger: store is closed")
	ErrMigrationFailed = errors.New("gymledger: migration failed")
)

// IsAuthorization returns true if the error is an authorization failure.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrMissingRole) ||
		errors.Is(err, ErrNilAccount)
}

// IsPrecondition returns true if the error is a violated operation
// precondition. Precondition failures leave no partial state and are always
// safe to re-attempt.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrUnknownTier) ||
		errors.Is(err, ErrUnknownRole) ||
		errors.Is(err, ErrMembershipLapsed) ||
		errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrNoActiveChallenge) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionNotFuture) ||
		errors.Is(err, ErrRecipientNotStaff) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrNoProceeds)
}

// IsStateGate returns true if the error is the global pause interlock.
func IsStateGate(err error) bool {
	return errors.Is(err, ErrPaused)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}
