package audithook

// Action constants for audit events.
const (
	// Role directory actions
	ActionRoleGranted = "role.granted"
	ActionRoleRevoked = "role.revoked"

	// Ledger actions
	ActionPaused  = "ledger.paused"
	ActionResumed = "ledger.resumed"
	ActionMinted  = "ledger.minted"

	// Membership actions
	ActionMembershipPurchased = "membership.purchased"
	ActionStaffPaid           = "staff.paid"
	ActionReferralRewarded    = "referral.rewarded"

	// Challenge actions
	ActionChallengeCreated    = "challenge.created"
	ActionChallengeRegistered = "challenge.registered"
	ActionChallengeCompleted  = "challenge.completed"

	// Training session actions
	ActionSessionCreated = "session.created"
	ActionSessionBooked  = "session.booked"

	// Issuance gateway actions
	ActionTokensSold     = "sale.tokens_sold"
	ActionFundsWithdrawn = "sale.funds_withdrawn"
)

// Resource constants for audit events.
const (
	ResourceRole       = "role"
	ResourceLedger     = "ledger"
	ResourceMembership = "membership"
	ResourceChallenge  = "challenge"
	ResourceSession    = "session"
	ResourceSale       = "sale"
)

// Category constants for audit events.
const (
	CategoryAccess    = "access"
	CategoryLedger    = "ledger"
	CategoryIncentive = "incentive"
	CategoryPayment   = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
