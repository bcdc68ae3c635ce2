package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Validation layer.
	ErrBadRequest         = "E_BAD_REQUEST"
	ErrZoneNotFound       = "E_ZONE_NOT_FOUND"
	ErrZoneInactive       = "E_ZONE_INACTIVE"
	ErrZoneFull           = "E_ZONE_FULL"
	ErrAlreadyMining      = "E_ALREADY_MINING"
	ErrRobotUnsuitable    = "E_ROBOT_UNSUITABLE"
	ErrMaintenanceOverdue = "E_MAINTENANCE_OVERDUE"
	ErrBadAmount          = "E_BAD_AMOUNT"

	// Authorization layer.
	ErrNotOwner    = "E_NOT_OWNER"
	ErrNotOperator = "E_NOT_OPERATOR"
	ErrBanned      = "E_BANNED"
	ErrPaused      = "E_PAUSED"

	// Session state layer.
	ErrNoActiveSession = "E_NO_ACTIVE_SESSION"
	ErrClaimTooSoon    = "E_CLAIM_TOO_SOON"
	ErrNotEnoughEnergy = "E_NOT_ENOUGH_ENERGY"

	// Rate limiting.
	ErrRateLimit = "E_RATE_LIMIT"

	// Collaborator/infrastructure failures surfaced to the caller.
	ErrMintFailed    = "E_MINT_FAILED"
	ErrPaymentFailed = "E_PAYMENT_FAILED"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:    {},
	ErrBadRequest:         {},
	ErrZoneNotFound:       {},
	ErrZoneInactive:       {},
	ErrZoneFull:           {},
	ErrAlreadyMining:      {},
	ErrRobotUnsuitable:    {},
	ErrMaintenanceOverdue: {},
	ErrBadAmount:          {},
	ErrNotOwner:           {},
	ErrNotOperator:        {},
	ErrBanned:             {},
	ErrPaused:             {},
	ErrNoActiveSession:    {},
	ErrClaimTooSoon:       {},
	ErrNotEnoughEnergy:    {},
	ErrRateLimit:          {},
	ErrMintFailed:         {},
	ErrPaymentFailed:      {},
	ErrInternal:           {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
