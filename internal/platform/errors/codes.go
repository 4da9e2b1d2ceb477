// Package errors provides structured error handling for the game core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storm errors
	CodeStormNotFound      Code = "STORM_NOT_FOUND"
	CodeStormAlreadyActive Code = "STORM_ALREADY_ACTIVE"
	CodeStormSpawnCooldown Code = "STORM_SPAWN_COOLDOWN"

	// Tax errors
	CodeTaxNotScheduled Code = "TAX_NOT_SCHEDULED"

	// Player errors
	CodePlayerEmptyID         Code = "PLAYER_EMPTY_ID"
	CodePlayerNegativeBalance Code = "PLAYER_NEGATIVE_BALANCE"
	CodePlayerLiabilityOrphan Code = "PLAYER_LIABILITY_WITHOUT_NOTICE"

	// Storage errors
	CodeSnapshotFailed Code = "SNAPSHOT_FAILED"
)
