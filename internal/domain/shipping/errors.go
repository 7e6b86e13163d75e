package shipping

import "github.com/napsterimports/backend/internal/domain/shared"

var (
	// ErrNoActiveBatch is the checkout gate: no batch is open for the requested mode.
	// It is deliberately distinct from shared.ErrNotFound.
	ErrNoActiveBatch = shared.NewDomainError("NO_ACTIVE_BATCH", "No active shipping batch found")

	// ErrBatchAlreadyOpen is returned when another batch of the same mode is already open
	ErrBatchAlreadyOpen = shared.NewDomainError("BATCH_ALREADY_OPEN", "Another batch is already open for this transport mode")

	// ErrInvalidTransition is returned for any lifecycle edge not in the transition table
	ErrInvalidTransition = shared.NewDomainError("INVALID_TRANSITION", "Batch status transition not allowed")

	// ErrConfigUnavailable means no rate configuration could be read
	ErrConfigUnavailable = shared.NewDomainError("CONFIG_UNAVAILABLE", "Shipping configuration unavailable")

	// ErrInvalidVolumeRatio means the volume-to-weight ratio cannot be divided by
	ErrInvalidVolumeRatio = shared.NewDomainError("INVALID_RATE", "volume_to_weight_ratio must be positive")
)
