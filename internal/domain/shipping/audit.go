package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
)

// AuditActionUpdateRates tags audit entries written by a rate update
const AuditActionUpdateRates = "UPDATE_RATES"

// AuditEntry is an immutable record of one effective config update.
// Entries exist only for updates that changed at least one field.
type AuditEntry struct {
	ID        uuid.UUID
	Actor     uuid.UUID
	ActorName string
	Action    string
	Changes   []FieldChange
	Origin    string // client address of the request
	Timestamp time.Time
}

// NewAuditEntry creates a rate-update audit entry.
// An empty change list is rejected so no-op updates never produce entries.
func NewAuditEntry(actor uuid.UUID, actorName, origin string, changes []FieldChange) (*AuditEntry, error) {
	if len(changes) == 0 {
		return nil, shared.NewDomainError("EMPTY_AUDIT_ENTRY", "Audit entry requires at least one change")
	}
	if actor == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Audit entry requires an actor")
	}

	recorded := make([]FieldChange, len(changes))
	copy(recorded, changes)

	return &AuditEntry{
		ID:        uuid.New(),
		Actor:     actor,
		ActorName: actorName,
		Action:    AuditActionUpdateRates,
		Changes:   recorded,
		Origin:    origin,
		Timestamp: time.Now(),
	}, nil
}
