package clearance

import (
	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the clearance aggregate
const (
	EventTypeClearanceCreated       = "clearance.created"
	EventTypeClearanceStatusChanged = "clearance.status_changed"
	EventTypeChecklistCompleted     = "clearance.checklist_completed"
)

// AggregateTypeClearance is the aggregate type name used in events
const AggregateTypeClearance = "Clearance"

// ClearanceCreatedEvent is emitted when a new clearance case is opened
type ClearanceCreatedEvent struct {
	shared.BaseDomainEvent
	CaseNumber   string       `json:"case_number"`
	CustomerID   uuid.UUID    `json:"customer_id"`
	ShippingType ShippingType `json:"shipping_type"`
}

// NewClearanceCreatedEvent creates a new ClearanceCreatedEvent
func NewClearanceCreatedEvent(c *Clearance) *ClearanceCreatedEvent {
	return &ClearanceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClearanceCreated, AggregateTypeClearance, c.ID),
		CaseNumber:      c.CaseNumber,
		CustomerID:      c.CustomerID,
		ShippingType:    c.ShippingType,
	}
}

// ClearanceStatusChangedEvent is emitted when the overall status moves
type ClearanceStatusChangedEvent struct {
	shared.BaseDomainEvent
	CaseNumber     string `json:"case_number"`
	PreviousStatus Status `json:"previous_status"`
	NewStatus      Status `json:"new_status"`
}

// NewClearanceStatusChangedEvent creates a new ClearanceStatusChangedEvent
func NewClearanceStatusChangedEvent(c *Clearance, previous Status) *ClearanceStatusChangedEvent {
	return &ClearanceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClearanceStatusChanged, AggregateTypeClearance, c.ID),
		CaseNumber:      c.CaseNumber,
		PreviousStatus:  previous,
		NewStatus:       c.Status,
	}
}

// ChecklistCompletedEvent is emitted when every mandatory document has been
// accepted and the case auto-promotes to In Review
type ChecklistCompletedEvent struct {
	shared.BaseDomainEvent
	CaseNumber     string `json:"case_number"`
	PreviousStatus Status `json:"previous_status"`
}

// NewChecklistCompletedEvent creates a new ChecklistCompletedEvent
func NewChecklistCompletedEvent(c *Clearance, previous Status) *ChecklistCompletedEvent {
	return &ChecklistCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChecklistCompleted, AggregateTypeClearance, c.ID),
		CaseNumber:      c.CaseNumber,
		PreviousStatus:  previous,
	}
}
