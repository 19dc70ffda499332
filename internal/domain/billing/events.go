package billing

import (
	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the invoice aggregate
const (
	EventTypeInvoiceStatusChanged = "invoice.status_changed"
	EventTypeInvoiceCancelled     = "invoice.cancelled"
)

// AggregateTypeInvoice is the aggregate type name used in events
const AggregateTypeInvoice = "Invoice"

// InvoiceStatusChangedEvent is emitted whenever the invoice status moves
// (except cancellation, which has its own event)
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber  string        `json:"invoice_number"`
	ClearanceID    *uuid.UUID    `json:"clearance_id,omitempty"`
	PreviousStatus InvoiceStatus `json:"previous_status"`
	NewStatus      InvoiceStatus `json:"new_status"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, previous InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClearanceID:     inv.ClearanceID,
		PreviousStatus:  previous,
		NewStatus:       inv.Status,
	}
}

// InvoiceCancelledEvent is emitted when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber  string        `json:"invoice_number"`
	ClearanceID    *uuid.UUID    `json:"clearance_id,omitempty"`
	PreviousStatus InvoiceStatus `json:"previous_status"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice, previous InvoiceStatus) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClearanceID:     inv.ClearanceID,
		PreviousStatus:  previous,
	}
}
