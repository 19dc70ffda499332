package billing

import (
	"fmt"
	"time"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft                  InvoiceStatus = "Draft"
	InvoiceStatusSubmitted              InvoiceStatus = "Submitted"
	InvoiceStatusUnpaid                 InvoiceStatus = "Unpaid"
	InvoiceStatusOverdue                InvoiceStatus = "Overdue"
	InvoiceStatusPartlyPaid             InvoiceStatus = "Partly Paid"
	InvoiceStatusPartlyPaidDiscounted   InvoiceStatus = "Partly Paid and Discounted"
	InvoiceStatusUnpaidDiscounted       InvoiceStatus = "Unpaid and Discounted"
	InvoiceStatusOverdueDiscounted      InvoiceStatus = "Overdue and Discounted"
	InvoiceStatusPaid                   InvoiceStatus = "Paid"
	InvoiceStatusCancelled              InvoiceStatus = "Cancelled"
	InvoiceStatusReturn                 InvoiceStatus = "Return"
	InvoiceStatusCreditNoteIssued       InvoiceStatus = "Credit Note Issued"
	InvoiceStatusInternalTransfer       InvoiceStatus = "Internal Transfer"
)

// IsValid checks if the status is a known invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSubmitted, InvoiceStatusUnpaid,
		InvoiceStatusOverdue, InvoiceStatusPartlyPaid, InvoiceStatusPartlyPaidDiscounted,
		InvoiceStatusUnpaidDiscounted, InvoiceStatusOverdueDiscounted, InvoiceStatusPaid,
		InvoiceStatusCancelled, InvoiceStatusReturn, InvoiceStatusCreditNoteIssued,
		InvoiceStatusInternalTransfer:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice can no longer change status
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCancelled
}

// InvoiceItem is one billed line on an invoice
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id"`
	ItemCode    string          `json:"item_code"`
	Description string          `json:"description,omitempty"`
	Qty         decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is the financial document billed to a customer for a clearance
// service. It is created in Draft (unsubmitted) so staff can review before
// finalizing.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	ClearanceID   *uuid.UUID      `json:"clearance_id,omitempty"`
	PostingDate   time.Time       `json:"posting_date"`
	DueDate       time.Time       `json:"due_date"`
	Items         []InvoiceItem   `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        InvoiceStatus   `json:"status"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
}

// NewInvoice creates a new draft invoice
func NewInvoice(invoiceNumber string, customerID uuid.UUID, items []InvoiceItem) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice must have at least one item")
	}

	now := time.Now()
	total := decimal.Zero
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].Amount = items[i].Qty.Mul(items[i].Rate)
		total = total.Add(items[i].Amount)
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		PostingDate:       now,
		DueDate:           now,
		Items:             items,
		TotalAmount:       total,
		Status:            InvoiceStatusDraft,
	}, nil
}

// LinkClearance records the clearance this invoice bills for
func (inv *Invoice) LinkClearance(clearanceID uuid.UUID) {
	inv.ClearanceID = &clearanceID
	inv.Touch()
}

// Submit moves a draft invoice into the open (unpaid) state
func (inv *Invoice) Submit() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit invoice in %s status", inv.Status))
	}
	inv.setStatus(InvoiceStatusUnpaid)
	return nil
}

// SetStatus moves the invoice to the given status and emits a status-changed
// event. Cancellation must go through Cancel.
func (inv *Invoice) SetStatus(target InvoiceStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown invoice status: %s", target))
	}
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change status of invoice in %s status", inv.Status))
	}
	if target == InvoiceStatusCancelled {
		return inv.Cancel()
	}
	if target == inv.Status {
		return nil
	}
	inv.setStatus(target)
	return nil
}

// Cancel voids the invoice and emits a cancellation event
func (inv *Invoice) Cancel() error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	now := time.Now()
	previous := inv.Status
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv, previous))
	return nil
}

func (inv *Invoice) setStatus(target InvoiceStatus) {
	previous := inv.Status
	inv.Status = target
	inv.Touch()
	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, previous))
}
