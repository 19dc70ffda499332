package clearance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/billing"
	"github.com/friendserp/custom-clearance/internal/domain/clearance"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

// MirrorPaymentStatus maps an invoice status onto the clearance's derived
// payment state. Anything that is not paid or partly paid reads as Pending.
func MirrorPaymentStatus(status billing.InvoiceStatus) clearance.PaymentStatus {
	switch status {
	case billing.InvoiceStatusPaid:
		return clearance.PaymentStatusPaid
	case billing.InvoiceStatusPartlyPaid, billing.InvoiceStatusPartlyPaidDiscounted:
		return clearance.PaymentStatusPartiallyPaid
	default:
		return clearance.PaymentStatusPending
	}
}

// InvoiceStatusChangedHandler mirrors invoice payment progress onto the
// linked clearance. The mirror writes through the repository's system
// write: payment state is derived data, not a caller transition.
type InvoiceStatusChangedHandler struct {
	clearanceRepo clearance.Repository
	logger        *zap.Logger
}

// NewInvoiceStatusChangedHandler creates a new handler for invoice status changes
func NewInvoiceStatusChangedHandler(clearanceRepo clearance.Repository, logger *zap.Logger) *InvoiceStatusChangedHandler {
	return &InvoiceStatusChangedHandler{
		clearanceRepo: clearanceRepo,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceStatusChangedHandler) EventTypes() []string {
	return []string{billing.EventTypeInvoiceStatusChanged}
}

// Handle mirrors the new invoice status onto the clearance's payment fields
func (h *InvoiceStatusChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*billing.InvoiceStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			billing.EventTypeInvoiceStatusChanged, event.EventType())
	}

	// Invoices not issued from a clearance have nothing to mirror to
	if changed.ClearanceID == nil {
		return nil
	}

	// The date is only stamped on Paid; other statuses keep whatever date
	// is already stored. Cancellation is the one path that clears it.
	paymentStatus := MirrorPaymentStatus(changed.NewStatus)
	var paymentDate *time.Time
	if paymentStatus == clearance.PaymentStatusPaid {
		now := time.Now()
		paymentDate = &now
	}

	if err := h.clearanceRepo.UpdatePaymentStatus(ctx, *changed.ClearanceID, paymentStatus, paymentDate); err != nil {
		h.logger.Error("failed to mirror invoice status onto clearance",
			zap.String("clearance_id", changed.ClearanceID.String()),
			zap.String("invoice_number", changed.InvoiceNumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to mirror invoice status: %w", err)
	}

	h.logger.Info("mirrored invoice status onto clearance",
		zap.String("clearance_id", changed.ClearanceID.String()),
		zap.String("invoice_number", changed.InvoiceNumber),
		zap.String("invoice_status", changed.NewStatus.String()),
		zap.String("payment_status", string(paymentStatus)),
	)
	return nil
}

// InvoiceCancelledHandler rolls the linked clearance back when its invoice
// is voided: the back-link and mirrored payment fields are cleared, and a
// case already carrying a risk result returns to In Review so it can be
// re-billed and re-assessed.
type InvoiceCancelledHandler struct {
	clearanceRepo clearance.Repository
	logger        *zap.Logger
}

// NewInvoiceCancelledHandler creates a new handler for invoice cancellations
func NewInvoiceCancelledHandler(clearanceRepo clearance.Repository, logger *zap.Logger) *InvoiceCancelledHandler {
	return &InvoiceCancelledHandler{
		clearanceRepo: clearanceRepo,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceCancelledHandler) EventTypes() []string {
	return []string{billing.EventTypeInvoiceCancelled}
}

// Handle unlinks the cancelled invoice and resets the clearance
func (h *InvoiceCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelled, ok := event.(*billing.InvoiceCancelledEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			billing.EventTypeInvoiceCancelled, event.EventType())
	}

	if cancelled.ClearanceID == nil {
		return nil
	}
	clearanceID := *cancelled.ClearanceID

	c, err := h.clearanceRepo.FindByID(ctx, clearanceID)
	if err != nil {
		return fmt.Errorf("failed to load clearance for invoice cancellation: %w", err)
	}
	if c == nil {
		h.logger.Warn("cancelled invoice points at missing clearance",
			zap.String("clearance_id", clearanceID.String()),
			zap.String("invoice_number", cancelled.InvoiceNumber),
		)
		return nil
	}

	if err := h.clearanceRepo.UnlinkInvoice(ctx, clearanceID); err != nil {
		return fmt.Errorf("failed to unlink cancelled invoice: %w", err)
	}

	if c.Status.IsRiskResult() {
		if err := h.clearanceRepo.UpdateStatus(ctx, clearanceID, clearance.StatusInReview); err != nil {
			return fmt.Errorf("failed to roll back clearance status: %w", err)
		}
	}

	h.logger.Info("unlinked cancelled invoice from clearance",
		zap.String("case_number", c.CaseNumber),
		zap.String("invoice_number", cancelled.InvoiceNumber),
		zap.Bool("status_rolled_back", c.Status.IsRiskResult()),
	)
	return nil
}

// Ensure the handlers implement shared.EventHandler
var (
	_ shared.EventHandler = (*InvoiceStatusChangedHandler)(nil)
	_ shared.EventHandler = (*InvoiceCancelledHandler)(nil)
)
