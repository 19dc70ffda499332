package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/billing"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

// InvoiceService provides application-level invoice operations. Status
// changes publish domain events so the linked clearance can mirror them.
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, eventPublisher shared.EventPublisher, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// InvoiceItemResponse represents one invoice line in API responses
type InvoiceItemResponse struct {
	ID       uuid.UUID       `json:"id"`
	ItemCode string          `json:"item_code"`
	Qty      decimal.Decimal `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	ClearanceID   *uuid.UUID            `json:"clearance_id,omitempty"`
	PostingDate   time.Time             `json:"posting_date"`
	DueDate       time.Time             `json:"due_date"`
	Items         []InvoiceItemResponse `json:"items"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	CancelledAt   *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toInvoiceResponse(inv *billing.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		ClearanceID:   inv.ClearanceID,
		PostingDate:   inv.PostingDate,
		DueDate:       inv.DueDate,
		Items:         make([]InvoiceItemResponse, 0, len(inv.Items)),
		TotalAmount:   inv.TotalAmount,
		Status:        inv.Status.String(),
		CancelledAt:   inv.CancelledAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:       item.ID,
			ItemCode: item.ItemCode,
			Qty:      item.Qty,
			Rate:     item.Rate,
			Amount:   item.Amount,
		})
	}
	return resp
}

func (s *InvoiceService) load(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return inv, nil
}

func (s *InvoiceService) saveAndPublish(ctx context.Context, inv *billing.Invoice) error {
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return err
	}
	if s.eventPublisher != nil {
		events := inv.GetDomainEvents()
		if len(events) > 0 {
			if err := s.eventPublisher.Publish(ctx, events...); err != nil {
				s.logger.Error("failed to publish invoice events",
					zap.String("invoice_number", inv.InvoiceNumber),
					zap.Error(err),
				)
			}
			inv.ClearDomainEvents()
		}
	}
	return nil
}

// GetInvoice returns one invoice by id
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// SubmitInvoice finalizes a draft invoice into the open (unpaid) state
func (s *InvoiceService) SubmitInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.Submit(); err != nil {
		return nil, err
	}
	if err := s.saveAndPublish(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice submitted", zap.String("invoice_number", inv.InvoiceNumber))
	return toInvoiceResponse(inv), nil
}

// SetInvoiceStatus moves the invoice to the given status. Setting
// Cancelled routes through the cancellation path.
func (s *InvoiceService) SetInvoiceStatus(ctx context.Context, id uuid.UUID, status string) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.SetStatus(billing.InvoiceStatus(status)); err != nil {
		return nil, err
	}
	if err := s.saveAndPublish(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice status updated",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("status", inv.Status.String()),
	)
	return toInvoiceResponse(inv), nil
}

// CancelInvoice voids the invoice; the clearance that billed it is
// unlinked and reset by the cancellation event handler.
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.Cancel(); err != nil {
		return nil, err
	}
	if err := s.saveAndPublish(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice cancelled", zap.String("invoice_number", inv.InvoiceNumber))
	return toInvoiceResponse(inv), nil
}
