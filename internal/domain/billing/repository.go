package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository persists Invoice aggregates
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByClearanceID(ctx context.Context, clearanceID uuid.UUID) (*Invoice, error)
	Save(ctx context.Context, inv *Invoice) error
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}
