package clearance

import (
	"context"
	"time"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter defines query options for clearance lists
type Filter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     *Status
}

// Repository persists Clearance aggregates.
//
// Save is the guarded persistence path: it writes the full aggregate
// (including child rows) after domain validation has run. The Update*
// methods are system writes: targeted field updates used by the payment
// mirror and the checklist auto-promotion, which bypass the transition
// guard by design and are trusted not to violate any other invariant.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Clearance, error)
	FindByCaseNumber(ctx context.Context, caseNumber string) (*Clearance, error)
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*Clearance, error)
	FindAll(ctx context.Context, filter Filter) ([]Clearance, int64, error)
	Save(ctx context.Context, c *Clearance) error

	// UpdateStatus is a system write of the overall status
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	// UpdatePaymentStatus is a system write of the mirrored payment status.
	// A nil paymentDate leaves the stored date untouched.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus, paymentDate *time.Time) error
	// UnlinkInvoice clears the invoice back-link together with the mirrored
	// payment fields (invoice cancellation path)
	UnlinkInvoice(ctx context.Context, id uuid.UUID) error

	GenerateCaseNumber(ctx context.Context) (string, error)
}

// TemplateRepository persists checklist templates
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	FindByShippingType(ctx context.Context, shippingType ShippingType) (*Template, error)
	FindAll(ctx context.Context) ([]Template, error)
	Save(ctx context.Context, t *Template) error
}
