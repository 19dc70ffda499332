package clearance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/billing"
	"github.com/friendserp/custom-clearance/internal/domain/clearance"
)

func TestMirrorPaymentStatus(t *testing.T) {
	tests := []struct {
		invoiceStatus billing.InvoiceStatus
		want          clearance.PaymentStatus
	}{
		{billing.InvoiceStatusPaid, clearance.PaymentStatusPaid},
		{billing.InvoiceStatusPartlyPaid, clearance.PaymentStatusPartiallyPaid},
		{billing.InvoiceStatusPartlyPaidDiscounted, clearance.PaymentStatusPartiallyPaid},
		{billing.InvoiceStatusUnpaid, clearance.PaymentStatusPending},
		{billing.InvoiceStatusOverdue, clearance.PaymentStatusPending},
		{billing.InvoiceStatusDraft, clearance.PaymentStatusPending},
		{billing.InvoiceStatusCreditNoteIssued, clearance.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.invoiceStatus), func(t *testing.T) {
			assert.Equal(t, tt.want, MirrorPaymentStatus(tt.invoiceStatus))
		})
	}
}

func makeLinkedInvoice(t *testing.T, clearanceID uuid.UUID) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice("INV-2026-00001", uuid.New(), []billing.InvoiceItem{
		{ItemCode: ServiceItemCode, Qty: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1500)},
	})
	require.NoError(t, err)
	inv.LinkClearance(clearanceID)
	require.NoError(t, inv.Submit())
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceStatusChangedHandler(t *testing.T) {
	t.Run("paid invoice stamps the payment date", func(t *testing.T) {
		repo := new(MockClearanceRepository)
		handler := NewInvoiceStatusChangedHandler(repo, zap.NewNop())

		clearanceID := uuid.New()
		inv := makeLinkedInvoice(t, clearanceID)
		require.NoError(t, inv.SetStatus(billing.InvoiceStatusPaid))
		event := inv.GetDomainEvents()[0].(*billing.InvoiceStatusChangedEvent)

		repo.On("UpdatePaymentStatus", mock.Anything, clearanceID, clearance.PaymentStatusPaid, mock.MatchedBy(func(d *time.Time) bool {
			return d != nil
		})).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertExpectations(t)
	})

	t.Run("partly paid mirrors without a date", func(t *testing.T) {
		repo := new(MockClearanceRepository)
		handler := NewInvoiceStatusChangedHandler(repo, zap.NewNop())

		clearanceID := uuid.New()
		inv := makeLinkedInvoice(t, clearanceID)
		require.NoError(t, inv.SetStatus(billing.InvoiceStatusPartlyPaid))
		event := inv.GetDomainEvents()[0].(*billing.InvoiceStatusChangedEvent)

		repo.On("UpdatePaymentStatus", mock.Anything, clearanceID, clearance.PaymentStatusPartiallyPaid, (*time.Time)(nil)).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertExpectations(t)
	})

	t.Run("invoice without a clearance link is ignored", func(t *testing.T) {
		repo := new(MockClearanceRepository)
		handler := NewInvoiceStatusChangedHandler(repo, zap.NewNop())

		inv, err := billing.NewInvoice("INV-2026-00002", uuid.New(), []billing.InvoiceItem{
			{ItemCode: ServiceItemCode, Qty: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100)},
		})
		require.NoError(t, err)
		require.NoError(t, inv.Submit())
		event := inv.GetDomainEvents()[0].(*billing.InvoiceStatusChangedEvent)

		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInvoiceCancelledHandler(t *testing.T) {
	t.Run("unlinks and rolls a risk result back to in review", func(t *testing.T) {
		repo := new(MockClearanceRepository)
		handler := NewInvoiceCancelledHandler(repo, zap.NewNop())

		c := makeTestClearance(t, clearance.StatusGreen, seaDocs)
		inv := makeLinkedInvoice(t, c.ID)
		require.NoError(t, inv.Cancel())
		event := inv.GetDomainEvents()[0].(*billing.InvoiceCancelledEvent)

		repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("UnlinkInvoice", mock.Anything, c.ID).Return(nil)
		repo.On("UpdateStatus", mock.Anything, c.ID, clearance.StatusInReview).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertExpectations(t)
	})

	t.Run("non-risk status is left alone after unlink", func(t *testing.T) {
		repo := new(MockClearanceRepository)
		handler := NewInvoiceCancelledHandler(repo, zap.NewNop())

		c := makeTestClearance(t, clearance.StatusRiskAnalysis, seaDocs)
		inv := makeLinkedInvoice(t, c.ID)
		require.NoError(t, inv.Cancel())
		event := inv.GetDomainEvents()[0].(*billing.InvoiceCancelledEvent)

		repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("UnlinkInvoice", mock.Anything, c.ID).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing clearance is logged, not an error", func(t *testing.T) {
		repo := new(MockClearanceRepository)
		handler := NewInvoiceCancelledHandler(repo, zap.NewNop())

		clearanceID := uuid.New()
		inv := makeLinkedInvoice(t, clearanceID)
		require.NoError(t, inv.Cancel())
		event := inv.GetDomainEvents()[0].(*billing.InvoiceCancelledEvent)

		repo.On("FindByID", mock.Anything, clearanceID).Return(nil, nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertNotCalled(t, "UnlinkInvoice", mock.Anything, mock.Anything)
	})
}
