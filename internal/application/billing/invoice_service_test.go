package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/billing"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByClearanceID(ctx context.Context, clearanceID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, clearanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func makeInvoice(t *testing.T) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice("INV-2026-00001", uuid.New(), []billing.InvoiceItem{
		{ItemCode: "Custom Clearance Service", Qty: decimal.NewFromInt(1), Rate: decimal.NewFromInt(900)},
	})
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceService_SubmitInvoice(t *testing.T) {
	repo := new(MockInvoiceRepository)
	publisher := new(MockEventPublisher)
	svc := NewInvoiceService(repo, publisher, zap.NewNop())

	inv := makeInvoice(t)
	repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	repo.On("Save", mock.Anything, inv).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == billing.EventTypeInvoiceStatusChanged
	})).Return(nil)

	resp, err := svc.SubmitInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusUnpaid.String(), resp.Status)
	publisher.AssertExpectations(t)
	assert.Empty(t, inv.GetDomainEvents(), "events cleared after publishing")
}

func TestInvoiceService_SetInvoiceStatus(t *testing.T) {
	t.Run("publishes the status change", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		publisher := new(MockEventPublisher)
		svc := NewInvoiceService(repo, publisher, zap.NewNop())

		inv := makeInvoice(t)
		require.NoError(t, inv.Submit())
		inv.ClearDomainEvents()

		repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		repo.On("Save", mock.Anything, inv).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.SetInvoiceStatus(context.Background(), inv.ID, "Paid")
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid.String(), resp.Status)
	})

	t.Run("unknown status rejected before save", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, nil, zap.NewNop())

		inv := makeInvoice(t)
		repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

		_, err := svc.SetInvoiceStatus(context.Background(), inv.ID, "Nearly Paid")
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_CancelInvoice(t *testing.T) {
	repo := new(MockInvoiceRepository)
	publisher := new(MockEventPublisher)
	svc := NewInvoiceService(repo, publisher, zap.NewNop())

	inv := makeInvoice(t)
	inv.LinkClearance(uuid.New())

	repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	repo.On("Save", mock.Anything, inv).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == billing.EventTypeInvoiceCancelled
	})).Return(nil)

	resp, err := svc.CancelInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusCancelled.String(), resp.Status)
	publisher.AssertExpectations(t)
}

func TestInvoiceService_GetInvoice_NotFound(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo, nil, zap.NewNop())

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := svc.GetInvoice(context.Background(), id)
	assert.Error(t, err)
}
