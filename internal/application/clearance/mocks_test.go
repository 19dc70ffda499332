package clearance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/friendserp/custom-clearance/internal/domain/billing"
	"github.com/friendserp/custom-clearance/internal/domain/clearance"
	"github.com/friendserp/custom-clearance/internal/domain/comment"
	"github.com/friendserp/custom-clearance/internal/domain/partner"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/friendserp/custom-clearance/internal/domain/task"
)

// MockClearanceRepository is a mock implementation of clearance.Repository
type MockClearanceRepository struct {
	mock.Mock
}

func (m *MockClearanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*clearance.Clearance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clearance.Clearance), args.Error(1)
}

func (m *MockClearanceRepository) FindByCaseNumber(ctx context.Context, caseNumber string) (*clearance.Clearance, error) {
	args := m.Called(ctx, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clearance.Clearance), args.Error(1)
}

func (m *MockClearanceRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*clearance.Clearance, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clearance.Clearance), args.Error(1)
}

func (m *MockClearanceRepository) FindAll(ctx context.Context, filter clearance.Filter) ([]clearance.Clearance, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]clearance.Clearance), args.Get(1).(int64), args.Error(2)
}

func (m *MockClearanceRepository) Save(ctx context.Context, c *clearance.Clearance) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClearanceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status clearance.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockClearanceRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status clearance.PaymentStatus, paymentDate *time.Time) error {
	args := m.Called(ctx, id, status, paymentDate)
	return args.Error(0)
}

func (m *MockClearanceRepository) UnlinkInvoice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClearanceRepository) GenerateCaseNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockTemplateRepository is a mock implementation of clearance.TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*clearance.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clearance.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByShippingType(ctx context.Context, shippingType clearance.ShippingType) (*clearance.Template, error) {
	args := m.Called(ctx, shippingType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clearance.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context) ([]clearance.Template, error) {
	args := m.Called(ctx)
	return args.Get(0).([]clearance.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, t *clearance.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

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

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByContactUser(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPortalUser(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockCommentRepository is a mock implementation of comment.Repository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FindByClearanceID(ctx context.Context, clearanceID uuid.UUID) ([]*comment.Comment, error) {
	args := m.Called(ctx, clearanceID)
	return args.Get(0).([]*comment.Comment), args.Error(1)
}

func (m *MockCommentRepository) Save(ctx context.Context, c *comment.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockTodoRepository is a mock implementation of task.TodoRepository
type MockTodoRepository struct {
	mock.Mock
}

func (m *MockTodoRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Todo), args.Error(1)
}

func (m *MockTodoRepository) FindByAssignee(ctx context.Context, userID uuid.UUID, status task.TodoStatus) ([]*task.Todo, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]*task.Todo), args.Error(1)
}

func (m *MockTodoRepository) Save(ctx context.Context, todo *task.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

// MockNotificationLogRepository is a mock implementation of task.NotificationLogRepository
type MockNotificationLogRepository struct {
	mock.Mock
}

func (m *MockNotificationLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.NotificationLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.NotificationLog), args.Error(1)
}

func (m *MockNotificationLogRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*task.NotificationLog, error) {
	args := m.Called(ctx, userID, unreadOnly)
	return args.Get(0).([]*task.NotificationLog), args.Error(1)
}

func (m *MockNotificationLogRepository) Save(ctx context.Context, log *task.NotificationLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
