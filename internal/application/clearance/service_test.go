package clearance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/billing"
	"github.com/friendserp/custom-clearance/internal/domain/clearance"
	"github.com/friendserp/custom-clearance/internal/domain/comment"
	"github.com/friendserp/custom-clearance/internal/domain/identity"
	"github.com/friendserp/custom-clearance/internal/domain/partner"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/friendserp/custom-clearance/internal/domain/task"
)

type serviceFixture struct {
	svc              *ClearanceService
	clearanceRepo    *MockClearanceRepository
	templateRepo     *MockTemplateRepository
	invoiceRepo      *MockInvoiceRepository
	customerRepo     *MockCustomerRepository
	commentRepo      *MockCommentRepository
	todoRepo         *MockTodoRepository
	notificationRepo *MockNotificationLogRepository
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		clearanceRepo:    new(MockClearanceRepository),
		templateRepo:     new(MockTemplateRepository),
		invoiceRepo:      new(MockInvoiceRepository),
		customerRepo:     new(MockCustomerRepository),
		commentRepo:      new(MockCommentRepository),
		todoRepo:         new(MockTodoRepository),
		notificationRepo: new(MockNotificationLogRepository),
	}
	f.svc = NewClearanceService(
		f.clearanceRepo,
		f.templateRepo,
		f.invoiceRepo,
		f.customerRepo,
		f.commentRepo,
		f.todoRepo,
		f.notificationRepo,
		NewAccessResolver(f.customerRepo),
		nil,
		zap.NewNop(),
	)
	return f
}

var (
	staffPrincipal    = Principal{UserID: uuid.New(), Roles: []identity.Role{identity.RoleClearanceOfficer}}
	adminPrincipal    = Principal{UserID: uuid.New(), Roles: []identity.Role{identity.RoleSystemManager}}
	customerPrincipal = Principal{UserID: uuid.New(), Roles: []identity.Role{identity.RoleCustomer}}
)

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func makeTestClearance(t *testing.T, status clearance.Status, docs []clearance.TemplateDocument) *clearance.Clearance {
	t.Helper()
	c, err := clearance.NewClearance("CC-2026-00001", uuid.New(), clearance.ShippingTypeSea, docs)
	require.NoError(t, err)
	c.Status = status
	c.ClearDomainEvents()
	return c
}

func ownedCustomer(c *clearance.Clearance, userID uuid.UUID) *partner.Customer {
	cust := &partner.Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Name: "Acme Trading"}
	cust.ID = c.CustomerID
	cust.GrantPortalAccess(userID)
	return cust
}

var seaDocs = []clearance.TemplateDocument{
	{ID: uuid.New(), DocumentName: "Bill of Lading", IsRequired: true},
	{ID: uuid.New(), DocumentName: "Commercial Invoice", IsRequired: true},
	{ID: uuid.New(), DocumentName: "Insurance Certificate", IsRequired: false},
}

func TestCreateClearance(t *testing.T) {
	t.Run("seeds checklist from the shipping type template", func(t *testing.T) {
		f := newServiceFixture()
		tmpl, err := clearance.NewTemplate("Sea Shipment Documents", clearance.ShippingTypeSea, "", seaDocs)
		require.NoError(t, err)

		f.templateRepo.On("FindByShippingType", mock.Anything, clearance.ShippingTypeSea).Return(tmpl, nil)
		f.clearanceRepo.On("GenerateCaseNumber", mock.Anything).Return("CC-2026-00042", nil)
		f.clearanceRepo.On("Save", mock.Anything, mock.AnythingOfType("*clearance.Clearance")).Return(nil)

		resp, err := f.svc.CreateClearance(context.Background(), staffPrincipal, CreateClearanceRequest{
			CustomerID:   uuid.New(),
			ShippingType: "Sea",
		})
		require.NoError(t, err)

		assert.Equal(t, "CC-2026-00042", resp.CaseNumber)
		assert.Equal(t, clearance.StatusDocumentSubmitting.String(), resp.Status)
		require.Len(t, resp.RequiredDocuments, 3)
		for _, d := range resp.RequiredDocuments {
			assert.Equal(t, string(clearance.DocumentStatusInReview), d.Status)
		}
		f.clearanceRepo.AssertExpectations(t)
	})

	t.Run("customers cannot open cases", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.CreateClearance(context.Background(), customerPrincipal, CreateClearanceRequest{
			CustomerID:   uuid.New(),
			ShippingType: "Air",
		})
		assertDomainCode(t, err, "PERMISSION_DENIED")
		f.clearanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing template is a hard error", func(t *testing.T) {
		f := newServiceFixture()
		f.templateRepo.On("FindByShippingType", mock.Anything, clearance.ShippingTypeAir).Return(nil, nil)

		_, err := f.svc.CreateClearance(context.Background(), staffPrincipal, CreateClearanceRequest{
			CustomerID:   uuid.New(),
			ShippingType: "Air",
		})
		assertDomainCode(t, err, "MISSING_DEPENDENCY")
	})
}

func TestGetClearance_Access(t *testing.T) {
	t.Run("owning customer may read via portal link", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(nil, nil)
		f.customerRepo.On("FindByPortalUser", mock.Anything, customerPrincipal.UserID).Return(ownedCustomer(c, customerPrincipal.UserID), nil)

		resp, err := f.svc.GetClearance(context.Background(), customerPrincipal, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.CaseNumber, resp.CaseNumber)
	})

	t.Run("unrelated customer is rejected", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		other := &partner.Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Name: "Other Co"}
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(other, nil)

		_, err := f.svc.GetClearance(context.Background(), customerPrincipal, c.ID)
		assertDomainCode(t, err, "PERMISSION_DENIED")
	})

	t.Run("missing case", func(t *testing.T) {
		f := newServiceFixture()
		id := uuid.New()
		f.clearanceRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

		_, err := f.svc.GetClearance(context.Background(), staffPrincipal, id)
		assertDomainCode(t, err, "NOT_FOUND")
	})
}

func TestListClearances_CustomerScoping(t *testing.T) {
	t.Run("customer list is scoped to the owning customer", func(t *testing.T) {
		f := newServiceFixture()
		cust := &partner.Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Name: "Acme Trading"}
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(cust, nil)
		f.clearanceRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(filter clearance.Filter) bool {
			return filter.CustomerID != nil && *filter.CustomerID == cust.ID
		})).Return([]clearance.Clearance{}, int64(0), nil)

		_, _, err := f.svc.ListClearances(context.Background(), customerPrincipal, ClearanceListFilter{})
		require.NoError(t, err)
		f.clearanceRepo.AssertExpectations(t)
	})

	t.Run("unlinked user sees nothing", func(t *testing.T) {
		f := newServiceFixture()
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(nil, nil)
		f.customerRepo.On("FindByPortalUser", mock.Anything, customerPrincipal.UserID).Return(nil, nil)

		resp, total, err := f.svc.ListClearances(context.Background(), customerPrincipal, ClearanceListFilter{})
		require.NoError(t, err)
		assert.Empty(t, resp)
		assert.Zero(t, total)
		f.clearanceRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})
}

func TestUpdateClearanceStatus(t *testing.T) {
	t.Run("legal transition is saved", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := f.svc.UpdateClearanceStatus(context.Background(), staffPrincipal, c.ID, "Risk Analysis", "high value cargo", nil)
		require.NoError(t, err)
		assert.Equal(t, clearance.StatusRiskAnalysis.String(), resp.Status)
		assert.Equal(t, "high value cargo", resp.RiskStatusComment)
	})

	t.Run("additional payment amount is applied with the status", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		extra := decimal.NewFromInt(750)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := f.svc.UpdateClearanceStatus(context.Background(), staffPrincipal, c.ID, "Risk Analysis", "", &extra)
		require.NoError(t, err)
		assert.True(t, resp.AdditionalPaymentAmount.Equal(extra))
	})

	t.Run("skipping risk analysis is rejected", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		_, err := f.svc.UpdateClearanceStatus(context.Background(), staffPrincipal, c.ID, "Cleared", "", nil)
		assertDomainCode(t, err, "INVALID_TRANSITION")
		f.clearanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("checklist promotion cannot whitewash an illegal transition", func(t *testing.T) {
		// All mandatory docs accepted so a refresh would promote to In
		// Review, but the guard runs against the persisted status first.
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusDocumentSubmitting, seaDocs)
		for i := range c.RequiredDocuments {
			c.RequiredDocuments[i].Status = clearance.DocumentStatusAccepted
		}
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		_, err := f.svc.UpdateClearanceStatus(context.Background(), staffPrincipal, c.ID, "Risk Analysis", "", nil)
		assertDomainCode(t, err, "INVALID_TRANSITION")
		f.clearanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("customers cannot change status", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.UpdateClearanceStatus(context.Background(), customerPrincipal, uuid.New(), "In Review", "", nil)
		assertDomainCode(t, err, "PERMISSION_DENIED")
	})
}

func TestUpdateDocumentStatus(t *testing.T) {
	t.Run("accepting the last mandatory document promotes the case", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusDocumentSubmitting, seaDocs)
		c.RequiredDocuments[0].Status = clearance.DocumentStatusAccepted

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)
		f.clearanceRepo.On("UpdateStatus", mock.Anything, c.ID, clearance.StatusInReview).Return(nil)

		resp, err := f.svc.UpdateDocumentStatus(context.Background(), staffPrincipal, c.ID, c.RequiredDocuments[1].ID, "Accepted", "")
		require.NoError(t, err)
		assert.Equal(t, clearance.StatusInReview.String(), resp.Status)
		f.clearanceRepo.AssertExpectations(t)
	})

	t.Run("declining keeps the case in document submitting", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusDocumentSubmitting, seaDocs)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := f.svc.UpdateDocumentStatus(context.Background(), staffPrincipal, c.ID, c.RequiredDocuments[0].ID, "Declined", "blurry scan")
		require.NoError(t, err)
		assert.Equal(t, clearance.StatusDocumentSubmitting.String(), resp.Status)
		assert.Equal(t, "blurry scan", resp.RequiredDocuments[0].Reason)
		f.clearanceRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("linked customer may judge rows on their own case", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusDocumentSubmitting, seaDocs)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(ownedCustomer(c, customerPrincipal.UserID), nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := f.svc.UpdateDocumentStatus(context.Background(), customerPrincipal, c.ID, c.RequiredDocuments[0].ID, "Accepted", "")
		require.NoError(t, err)
		assert.Equal(t, string(clearance.DocumentStatusAccepted), resp.RequiredDocuments[0].Status)
	})

	t.Run("unrelated customer is rejected", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusDocumentSubmitting, seaDocs)
		other := &partner.Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Name: "Other Co"}
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(other, nil)

		_, err := f.svc.UpdateDocumentStatus(context.Background(), customerPrincipal, c.ID, c.RequiredDocuments[0].ID, "Accepted", "")
		assertDomainCode(t, err, "PERMISSION_DENIED")
		f.clearanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUpdateDocumentAttachment(t *testing.T) {
	t.Run("reupload resets a declined row", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusDocumentSubmitting, seaDocs)
		c.RequiredDocuments[0].Status = clearance.DocumentStatusDeclined
		c.RequiredDocuments[0].Reason = "blurry scan"

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(ownedCustomer(c, customerPrincipal.UserID), nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := f.svc.UpdateDocumentAttachment(context.Background(), customerPrincipal, c.ID, c.RequiredDocuments[0].ID, "s3://docs/bol-v2.pdf", true)
		require.NoError(t, err)
		assert.Equal(t, string(clearance.DocumentStatusInReview), resp.RequiredDocuments[0].Status)
		assert.Empty(t, resp.RequiredDocuments[0].Reason)
		assert.Equal(t, "s3://docs/bol-v2.pdf", resp.RequiredDocuments[0].Attachment)
	})

	t.Run("staff without the admin role cannot overwrite uploads", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusDocumentSubmitting, seaDocs)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, staffPrincipal.UserID).Return(nil, nil)
		f.customerRepo.On("FindByPortalUser", mock.Anything, staffPrincipal.UserID).Return(nil, nil)

		_, err := f.svc.UpdateDocumentAttachment(context.Background(), staffPrincipal, c.ID, c.RequiredDocuments[0].ID, "s3://docs/x.pdf", false)
		assertDomainCode(t, err, "PERMISSION_DENIED")
		f.clearanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown row", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusDocumentSubmitting, seaDocs)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		_, err := f.svc.UpdateDocumentAttachment(context.Background(), adminPrincipal, c.ID, uuid.New(), "s3://docs/x.pdf", false)
		assertDomainCode(t, err, "NOT_FOUND")
	})
}

func TestCreateInvoiceFromClearance(t *testing.T) {
	t.Run("issues a draft invoice and links it back", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		c.Amount = decimal.NewFromInt(1500)

		var savedInvoice *billing.Invoice
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.invoiceRepo.On("GenerateInvoiceNumber", mock.Anything).Return("INV-2026-00007", nil)
		f.invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Run(func(args mock.Arguments) {
			savedInvoice = args.Get(1).(*billing.Invoice)
		}).Return(nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := f.svc.CreateInvoiceFromClearance(context.Background(), staffPrincipal, c.ID)
		require.NoError(t, err)

		require.NotNil(t, savedInvoice)
		assert.Equal(t, billing.InvoiceStatusDraft, savedInvoice.Status, "invoice stays unsubmitted")
		require.Len(t, savedInvoice.Items, 1)
		assert.Equal(t, ServiceItemCode, savedInvoice.Items[0].ItemCode)
		assert.True(t, savedInvoice.TotalAmount.Equal(decimal.NewFromInt(1500)))
		require.NotNil(t, savedInvoice.ClearanceID)
		assert.Equal(t, c.ID, *savedInvoice.ClearanceID)
		require.NotNil(t, resp.InvoiceID)
		assert.Equal(t, savedInvoice.ID, *resp.InvoiceID)
	})

	t.Run("second invoice for the same case is rejected", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		existing := uuid.New()
		c.InvoiceID = &existing

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.invoiceRepo.On("GenerateInvoiceNumber", mock.Anything).Return("INV-2026-00008", nil)

		_, err := f.svc.CreateInvoiceFromClearance(context.Background(), staffPrincipal, c.ID)
		assertDomainCode(t, err, "DUPLICATE_OPERATION")
		assert.Equal(t, existing, *c.InvoiceID, "original link untouched")
		f.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.clearanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSavePaymentInfo(t *testing.T) {
	amount := decimal.NewFromInt(2500)

	t.Run("publishes details and notifies the customer", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusCleared, seaDocs)
		userID := uuid.New()

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)
		f.customerRepo.On("FindByID", mock.Anything, c.CustomerID).Return(ownedCustomer(c, userID), nil)
		f.notificationRepo.On("Save", mock.Anything, mock.MatchedBy(func(log *task.NotificationLog) bool {
			return log.ForUserID == userID
		})).Return(nil)

		resp, err := f.svc.SavePaymentInfo(context.Background(), staffPrincipal, c.ID, SavePaymentInfoRequest{
			Installment:   "first",
			Amount:        &amount,
			Branch:        "Main Branch",
			AccountNumber: "0012345678",
		})
		require.NoError(t, err)

		assert.True(t, resp.Amount.Equal(amount))
		require.Len(t, resp.Payments, 1)
		assert.Equal(t, "First Payment", resp.Payments[0].PaymentType)
		assert.True(t, resp.Payments[0].Amount.Equal(amount))
		f.notificationRepo.AssertExpectations(t)
	})

	t.Run("re-saving an installment updates its row in place", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusCleared, seaDocs)
		userID := uuid.New()

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)
		f.customerRepo.On("FindByID", mock.Anything, c.CustomerID).Return(ownedCustomer(c, userID), nil)
		f.notificationRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.SavePaymentInfo(context.Background(), staffPrincipal, c.ID, SavePaymentInfoRequest{
			Installment: "first",
			Amount:      &amount,
			Branch:      "Main Branch",
		})
		require.NoError(t, err)

		corrected := decimal.NewFromInt(2700)
		resp, err := f.svc.SavePaymentInfo(context.Background(), staffPrincipal, c.ID, SavePaymentInfoRequest{
			Installment: "first",
			Amount:      &corrected,
		})
		require.NoError(t, err)

		require.Len(t, resp.Payments, 1)
		assert.True(t, resp.Payments[0].Amount.Equal(corrected))
		assert.Equal(t, "Main Branch", resp.Payments[0].Branch)
	})

	t.Run("notification failure does not fail the save", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusCleared, seaDocs)

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)
		f.customerRepo.On("FindByID", mock.Anything, c.CustomerID).Return(nil, errors.New("connection refused"))

		_, err := f.svc.SavePaymentInfo(context.Background(), staffPrincipal, c.ID, SavePaymentInfoRequest{
			Installment: "second",
			Amount:      &amount,
		})
		require.NoError(t, err)
	})

	t.Run("staff only", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.SavePaymentInfo(context.Background(), customerPrincipal, uuid.New(), SavePaymentInfoRequest{Installment: "first"})
		assertDomainCode(t, err, "PERMISSION_DENIED")
	})
}

func TestSendPaymentNotification(t *testing.T) {
	t.Run("creates a high priority todo for the customer user", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusCleared, seaDocs)
		userID := uuid.New()

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByID", mock.Anything, c.CustomerID).Return(ownedCustomer(c, userID), nil)
		f.todoRepo.On("Save", mock.Anything, mock.MatchedBy(func(todo *task.Todo) bool {
			return todo.AssignedToID == userID &&
				todo.Priority == task.TodoPriorityHigh &&
				todo.Status == task.TodoStatusOpen
		})).Return(nil)

		err := f.svc.SendPaymentNotification(context.Background(), staffPrincipal, c.ID, SendPaymentNotificationRequest{
			Installment: "first",
			Amount:      decimal.NewFromInt(2500),
		})
		require.NoError(t, err)
		f.todoRepo.AssertExpectations(t)
	})

	t.Run("the todo names the payment type, amount and banking details", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusCleared, seaDocs)
		userID := uuid.New()

		var saved *task.Todo
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByID", mock.Anything, c.CustomerID).Return(ownedCustomer(c, userID), nil)
		f.todoRepo.On("Save", mock.Anything, mock.AnythingOfType("*task.Todo")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*task.Todo)
		}).Return(nil)

		err := f.svc.SendPaymentNotification(context.Background(), staffPrincipal, c.ID, SendPaymentNotificationRequest{
			Installment:   "second",
			Amount:        decimal.NewFromInt(750),
			Branch:        "Main Branch",
			AccountNumber: "0012345678",
			CustomIDCode:  "CID-42",
		})
		require.NoError(t, err)

		require.NotNil(t, saved)
		assert.Contains(t, saved.Description, c.CaseNumber)
		assert.Contains(t, saved.Description, "Payment Type: Additional Payment")
		assert.Contains(t, saved.Description, "Amount to Pay: 750.00")
		assert.Contains(t, saved.Description, "Bank Branch: Main Branch")
		assert.Contains(t, saved.Description, "Account Number: 0012345678")
		assert.Contains(t, saved.Description, "Custom ID Code: CID-42")
	})

	t.Run("customer without a linked user is a hard error", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusCleared, seaDocs)
		unlinked := &partner.Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Name: "Acme Trading"}
		unlinked.ID = c.CustomerID

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByID", mock.Anything, c.CustomerID).Return(unlinked, nil)

		err := f.svc.SendPaymentNotification(context.Background(), staffPrincipal, c.ID, SendPaymentNotificationRequest{
			Installment: "second",
			Amount:      decimal.NewFromInt(500),
		})
		assertDomainCode(t, err, "MISSING_DEPENDENCY")
		f.todoRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown installment", func(t *testing.T) {
		f := newServiceFixture()
		err := f.svc.SendPaymentNotification(context.Background(), staffPrincipal, uuid.New(), SendPaymentNotificationRequest{
			Installment: "third",
			Amount:      decimal.NewFromInt(500),
		})
		assertDomainCode(t, err, "INVALID_INPUT")
	})
}

func TestUpdatePaymentReceipt(t *testing.T) {
	f := newServiceFixture()
	c := makeTestClearance(t, clearance.StatusCleared, seaDocs)
	entry, err := c.UpsertPaymentEntry(clearance.InstallmentFirst, decimal.NewFromInt(2500), "", "", "")
	require.NoError(t, err)

	f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(ownedCustomer(c, customerPrincipal.UserID), nil)
	f.clearanceRepo.On("Save", mock.Anything, c).Return(nil)

	resp, err := f.svc.UpdatePaymentReceipt(context.Background(), customerPrincipal, c.ID, entry.ID, "s3://receipts/first.pdf")
	require.NoError(t, err)
	assert.Equal(t, "s3://receipts/first.pdf", resp.Payments[0].Attachment)
}

func TestComments(t *testing.T) {
	t.Run("owner adds and reads the thread", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		cust := ownedCustomer(c, customerPrincipal.UserID)

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(cust, nil)
		f.commentRepo.On("Save", mock.Anything, mock.AnythingOfType("*comment.Comment")).Return(nil)

		added, err := f.svc.AddComment(context.Background(), customerPrincipal, c.ID, "Jane Doe", "When will the inspection happen?", nil)
		require.NoError(t, err)
		assert.Equal(t, customerPrincipal.UserID, added.AuthorID)
		assert.True(t, added.IsCustomer)

		f.commentRepo.On("FindByClearanceID", mock.Anything, c.ID).Return([]*comment.Comment{
			{BaseEntity: shared.NewBaseEntity(), ClearanceID: c.ID, AuthorID: added.AuthorID, AuthorName: "Jane Doe", Content: added.Content},
		}, nil)

		thread, err := f.svc.GetComments(context.Background(), customerPrincipal, c.ID)
		require.NoError(t, err)
		require.Len(t, thread, 1)
		assert.Equal(t, "When will the inspection happen?", thread[0].Content)
	})

	t.Run("rows flag which authors are the linked customer", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		cust := ownedCustomer(c, customerPrincipal.UserID)
		officerID := uuid.New()

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, customerPrincipal.UserID).Return(cust, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, officerID).Return(nil, nil)
		f.customerRepo.On("FindByPortalUser", mock.Anything, officerID).Return(nil, nil)
		f.commentRepo.On("FindByClearanceID", mock.Anything, c.ID).Return([]*comment.Comment{
			{BaseEntity: shared.NewBaseEntity(), ClearanceID: c.ID, AuthorID: customerPrincipal.UserID, AuthorName: "Jane Doe", Content: "Any update?"},
			{BaseEntity: shared.NewBaseEntity(), ClearanceID: c.ID, AuthorID: officerID, AuthorName: "Officer", Content: "Inspection booked."},
		}, nil)

		thread, err := f.svc.GetComments(context.Background(), customerPrincipal, c.ID)
		require.NoError(t, err)
		require.Len(t, thread, 2)
		assert.True(t, thread[0].IsCustomer)
		assert.False(t, thread[1].IsCustomer)
	})

	t.Run("payment amount is appended to the comment body", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.commentRepo.On("Save", mock.Anything, mock.AnythingOfType("*comment.Comment")).Return(nil)

		amount := decimal.NewFromInt(1200)
		added, err := f.svc.AddComment(context.Background(), adminPrincipal, c.ID, "Manager", "Extra duty assessed.", &amount)
		require.NoError(t, err)
		assert.Equal(t, "Extra duty assessed.\n\nAdditional Payment Required: 1200.00", added.Content)
	})

	t.Run("staff without the admin role cannot join the thread", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)

		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.customerRepo.On("FindByContactUser", mock.Anything, staffPrincipal.UserID).Return(nil, nil)
		f.customerRepo.On("FindByPortalUser", mock.Anything, staffPrincipal.UserID).Return(nil, nil)

		_, err := f.svc.AddComment(context.Background(), staffPrincipal, c.ID, "Officer", "Hello", nil)
		assertDomainCode(t, err, "PERMISSION_DENIED")
		f.commentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		f := newServiceFixture()
		c := makeTestClearance(t, clearance.StatusInReview, seaDocs)
		f.clearanceRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		_, err := f.svc.AddComment(context.Background(), adminPrincipal, c.ID, "Manager", "   ", nil)
		assert.Error(t, err)
	})
}
