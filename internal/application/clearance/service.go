package clearance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/billing"
	"github.com/friendserp/custom-clearance/internal/domain/clearance"
	"github.com/friendserp/custom-clearance/internal/domain/comment"
	"github.com/friendserp/custom-clearance/internal/domain/partner"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/friendserp/custom-clearance/internal/domain/task"
)

// ServiceItemCode is the billing item invoices for clearance services are
// issued against.
const ServiceItemCode = "Custom Clearance Service"

// ClearanceService provides the application-level clearance operations.
// Mutations fall into two classes: caller-initiated changes go through the
// aggregate and the guarded Save, while derived updates (checklist
// promotion outside a full save, payment mirroring) use the repository's
// targeted system writes.
type ClearanceService struct {
	clearanceRepo    clearance.Repository
	templateRepo     clearance.TemplateRepository
	invoiceRepo      billing.InvoiceRepository
	customerRepo     partner.CustomerRepository
	commentRepo      comment.Repository
	todoRepo         task.TodoRepository
	notificationRepo task.NotificationLogRepository
	access           AccessResolver
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewClearanceService creates a new ClearanceService
func NewClearanceService(
	clearanceRepo clearance.Repository,
	templateRepo clearance.TemplateRepository,
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	commentRepo comment.Repository,
	todoRepo task.TodoRepository,
	notificationRepo task.NotificationLogRepository,
	access AccessResolver,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ClearanceService {
	return &ClearanceService{
		clearanceRepo:    clearanceRepo,
		templateRepo:     templateRepo,
		invoiceRepo:      invoiceRepo,
		customerRepo:     customerRepo,
		commentRepo:      commentRepo,
		todoRepo:         todoRepo,
		notificationRepo: notificationRepo,
		access:           access,
		eventPublisher:   eventPublisher,
		logger:           logger,
	}
}

// ===================== Requests and responses =====================

// CreateClearanceRequest carries the input for opening a new case
type CreateClearanceRequest struct {
	CustomerID   uuid.UUID `json:"customer_id" binding:"required"`
	ShippingType string    `json:"shipping_type" binding:"required,oneof=Sea Air"`
}

// DocumentRequirementResponse represents one checklist row in API responses
type DocumentRequirementResponse struct {
	ID           uuid.UUID `json:"id"`
	DocumentName string    `json:"document_name"`
	IsRequired   bool      `json:"is_required"`
	HasSubItems  bool      `json:"has_sub_items"`
	SubItems     string    `json:"sub_items,omitempty"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	Attachment   string    `json:"attachment,omitempty"`
}

// PaymentEntryResponse represents one payment record in API responses
type PaymentEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	PaymentType   string          `json:"payment_type"`
	Amount        decimal.Decimal `json:"amount"`
	Branch        string          `json:"branch,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
	CustomIDCode  string          `json:"custom_id_code,omitempty"`
	Attachment    string          `json:"attachment,omitempty"`
}

// ClearanceResponse represents a clearance case in API responses
type ClearanceResponse struct {
	ID                      uuid.UUID                     `json:"id"`
	CaseNumber              string                        `json:"case_number"`
	CustomerID              uuid.UUID                     `json:"customer_id"`
	ShippingType            string                        `json:"shipping_type"`
	Status                  string                        `json:"status"`
	ClearanceDate           *time.Time                    `json:"clearance_date,omitempty"`
	RiskStatusComment       string                        `json:"risk_status_comment,omitempty"`
	Amount                  decimal.Decimal               `json:"amount"`
	AdditionalPaymentAmount decimal.Decimal               `json:"additional_payment_amount"`
	InvoiceID               *uuid.UUID                    `json:"invoice_id,omitempty"`
	PaymentStatus           string                        `json:"payment_status"`
	PaymentDate             *time.Time                    `json:"payment_date,omitempty"`
	RequiredDocuments       []DocumentRequirementResponse `json:"required_documents"`
	Payments                []PaymentEntryResponse        `json:"payments"`
	CreatedAt               time.Time                     `json:"created_at"`
	UpdatedAt               time.Time                     `json:"updated_at"`
	Version                 int                           `json:"version"`
}

// ClearanceListFilter defines filtering options for list queries
type ClearanceListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CommentResponse represents one thread message in API responses. The
// IsCustomer flag is derived per row by resolving the author's linked
// customer against the case's customer; it is never stored.
type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	IsCustomer bool      `json:"is_customer"`
	CreatedAt  time.Time `json:"created_at"`
}

func toClearanceResponse(c *clearance.Clearance) *ClearanceResponse {
	resp := &ClearanceResponse{
		ID:                      c.ID,
		CaseNumber:              c.CaseNumber,
		CustomerID:              c.CustomerID,
		ShippingType:            string(c.ShippingType),
		Status:                  c.Status.String(),
		ClearanceDate:           c.ClearanceDate,
		RiskStatusComment:       c.RiskStatusComment,
		Amount:                  c.Amount,
		AdditionalPaymentAmount: c.AdditionalPaymentAmount,
		InvoiceID:               c.InvoiceID,
		PaymentStatus:           string(c.PaymentStatus),
		PaymentDate:             c.PaymentDate,
		RequiredDocuments:       make([]DocumentRequirementResponse, 0, len(c.RequiredDocuments)),
		Payments:                make([]PaymentEntryResponse, 0, len(c.Payments)),
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
		Version:                 c.Version,
	}
	for _, d := range c.RequiredDocuments {
		resp.RequiredDocuments = append(resp.RequiredDocuments, DocumentRequirementResponse{
			ID:           d.ID,
			DocumentName: d.DocumentName,
			IsRequired:   d.IsRequired,
			HasSubItems:  d.HasSubItems,
			SubItems:     d.SubItems,
			Status:       string(d.Status),
			Reason:       d.Reason,
			Attachment:   d.Attachment,
		})
	}
	for _, p := range c.Payments {
		resp.Payments = append(resp.Payments, PaymentEntryResponse{
			ID:            p.ID,
			PaymentType:   p.PaymentType,
			Amount:        p.Amount,
			Branch:        p.Branch,
			AccountNumber: p.AccountNumber,
			CustomIDCode:  p.CustomIDCode,
			Attachment:    p.Attachment,
		})
	}
	return resp
}

// ===================== Access helpers =====================

// loadForCaller fetches the clearance and verifies the principal may see
// it: staff always may, customers only for their own cases.
func (s *ClearanceService) loadForCaller(ctx context.Context, p Principal, id uuid.UUID) (*clearance.Clearance, error) {
	c, err := s.clearanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Clearance not found")
	}

	if s.access.CanManageClearances(p) {
		return c, nil
	}

	customer, err := s.access.ResolveCustomerFor(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if customer == nil || !c.IsOwnedBy(customer.ID) {
		return nil, shared.NewDomainError("PERMISSION_DENIED", "Not permitted to access this clearance")
	}
	return c, nil
}

// loadForOwner fetches the clearance for the operations only the linked
// customer or an admin may perform; ordinary staff get no bypass here.
// The returned flag reports whether the caller acted as the customer.
func (s *ClearanceService) loadForOwner(ctx context.Context, p Principal, id uuid.UUID) (*clearance.Clearance, bool, error) {
	c, err := s.clearanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if c == nil {
		return nil, false, shared.NewDomainError("NOT_FOUND", "Clearance not found")
	}

	if p.IsAdmin() {
		return c, false, nil
	}

	customer, err := s.access.ResolveCustomerFor(ctx, p.UserID)
	if err != nil {
		return nil, false, err
	}
	if customer == nil || !c.IsOwnedBy(customer.ID) {
		return nil, false, shared.NewDomainError("PERMISSION_DENIED", "Not permitted to access this clearance")
	}
	return c, true, nil
}

// requireStaff rejects callers without the clearance-management capability
func (s *ClearanceService) requireStaff(p Principal) error {
	if !s.access.CanManageClearances(p) {
		return shared.NewDomainError("PERMISSION_DENIED", "Not permitted to perform this action")
	}
	return nil
}

func (s *ClearanceService) publishEvents(ctx context.Context, agg interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}) {
	if s.eventPublisher == nil {
		return
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
	agg.ClearDomainEvents()
}

// ===================== Case lifecycle =====================

// CreateClearance opens a new case for a customer, seeding the document
// checklist from the template matching the shipping type.
func (s *ClearanceService) CreateClearance(ctx context.Context, p Principal, req CreateClearanceRequest) (*ClearanceResponse, error) {
	if err := s.requireStaff(p); err != nil {
		return nil, err
	}

	shippingType := clearance.ShippingType(req.ShippingType)
	tmpl, err := s.templateRepo.FindByShippingType(ctx, shippingType)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, shared.NewDomainError("MISSING_DEPENDENCY", fmt.Sprintf("No document template configured for %s shipments", req.ShippingType))
	}

	caseNumber, err := s.clearanceRepo.GenerateCaseNumber(ctx)
	if err != nil {
		return nil, err
	}

	c, err := clearance.NewClearance(caseNumber, req.CustomerID, shippingType, tmpl.RequiredDocuments)
	if err != nil {
		return nil, err
	}

	if err := s.clearanceRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	s.logger.Info("clearance case created",
		zap.String("case_number", c.CaseNumber),
		zap.String("customer_id", c.CustomerID.String()),
		zap.String("shipping_type", string(c.ShippingType)),
	)

	return toClearanceResponse(c), nil
}

// GetClearance returns one case, enforcing ownership for customer callers
func (s *ClearanceService) GetClearance(ctx context.Context, p Principal, id uuid.UUID) (*ClearanceResponse, error) {
	c, err := s.loadForCaller(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toClearanceResponse(c), nil
}

// ListClearances lists cases. Staff sees every case; customer callers see
// only the cases owned by the customer they act for.
func (s *ClearanceService) ListClearances(ctx context.Context, p Principal, filter ClearanceListFilter) ([]ClearanceResponse, int64, error) {
	domainFilter := clearance.Filter{}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	if filter.Status != "" {
		status := clearance.Status(filter.Status)
		domainFilter.Status = &status
	}

	if !s.access.CanManageClearances(p) {
		customer, err := s.access.ResolveCustomerFor(ctx, p.UserID)
		if err != nil {
			return nil, 0, err
		}
		if customer == nil {
			return []ClearanceResponse{}, 0, nil
		}
		domainFilter.CustomerID = &customer.ID
	}

	cases, total, err := s.clearanceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClearanceResponse, len(cases))
	for i := range cases {
		responses[i] = *toClearanceResponse(&cases[i])
	}
	return responses, total, nil
}

// GetTemplateDocuments returns the checklist definition for a shipping type
func (s *ClearanceService) GetTemplateDocuments(ctx context.Context, shippingType string) ([]DocumentRequirementResponse, error) {
	st := clearance.ShippingType(shippingType)
	if !st.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shipping type must be Sea or Air")
	}

	tmpl, err := s.templateRepo.FindByShippingType(ctx, st)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("No document template configured for %s shipments", shippingType))
	}

	docs := make([]DocumentRequirementResponse, 0, len(tmpl.RequiredDocuments))
	for _, d := range tmpl.RequiredDocuments {
		docs = append(docs, DocumentRequirementResponse{
			ID:           d.ID,
			DocumentName: d.DocumentName,
			IsRequired:   d.IsRequired,
			HasSubItems:  d.HasSubItems,
			SubItems:     d.SubItems,
		})
	}
	return docs, nil
}

// ===================== Status and checklist =====================

// UpdateClearanceStatus moves the case to a new overall status. The
// transition guard runs against the persisted status before anything else
// mutates the aggregate, so a checklist promotion in the same request can
// never legitimize an otherwise illegal transition.
func (s *ClearanceService) UpdateClearanceStatus(ctx context.Context, p Principal, id uuid.UUID, target string, riskComment string, additionalAmount *decimal.Decimal) (*ClearanceResponse, error) {
	if err := s.requireStaff(p); err != nil {
		return nil, err
	}

	c, err := s.clearanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Clearance not found")
	}

	if err := c.ChangeStatus(clearance.Status(target)); err != nil {
		return nil, err
	}
	if riskComment != "" {
		c.SetRiskStatusComment(riskComment)
	}
	if additionalAmount != nil && !additionalAmount.IsZero() {
		c.SetAdditionalPaymentAmount(*additionalAmount)
	}
	c.RefreshChecklist()

	if err := s.clearanceRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	s.logger.Info("clearance status updated",
		zap.String("case_number", c.CaseNumber),
		zap.String("status", c.Status.String()),
	)

	return toClearanceResponse(c), nil
}

// UpdateDocumentAttachment records an uploaded file on a checklist row.
// Only the linked customer or an admin may upload; a re-upload on a
// declined row resets it to In Review.
func (s *ClearanceService) UpdateDocumentAttachment(ctx context.Context, p Principal, id, rowID uuid.UUID, fileURL string, isReupload bool) (*ClearanceResponse, error) {
	c, _, err := s.loadForOwner(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := c.AttachDocument(rowID, fileURL, isReupload); err != nil {
		return nil, err
	}
	c.RefreshChecklist()

	if err := s.clearanceRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	return toClearanceResponse(c), nil
}

// UpdateDocumentStatus records a judgment on a checklist row and re-runs
// the checklist. Staff and the linked customer may both judge rows. The
// auto-promotion writes the overall status through the repository's system
// write because no caller-facing transition is involved.
func (s *ClearanceService) UpdateDocumentStatus(ctx context.Context, p Principal, id, rowID uuid.UUID, status, reason string) (*ClearanceResponse, error) {
	c, err := s.loadForCaller(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := c.JudgeDocument(rowID, clearance.DocumentStatus(status), reason); err != nil {
		return nil, err
	}
	if err := s.clearanceRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	if c.RefreshChecklist() {
		if err := s.clearanceRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
			return nil, err
		}
		s.logger.Info("checklist complete, case promoted",
			zap.String("case_number", c.CaseNumber),
			zap.String("status", c.Status.String()),
		)
	}
	s.publishEvents(ctx, c)

	return toClearanceResponse(c), nil
}

// ===================== Billing =====================

// CreateInvoiceFromClearance issues a draft invoice for the case's service
// fee and links it back. At most one invoice per case.
func (s *ClearanceService) CreateInvoiceFromClearance(ctx context.Context, p Principal, id uuid.UUID) (*ClearanceResponse, error) {
	if err := s.requireStaff(p); err != nil {
		return nil, err
	}

	c, err := s.clearanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Clearance not found")
	}

	invoiceNumber, err := s.invoiceRepo.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewInvoice(invoiceNumber, c.CustomerID, []billing.InvoiceItem{
		{
			ItemCode: ServiceItemCode,
			Qty:      decimal.NewFromInt(1),
			Rate:     c.Amount,
		},
	})
	if err != nil {
		return nil, err
	}
	inv.LinkClearance(c.ID)

	// The duplicate check happens on the aggregate before anything is
	// persisted, so a second call leaves both sides untouched.
	if err := c.LinkInvoice(inv.ID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	if err := s.clearanceRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	s.logger.Info("invoice created from clearance",
		zap.String("case_number", c.CaseNumber),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("amount", inv.TotalAmount.String()),
	)

	return toClearanceResponse(c), nil
}

// ===================== Payments =====================

// SavePaymentInfoRequest carries the banking details staff publishes for
// one installment. Zero-value fields leave the stored values untouched.
type SavePaymentInfoRequest struct {
	Installment   string           `json:"payment_type" binding:"required,oneof=first second"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Branch        string           `json:"branch,omitempty"`
	AccountNumber string           `json:"account_number,omitempty"`
	CustomIDCode  string           `json:"custom_id_code,omitempty"`
}

// SavePaymentInfo publishes banking details for an installment, keeping
// the installment's single payment record in step. The customer
// notification is best effort: a failure is logged and never fails the
// save.
func (s *ClearanceService) SavePaymentInfo(ctx context.Context, p Principal, id uuid.UUID, req SavePaymentInfoRequest) (*ClearanceResponse, error) {
	if err := s.requireStaff(p); err != nil {
		return nil, err
	}

	c, err := s.clearanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Clearance not found")
	}

	installment := clearance.PaymentInstallment(req.Installment)
	if err := c.SetPaymentInfo(installment, req.Amount, req.Branch, req.AccountNumber, req.CustomIDCode); err != nil {
		return nil, err
	}

	amount := c.Amount
	if installment == clearance.InstallmentSecond {
		amount = c.AdditionalPaymentAmount
	}
	if _, err := c.UpsertPaymentEntry(installment, amount, req.Branch, req.AccountNumber, req.CustomIDCode); err != nil {
		return nil, err
	}

	if err := s.clearanceRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	s.notifyCustomer(ctx, c, installment)

	return toClearanceResponse(c), nil
}

// notifyCustomer drops an in-app notification about new payment details.
// Errors are swallowed: the payment info save must not fail because the
// customer has no linked user or the write hiccupped.
func (s *ClearanceService) notifyCustomer(ctx context.Context, c *clearance.Clearance, installment clearance.PaymentInstallment) {
	customer, err := s.customerRepo.FindByID(ctx, c.CustomerID)
	if err != nil || customer == nil {
		s.logger.Warn("skipping payment info notification, customer unresolved",
			zap.String("case_number", c.CaseNumber),
			zap.Error(err),
		)
		return
	}

	userID, ok := customer.PrimaryUserID()
	if !ok {
		s.logger.Warn("skipping payment info notification, customer has no linked user",
			zap.String("case_number", c.CaseNumber),
		)
		return
	}

	refID := c.ID
	log, err := task.NewNotificationLog(
		userID,
		fmt.Sprintf("%s details available for clearance %s", installment.Label(), c.CaseNumber),
		fmt.Sprintf("Banking details for the %s of clearance %s have been published.", installment.Label(), c.CaseNumber),
		&refID,
	)
	if err != nil {
		s.logger.Warn("failed to build payment info notification", zap.Error(err))
		return
	}
	if err := s.notificationRepo.Save(ctx, log); err != nil {
		s.logger.Warn("failed to save payment info notification",
			zap.String("case_number", c.CaseNumber),
			zap.Error(err),
		)
	}
}

// SendPaymentNotificationRequest carries the payment details staff pushes
// to the customer as an actionable todo. The payment row id is carried for
// traceability only.
type SendPaymentNotificationRequest struct {
	Installment   string           `json:"payment_type" binding:"required,oneof=first second"`
	PaymentRowID  *uuid.UUID       `json:"payment_row_id,omitempty"`
	Amount        decimal.Decimal  `json:"amount" binding:"required"`
	Branch        string           `json:"branch,omitempty"`
	AccountNumber string           `json:"account_number,omitempty"`
	CustomIDCode  string           `json:"custom_id_code,omitempty"`
}

// paymentTodoDescription renders the todo body: payment type and amount
// always, banking details when present.
func paymentTodoDescription(caseNumber string, inst clearance.PaymentInstallment, req SendPaymentNotificationRequest) string {
	parts := []string{
		fmt.Sprintf("Please make a payment for your clearance: %s", caseNumber),
		"",
		fmt.Sprintf("Payment Type: %s", inst.Label()),
		fmt.Sprintf("Amount to Pay: %s", req.Amount.StringFixed(2)),
	}
	if req.Branch != "" {
		parts = append(parts, fmt.Sprintf("Bank Branch: %s", req.Branch))
	}
	if req.AccountNumber != "" {
		parts = append(parts, fmt.Sprintf("Account Number: %s", req.AccountNumber))
	}
	if req.CustomIDCode != "" {
		parts = append(parts, fmt.Sprintf("Custom ID Code: %s", req.CustomIDCode))
	}
	parts = append(parts,
		"",
		"Please transfer the amount to the specified bank account and upload the payment receipt on the portal.",
		"After payment, you can upload the receipt in the payment section.",
	)
	return strings.Join(parts, "\n")
}

// SendPaymentNotification creates a high-priority todo for the customer's
// linked user asking them to settle an installment. Unlike the best-effort
// notification in SavePaymentInfo, a customer without any linked user is a
// hard error here.
func (s *ClearanceService) SendPaymentNotification(ctx context.Context, p Principal, id uuid.UUID, req SendPaymentNotificationRequest) error {
	if err := s.requireStaff(p); err != nil {
		return err
	}

	inst := clearance.PaymentInstallment(req.Installment)
	if !inst.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid payment type. Must be 'first' or 'second'")
	}

	c, err := s.clearanceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return shared.NewDomainError("NOT_FOUND", "Clearance not found")
	}

	customer, err := s.customerRepo.FindByID(ctx, c.CustomerID)
	if err != nil {
		return err
	}
	var userID uuid.UUID
	ok := false
	if customer != nil {
		userID, ok = customer.PrimaryUserID()
	}
	if !ok {
		return shared.NewDomainError("MISSING_DEPENDENCY", fmt.Sprintf("No portal user found for customer of clearance %s", c.CaseNumber))
	}

	refID := c.ID
	todo, err := task.NewTodo(
		userID,
		paymentTodoDescription(c.CaseNumber, inst, req),
		task.TodoPriorityHigh,
		&refID,
	)
	if err != nil {
		return err
	}
	if err := s.todoRepo.Save(ctx, todo); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("case_number", c.CaseNumber),
		zap.String("installment", inst.Label()),
		zap.String("assigned_to", userID.String()),
	}
	if req.PaymentRowID != nil {
		fields = append(fields, zap.String("payment_row_id", req.PaymentRowID.String()))
	}
	s.logger.Info("payment notification sent", fields...)
	return nil
}

// UpdatePaymentReceipt records the customer's uploaded receipt on a
// payment record. Linked customer or admin only.
func (s *ClearanceService) UpdatePaymentReceipt(ctx context.Context, p Principal, id, rowID uuid.UUID, fileURL string) (*ClearanceResponse, error) {
	c, _, err := s.loadForOwner(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := c.AttachPaymentReceipt(rowID, fileURL); err != nil {
		return nil, err
	}
	if err := s.clearanceRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	return toClearanceResponse(c), nil
}

// ===================== Comments =====================

// AddComment appends a message to the case's discussion thread. Linked
// customer or admin only. A supplied payment amount appends a formatted
// additional-payment clause to the body; an attachment URL is accepted on
// the wire but never stored.
func (s *ClearanceService) AddComment(ctx context.Context, p Principal, id uuid.UUID, authorName, content string, paymentAmount *decimal.Decimal) (*CommentResponse, error) {
	c, isCustomer, err := s.loadForOwner(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if paymentAmount != nil && !paymentAmount.IsZero() {
		content = fmt.Sprintf("%s\n\nAdditional Payment Required: %s", content, paymentAmount.StringFixed(2))
	}

	cm, err := comment.NewComment(c.ID, p.UserID, authorName, content)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, cm); err != nil {
		return nil, err
	}

	return &CommentResponse{
		ID:         cm.ID,
		AuthorID:   cm.AuthorID,
		AuthorName: cm.AuthorName,
		Content:    cm.Content,
		IsCustomer: isCustomer,
		CreatedAt:  cm.CreatedAt,
	}, nil
}

// GetComments returns the case's thread, oldest first. Each row carries a
/// derived is_customer flag: the author's linked customer is resolved and
// compared against the case's customer, with the resolution cached per
// author for the duration of the call.
func (s *ClearanceService) GetComments(ctx context.Context, p Principal, id uuid.UUID) ([]CommentResponse, error) {
	c, _, err := s.loadForOwner(ctx, p, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByClearanceID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	authorIsCustomer := make(map[uuid.UUID]bool)
	responses := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		isCustomer, seen := authorIsCustomer[cm.AuthorID]
		if !seen {
			customer, err := s.access.ResolveCustomerFor(ctx, cm.AuthorID)
			if err != nil {
				return nil, err
			}
			isCustomer = customer != nil && c.IsOwnedBy(customer.ID)
			authorIsCustomer[cm.AuthorID] = isCustomer
		}
		responses = append(responses, CommentResponse{
			ID:         cm.ID,
			AuthorID:   cm.AuthorID,
			AuthorName: cm.AuthorName,
			Content:    cm.Content,
			IsCustomer: isCustomer,
			CreatedAt:  cm.CreatedAt,
		})
	}
	return responses, nil
}
