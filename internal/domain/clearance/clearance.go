package clearance

import (
	"fmt"
	"time"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the overall workflow stage of a clearance case
type Status string

const (
	StatusDocumentSubmitting Status = "Document Submitting"
	StatusInReview           Status = "In Review"
	StatusRiskAnalysis       Status = "Risk Analysis"
	StatusCleared            Status = "Cleared"
	StatusGreen              Status = "Green"
	StatusYellow             Status = "Yellow"
	StatusRed                Status = "Red"
)

// IsValid checks if the status is a known clearance status
func (s Status) IsValid() bool {
	switch s {
	case StatusDocumentSubmitting, StatusInReview, StatusRiskAnalysis,
		StatusCleared, StatusGreen, StatusYellow, StatusRed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsRiskResult returns true for the derived risk display states
func (s Status) IsRiskResult() bool {
	return s == StatusGreen || s == StatusYellow || s == StatusRed
}

// ShippingType selects which document checklist template applies
type ShippingType string

const (
	ShippingTypeSea ShippingType = "Sea"
	ShippingTypeAir ShippingType = "Air"
)

// IsValid checks if the shipping type is valid
func (t ShippingType) IsValid() bool {
	return t == ShippingTypeSea || t == ShippingTypeAir
}

// PaymentStatus mirrors the linked invoice's payment state
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "Pending"
	PaymentStatusPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentStatusPaid          PaymentStatus = "Paid"
)

// DocumentStatus represents the review state of a single required document
type DocumentStatus string

const (
	DocumentStatusInReview DocumentStatus = "In Review"
	DocumentStatusAccepted DocumentStatus = "Accepted"
	DocumentStatusDeclined DocumentStatus = "Declined"
)

// IsValid checks if the document status is valid
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusInReview, DocumentStatusAccepted, DocumentStatusDeclined:
		return true
	}
	return false
}

// PaymentInstallment identifies which of the two payments is being addressed
type PaymentInstallment string

const (
	InstallmentFirst  PaymentInstallment = "first"
	InstallmentSecond PaymentInstallment = "second"
)

// IsValid checks if the installment identifier is valid
func (p PaymentInstallment) IsValid() bool {
	return p == InstallmentFirst || p == InstallmentSecond
}

// Label returns the customer-facing name of the installment
func (p PaymentInstallment) Label() string {
	if p == InstallmentFirst {
		return "First Payment"
	}
	return "Additional Payment"
}

// DocumentRequirement is one checklist line item owned by a Clearance
type DocumentRequirement struct {
	ID           uuid.UUID      `json:"id"`
	DocumentName string         `json:"document_name"`
	IsRequired   bool           `json:"is_required"`
	HasSubItems  bool           `json:"has_sub_items"`
	SubItems     string         `json:"sub_items,omitempty"`
	Status       DocumentStatus `json:"status"`
	Reason       string         `json:"reason,omitempty"`
	Attachment   string         `json:"attachment,omitempty"`
}

// PaymentEntry is one banking-detail record for a payment installment
type PaymentEntry struct {
	ID            uuid.UUID       `json:"id"`
	PaymentType   string          `json:"payment_type"` // "First Payment" or "Additional Payment"
	Amount        decimal.Decimal `json:"amount"`
	Branch        string          `json:"branch,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
	CustomIDCode  string          `json:"custom_id_code,omitempty"`
	Attachment    string          `json:"attachment,omitempty"`
}

// PaymentInfo holds the banking details staff publishes for one installment
type PaymentInfo struct {
	Branch        string `json:"branch,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	CustomIDCode  string `json:"custom_id_code,omitempty"`
}

// Clearance is the aggregate root tracking one shipment's customs process.
// Status is the single source of truth for the workflow stage; PaymentStatus
// is derived from the linked invoice and never authoritative on its own.
type Clearance struct {
	shared.BaseAggregateRoot
	CaseNumber              string                `json:"case_number"`
	CustomerID              uuid.UUID             `json:"customer_id"`
	ShippingType            ShippingType          `json:"shipping_type"`
	Status                  Status                `json:"status"`
	ClearanceDate           *time.Time            `json:"clearance_date,omitempty"`
	RiskStatusComment       string                `json:"risk_status_comment,omitempty"`
	Amount                  decimal.Decimal       `json:"amount"`
	AdditionalPaymentAmount decimal.Decimal       `json:"additional_payment_amount"`
	FirstPaymentInfo        PaymentInfo           `json:"first_payment_info"`
	SecondPaymentInfo       PaymentInfo           `json:"second_payment_info"`
	InvoiceID               *uuid.UUID            `json:"invoice_id,omitempty"`
	PaymentStatus           PaymentStatus         `json:"payment_status"`
	PaymentDate             *time.Time            `json:"payment_date,omitempty"`
	RequiredDocuments       []DocumentRequirement `json:"required_documents"`
	Payments                []PaymentEntry        `json:"payments"`
}

// NewClearance creates a new clearance case. The required-document rows are
// seeded from the template matching the shipping type.
func NewClearance(caseNumber string, customerID uuid.UUID, shippingType ShippingType, docs []TemplateDocument) (*Clearance, error) {
	if caseNumber == "" {
		return nil, shared.NewDomainError("INVALID_CASE_NUMBER", "Case number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !shippingType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_TYPE", "Shipping type must be Sea or Air")
	}

	c := &Clearance{
		BaseAggregateRoot:       shared.NewBaseAggregateRoot(),
		CaseNumber:              caseNumber,
		CustomerID:              customerID,
		ShippingType:            shippingType,
		Status:                  StatusDocumentSubmitting,
		Amount:                  decimal.Zero,
		AdditionalPaymentAmount: decimal.Zero,
		PaymentStatus:           PaymentStatusPending,
		RequiredDocuments:       make([]DocumentRequirement, 0, len(docs)),
		Payments:                make([]PaymentEntry, 0),
	}

	for _, d := range docs {
		c.RequiredDocuments = append(c.RequiredDocuments, DocumentRequirement{
			ID:           uuid.New(),
			DocumentName: d.DocumentName,
			IsRequired:   d.IsRequired,
			HasSubItems:  d.HasSubItems,
			SubItems:     d.SubItems,
			Status:       DocumentStatusInReview,
		})
	}

	c.AddDomainEvent(NewClearanceCreatedEvent(c))

	return c, nil
}

// ChangeStatus applies the transition guard against the loaded (persisted)
// status and then moves the clearance to the target status. Self-transitions
// are always legal. Targets other than Risk Analysis and Cleared are
// unrestricted.
func (c *Clearance) ChangeStatus(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown clearance status: %s", target))
	}

	prior := c.Status

	if target == StatusRiskAnalysis && prior != StatusInReview && prior != StatusRiskAnalysis {
		return shared.NewDomainError("INVALID_TRANSITION", "Status can only be changed to Risk Analysis from In Review")
	}
	if target == StatusCleared && prior != StatusRiskAnalysis && prior != StatusCleared {
		return shared.NewDomainError("INVALID_TRANSITION", "Status can only be changed to Cleared from Risk Analysis")
	}

	if target == prior {
		return nil
	}

	c.Status = target
	c.Touch()
	c.AddDomainEvent(NewClearanceStatusChangedEvent(c, prior))

	return nil
}

// RefreshChecklist auto-promotes the clearance to In Review once every
// mandatory document row is Accepted while documents are still being
// submitted. Returns true if the status changed.
func (c *Clearance) RefreshChecklist() bool {
	if c.Status != StatusDocumentSubmitting || len(c.RequiredDocuments) == 0 {
		return false
	}

	hasRequired := false
	for _, doc := range c.RequiredDocuments {
		if !doc.IsRequired {
			continue
		}
		hasRequired = true
		if doc.Status != DocumentStatusAccepted {
			return false
		}
	}
	if !hasRequired {
		return false
	}

	prior := c.Status
	c.Status = StatusInReview
	c.Touch()
	c.AddDomainEvent(NewChecklistCompletedEvent(c, prior))

	return true
}

// findDocument locates a required-document row by id
func (c *Clearance) findDocument(rowID uuid.UUID) *DocumentRequirement {
	for i := range c.RequiredDocuments {
		if c.RequiredDocuments[i].ID == rowID {
			return &c.RequiredDocuments[i]
		}
	}
	return nil
}

// AttachDocument sets the attachment on a required-document row. When the
// row was previously Declined and this is a re-upload, the row returns to
// In Review and the decline reason is cleared.
func (c *Clearance) AttachDocument(rowID uuid.UUID, fileURL string, isReupload bool) error {
	doc := c.findDocument(rowID)
	if doc == nil {
		return shared.NewDomainError("NOT_FOUND", "Document row not found")
	}

	doc.Attachment = fileURL
	if isReupload && doc.Status == DocumentStatusDeclined {
		doc.Status = DocumentStatusInReview
		doc.Reason = ""
	}
	c.Touch()

	return nil
}

// JudgeDocument records a staff or customer judgment on a document row.
// The reason is only recorded when provided (declines carry context).
func (c *Clearance) JudgeDocument(rowID uuid.UUID, status DocumentStatus, reason string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown document status: %s", status))
	}

	doc := c.findDocument(rowID)
	if doc == nil {
		return shared.NewDomainError("NOT_FOUND", "Document row not found")
	}

	doc.Status = status
	if reason != "" {
		doc.Reason = reason
	}
	c.Touch()

	return nil
}

// LinkInvoice records the back-link to the invoice created for this case.
// At most one invoice may be linked at a time.
func (c *Clearance) LinkInvoice(invoiceID uuid.UUID) error {
	if c.InvoiceID != nil {
		return shared.NewDomainError("DUPLICATE_OPERATION", fmt.Sprintf("Invoice already created for clearance %s", c.CaseNumber))
	}
	c.InvoiceID = &invoiceID
	c.Touch()
	return nil
}

// SetPaymentInfo merges the provided banking details into the chosen
// installment. Nil/empty inputs leave the existing values untouched.
func (c *Clearance) SetPaymentInfo(installment PaymentInstallment, amount *decimal.Decimal, branch, accountNumber, customIDCode string) error {
	if !installment.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid payment type. Must be 'first' or 'second'")
	}

	info := &c.FirstPaymentInfo
	if installment == InstallmentSecond {
		info = &c.SecondPaymentInfo
	}

	if amount != nil {
		if installment == InstallmentFirst {
			c.Amount = *amount
		} else {
			c.AdditionalPaymentAmount = *amount
		}
	}
	if branch != "" {
		info.Branch = branch
	}
	if accountNumber != "" {
		info.AccountNumber = accountNumber
	}
	if customIDCode != "" {
		info.CustomIDCode = customIDCode
	}
	c.Touch()

	return nil
}

// AttachPaymentReceipt sets the receipt attachment on a payment entry
func (c *Clearance) AttachPaymentReceipt(rowID uuid.UUID, fileURL string) error {
	for i := range c.Payments {
		if c.Payments[i].ID == rowID {
			c.Payments[i].Attachment = fileURL
			c.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Payment row not found")
}

// UpsertPaymentEntry records the payment row for an installment. Each
// installment has at most one row: repeated calls update it in place, so
// re-publishing banking details never duplicates payment records.
func (c *Clearance) UpsertPaymentEntry(installment PaymentInstallment, amount decimal.Decimal, branch, accountNumber, customIDCode string) (*PaymentEntry, error) {
	if !installment.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid payment type. Must be 'first' or 'second'")
	}

	for i := range c.Payments {
		if c.Payments[i].PaymentType != installment.Label() {
			continue
		}
		c.Payments[i].Amount = amount
		if branch != "" {
			c.Payments[i].Branch = branch
		}
		if accountNumber != "" {
			c.Payments[i].AccountNumber = accountNumber
		}
		if customIDCode != "" {
			c.Payments[i].CustomIDCode = customIDCode
		}
		c.Touch()
		return &c.Payments[i], nil
	}

	entry := PaymentEntry{
		ID:            uuid.New(),
		PaymentType:   installment.Label(),
		Amount:        amount,
		Branch:        branch,
		AccountNumber: accountNumber,
		CustomIDCode:  customIDCode,
	}
	c.Payments = append(c.Payments, entry)
	c.Touch()
	return &c.Payments[len(c.Payments)-1], nil
}

// SetRiskStatusComment records the staff comment attached to a status change
func (c *Clearance) SetRiskStatusComment(comment string) {
	c.RiskStatusComment = comment
	c.Touch()
}

// SetAdditionalPaymentAmount records the extra amount requested by staff
func (c *Clearance) SetAdditionalPaymentAmount(amount decimal.Decimal) {
	c.AdditionalPaymentAmount = amount
	c.Touch()
}

// IsOwnedBy returns true if the clearance belongs to the given customer
func (c *Clearance) IsOwnedBy(customerID uuid.UUID) bool {
	return customerID != uuid.Nil && c.CustomerID == customerID
}
