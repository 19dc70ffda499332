package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/friendserp/custom-clearance/internal/domain/clearance"
)

// ClearanceModel is the persistence model for the Clearance aggregate root
type ClearanceModel struct {
	AggregateModel
	CaseNumber              string                     `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID              uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ShippingType            string                     `gorm:"type:varchar(10);not null"`
	Status                  string                     `gorm:"type:varchar(30);not null;default:'Document Submitting';index"`
	ClearanceDate           *time.Time                 ``
	RiskStatusComment       string                     `gorm:"type:text"`
	Amount                  decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	AdditionalPaymentAmount decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	FirstBranch             string                     `gorm:"type:varchar(200)"`
	FirstAccountNumber      string                     `gorm:"type:varchar(50)"`
	FirstCustomIDCode       string                     `gorm:"type:varchar(50)"`
	SecondBranch            string                     `gorm:"type:varchar(200)"`
	SecondAccountNumber     string                     `gorm:"type:varchar(50)"`
	SecondCustomIDCode      string                     `gorm:"type:varchar(50)"`
	InvoiceID               *uuid.UUID                 `gorm:"type:uuid;index"`
	PaymentStatus           string                     `gorm:"type:varchar(20);not null;default:'Pending'"`
	PaymentDate             *time.Time                 ``
	RequiredDocuments       []DocumentRequirementModel `gorm:"foreignKey:ClearanceID;references:ID;constraint:OnDelete:CASCADE"`
	Payments                []PaymentEntryModel        `gorm:"foreignKey:ClearanceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ClearanceModel) TableName() string {
	return "clearances"
}

// DocumentRequirementModel is one checklist row owned by a clearance
type DocumentRequirementModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	ClearanceID  uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentName string    `gorm:"type:varchar(200);not null"`
	IsRequired   bool      `gorm:"not null;default:false"`
	HasSubItems  bool      `gorm:"not null;default:false"`
	SubItems     string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20);not null;default:'In Review'"`
	Reason       string    `gorm:"type:text"`
	Attachment   string    `gorm:"type:varchar(500)"`
	SortOrder    int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentRequirementModel) TableName() string {
	return "clearance_documents"
}

// PaymentEntryModel is one payment record owned by a clearance
type PaymentEntryModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	ClearanceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentType   string          `gorm:"type:varchar(30);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Branch        string          `gorm:"type:varchar(200)"`
	AccountNumber string          `gorm:"type:varchar(50)"`
	CustomIDCode  string          `gorm:"type:varchar(50)"`
	Attachment    string          `gorm:"type:varchar(500)"`
	SortOrder     int             `gorm:"not null;default:0"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentEntryModel) TableName() string {
	return "clearance_payments"
}

// ToDomain converts the persistence model to a domain Clearance
func (m *ClearanceModel) ToDomain() *clearance.Clearance {
	c := &clearance.Clearance{
		BaseAggregateRoot:       m.ToDomainAggregateRoot(),
		CaseNumber:              m.CaseNumber,
		CustomerID:              m.CustomerID,
		ShippingType:            clearance.ShippingType(m.ShippingType),
		Status:                  clearance.Status(m.Status),
		ClearanceDate:           m.ClearanceDate,
		RiskStatusComment:       m.RiskStatusComment,
		Amount:                  m.Amount,
		AdditionalPaymentAmount: m.AdditionalPaymentAmount,
		FirstPaymentInfo: clearance.PaymentInfo{
			Branch:        m.FirstBranch,
			AccountNumber: m.FirstAccountNumber,
			CustomIDCode:  m.FirstCustomIDCode,
		},
		SecondPaymentInfo: clearance.PaymentInfo{
			Branch:        m.SecondBranch,
			AccountNumber: m.SecondAccountNumber,
			CustomIDCode:  m.SecondCustomIDCode,
		},
		InvoiceID:         m.InvoiceID,
		PaymentStatus:     clearance.PaymentStatus(m.PaymentStatus),
		PaymentDate:       m.PaymentDate,
		RequiredDocuments: make([]clearance.DocumentRequirement, 0, len(m.RequiredDocuments)),
		Payments:          make([]clearance.PaymentEntry, 0, len(m.Payments)),
	}
	for _, d := range m.RequiredDocuments {
		c.RequiredDocuments = append(c.RequiredDocuments, clearance.DocumentRequirement{
			ID:           d.ID,
			DocumentName: d.DocumentName,
			IsRequired:   d.IsRequired,
			HasSubItems:  d.HasSubItems,
			SubItems:     d.SubItems,
			Status:       clearance.DocumentStatus(d.Status),
			Reason:       d.Reason,
			Attachment:   d.Attachment,
		})
	}
	for _, p := range m.Payments {
		c.Payments = append(c.Payments, clearance.PaymentEntry{
			ID:            p.ID,
			PaymentType:   p.PaymentType,
			Amount:        p.Amount,
			Branch:        p.Branch,
			AccountNumber: p.AccountNumber,
			CustomIDCode:  p.CustomIDCode,
			Attachment:    p.Attachment,
		})
	}
	return c
}

// FromDomain populates the persistence model from a domain Clearance
func (m *ClearanceModel) FromDomain(c *clearance.Clearance) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CaseNumber = c.CaseNumber
	m.CustomerID = c.CustomerID
	m.ShippingType = string(c.ShippingType)
	m.Status = c.Status.String()
	m.ClearanceDate = c.ClearanceDate
	m.RiskStatusComment = c.RiskStatusComment
	m.Amount = c.Amount
	m.AdditionalPaymentAmount = c.AdditionalPaymentAmount
	m.FirstBranch = c.FirstPaymentInfo.Branch
	m.FirstAccountNumber = c.FirstPaymentInfo.AccountNumber
	m.FirstCustomIDCode = c.FirstPaymentInfo.CustomIDCode
	m.SecondBranch = c.SecondPaymentInfo.Branch
	m.SecondAccountNumber = c.SecondPaymentInfo.AccountNumber
	m.SecondCustomIDCode = c.SecondPaymentInfo.CustomIDCode
	m.InvoiceID = c.InvoiceID
	m.PaymentStatus = string(c.PaymentStatus)
	m.PaymentDate = c.PaymentDate

	m.RequiredDocuments = make([]DocumentRequirementModel, 0, len(c.RequiredDocuments))
	for i, d := range c.RequiredDocuments {
		m.RequiredDocuments = append(m.RequiredDocuments, DocumentRequirementModel{
			ID:           d.ID,
			ClearanceID:  c.ID,
			DocumentName: d.DocumentName,
			IsRequired:   d.IsRequired,
			HasSubItems:  d.HasSubItems,
			SubItems:     d.SubItems,
			Status:       string(d.Status),
			Reason:       d.Reason,
			Attachment:   d.Attachment,
			SortOrder:    i,
		})
	}
	m.Payments = make([]PaymentEntryModel, 0, len(c.Payments))
	for i, p := range c.Payments {
		m.Payments = append(m.Payments, PaymentEntryModel{
			ID:            p.ID,
			ClearanceID:   c.ID,
			PaymentType:   p.PaymentType,
			Amount:        p.Amount,
			Branch:        p.Branch,
			AccountNumber: p.AccountNumber,
			CustomIDCode:  p.CustomIDCode,
			Attachment:    p.Attachment,
			SortOrder:     i,
		})
	}
}

// ClearanceModelFromDomain creates a new persistence model from a domain Clearance
func ClearanceModelFromDomain(c *clearance.Clearance) *ClearanceModel {
	m := &ClearanceModel{}
	m.FromDomain(c)
	return m
}

// TemplateModel is the persistence model for the checklist Template aggregate
type TemplateModel struct {
	AggregateModel
	TemplateName      string                  `gorm:"type:varchar(200);not null;uniqueIndex"`
	ShippingType      string                  `gorm:"type:varchar(10);not null;index"`
	IsActive          bool                    `gorm:"not null;default:true"`
	Description       string                  `gorm:"type:text"`
	RequiredDocuments []TemplateDocumentModel `gorm:"foreignKey:TemplateID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (TemplateModel) TableName() string {
	return "clearance_templates"
}

// TemplateDocumentModel is one required-document definition in a template
type TemplateDocumentModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	TemplateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentName string    `gorm:"type:varchar(200);not null"`
	IsRequired   bool      `gorm:"not null;default:false"`
	HasSubItems  bool      `gorm:"not null;default:false"`
	SubItems     string    `gorm:"type:text"`
	SortOrder    int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TemplateDocumentModel) TableName() string {
	return "clearance_template_documents"
}

// ToDomain converts the persistence model to a domain Template
func (m *TemplateModel) ToDomain() *clearance.Template {
	t := &clearance.Template{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		TemplateName:      m.TemplateName,
		ShippingType:      clearance.ShippingType(m.ShippingType),
		IsActive:          m.IsActive,
		Description:       m.Description,
		RequiredDocuments: make([]clearance.TemplateDocument, 0, len(m.RequiredDocuments)),
	}
	for _, d := range m.RequiredDocuments {
		t.RequiredDocuments = append(t.RequiredDocuments, clearance.TemplateDocument{
			ID:           d.ID,
			DocumentName: d.DocumentName,
			IsRequired:   d.IsRequired,
			HasSubItems:  d.HasSubItems,
			SubItems:     d.SubItems,
		})
	}
	return t
}

// FromDomain populates the persistence model from a domain Template
func (m *TemplateModel) FromDomain(t *clearance.Template) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TemplateName = t.TemplateName
	m.ShippingType = string(t.ShippingType)
	m.IsActive = t.IsActive
	m.Description = t.Description
	m.RequiredDocuments = make([]TemplateDocumentModel, 0, len(t.RequiredDocuments))
	for i, d := range t.RequiredDocuments {
		m.RequiredDocuments = append(m.RequiredDocuments, TemplateDocumentModel{
			ID:           d.ID,
			TemplateID:   t.ID,
			DocumentName: d.DocumentName,
			IsRequired:   d.IsRequired,
			HasSubItems:  d.HasSubItems,
			SubItems:     d.SubItems,
			SortOrder:    i,
		})
	}
}

// TemplateModelFromDomain creates a new persistence model from a domain Template
func TemplateModelFromDomain(t *clearance.Template) *TemplateModel {
	m := &TemplateModel{}
	m.FromDomain(t)
	return m
}
