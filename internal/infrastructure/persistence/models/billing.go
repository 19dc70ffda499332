package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/friendserp/custom-clearance/internal/domain/billing"
)

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	ClearanceID   *uuid.UUID         `gorm:"type:uuid;index"`
	PostingDate   time.Time          `gorm:"not null"`
	DueDate       time.Time          `gorm:"not null"`
	TotalAmount   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Status        string             `gorm:"type:varchar(30);not null;default:'Draft';index"`
	CancelledAt   *time.Time         ``
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is one billed line owned by an invoice
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode    string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:text"`
	Qty         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SortOrder   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		CustomerID:        m.CustomerID,
		ClearanceID:       m.ClearanceID,
		PostingDate:       m.PostingDate,
		DueDate:           m.DueDate,
		TotalAmount:       m.TotalAmount,
		Status:            billing.InvoiceStatus(m.Status),
		CancelledAt:       m.CancelledAt,
		Items:             make([]billing.InvoiceItem, 0, len(m.Items)),
	}
	for _, it := range m.Items {
		inv.Items = append(inv.Items, billing.InvoiceItem{
			ID:          it.ID,
			ItemCode:    it.ItemCode,
			Description: it.Description,
			Qty:         it.Qty,
			Rate:        it.Rate,
			Amount:      it.Amount,
		})
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.ClearanceID = inv.ClearanceID
	m.PostingDate = inv.PostingDate
	m.DueDate = inv.DueDate
	m.TotalAmount = inv.TotalAmount
	m.Status = inv.Status.String()
	m.CancelledAt = inv.CancelledAt
	m.Items = make([]InvoiceItemModel, 0, len(inv.Items))
	for i, it := range inv.Items {
		m.Items = append(m.Items, InvoiceItemModel{
			ID:          it.ID,
			InvoiceID:   inv.ID,
			ItemCode:    it.ItemCode,
			Description: it.Description,
			Qty:         it.Qty,
			Rate:        it.Rate,
			Amount:      it.Amount,
			SortOrder:   i,
		})
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
