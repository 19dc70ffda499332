package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/friendserp/custom-clearance/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate root.
// Portal user links are stored as a text array; the contact link is a
// dedicated column because it takes precedence during access resolution.
type CustomerModel struct {
	AggregateModel
	Name          string         `gorm:"type:varchar(200);not null;index"`
	Email         string         `gorm:"type:varchar(255);index"`
	Phone         string         `gorm:"type:varchar(50)"`
	ContactUserID *uuid.UUID     `gorm:"type:uuid;index"`
	PortalUserIDs pq.StringArray `gorm:"type:text[]"`
	IsActive      bool           `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	c := &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		ContactUserID:     m.ContactUserID,
		IsActive:          m.IsActive,
		PortalUserIDs:     make([]uuid.UUID, 0, len(m.PortalUserIDs)),
	}
	for _, raw := range m.PortalUserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		c.PortalUserIDs = append(c.PortalUserIDs, id)
	}
	return c
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.ContactUserID = c.ContactUserID
	m.IsActive = c.IsActive
	m.PortalUserIDs = make(pq.StringArray, 0, len(c.PortalUserIDs))
	for _, id := range c.PortalUserIDs {
		m.PortalUserIDs = append(m.PortalUserIDs, id.String())
	}
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
