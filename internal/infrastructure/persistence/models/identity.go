package models

import (
	"github.com/lib/pq"

	"github.com/friendserp/custom-clearance/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root
type UserModel struct {
	AggregateModel
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName     string         `gorm:"type:varchar(200);not null"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	Roles        pq.StringArray `gorm:"type:text[]"`
	IsActive     bool           `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		FullName:          m.FullName,
		PasswordHash:      m.PasswordHash,
		IsActive:          m.IsActive,
		Roles:             make([]identity.Role, 0, len(m.Roles)),
	}
	for _, r := range m.Roles {
		u.Roles = append(u.Roles, identity.Role(r))
	}
	return u
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.FullName = u.FullName
	m.PasswordHash = u.PasswordHash
	m.IsActive = u.IsActive
	m.Roles = make(pq.StringArray, 0, len(u.Roles))
	for _, r := range u.Roles {
		m.Roles = append(m.Roles, string(r))
	}
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
