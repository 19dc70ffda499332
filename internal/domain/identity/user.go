package identity

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

type Role string

const (
	RoleCustomer         Role = "Customer"
	RoleClearanceOfficer Role = "Clearance Officer"
	RoleAccountant       Role = "Accountant"
	RoleSystemManager    Role = "System Manager"
)

// User is a login account. Customer-facing accounts carry only the
// Customer role; anyone holding a second role is treated as staff.
type User struct {
	shared.BaseAggregateRoot

	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"-"`
	Roles        []Role `json:"roles"`
	IsActive     bool   `json:"is_active"`
}

func NewUser(email, fullName, password string, roles []Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "email cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("WEAK_PASSWORD", "password must be at least 8 characters")
	}
	if len(roles) == 0 {
		roles = []Role{RoleCustomer}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FullName:          fullName,
		PasswordHash:      string(hash),
		Roles:             roles,
		IsActive:          true,
	}, nil
}

func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanManageClearances reports whether the user may perform staff-side
// clearance mutations: anyone who is not a pure customer account.
func (u *User) CanManageClearances() bool {
	return !u.HasRole(RoleCustomer) || len(u.Roles) > 1
}

func (u *User) ChangePassword(newPassword string) error {
	if len(newPassword) < 8 {
		return shared.NewDomainError("WEAK_PASSWORD", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.IncrementVersion()
	return nil
}
