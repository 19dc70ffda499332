package clearance

import (
	"context"

	"github.com/google/uuid"

	"github.com/friendserp/custom-clearance/internal/domain/identity"
	"github.com/friendserp/custom-clearance/internal/domain/partner"
)

// Principal is the authenticated caller of an operation. Every mutating
// service method receives it explicitly; nothing reads caller identity
// from ambient state.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Roles  []identity.Role
}

// IsStaff reports whether the principal may perform staff-side clearance
// mutations. An account holding only the Customer role is portal-only;
// everyone else is staff.
func (p Principal) IsStaff() bool {
	hasCustomer := false
	for _, r := range p.Roles {
		if r == identity.RoleCustomer {
			hasCustomer = true
			break
		}
	}
	return !hasCustomer || len(p.Roles) > 1
}

// IsAdmin reports whether the principal holds the system manager role.
// Some operations admit only the linked customer or an admin; ordinary
// staff do not qualify there.
func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == identity.RoleSystemManager {
			return true
		}
	}
	return false
}

// AccessResolver answers the two authorization questions the clearance
// operations ask: which customer does this caller act for, and may this
// caller manage clearances.
type AccessResolver interface {
	// ResolveCustomerFor returns the customer the user acts for, or nil
	// when the user is not linked to any customer.
	ResolveCustomerFor(ctx context.Context, userID uuid.UUID) (*partner.Customer, error)
	CanManageClearances(p Principal) bool
}

type accessResolver struct {
	customerRepo partner.CustomerRepository
}

// NewAccessResolver builds the default resolver backed by the customer
// repository.
func NewAccessResolver(customerRepo partner.CustomerRepository) AccessResolver {
	return &accessResolver{customerRepo: customerRepo}
}

// ResolveCustomerFor looks up the contact link first, then falls back to
// portal-user membership. Not being linked is not an error.
func (r *accessResolver) ResolveCustomerFor(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	customer, err := r.customerRepo.FindByContactUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}
	return r.customerRepo.FindByPortalUser(ctx, userID)
}

func (r *accessResolver) CanManageClearances(p Principal) bool {
	return p.IsStaff()
}
