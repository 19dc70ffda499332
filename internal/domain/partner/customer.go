package partner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

// Customer is the party a clearance case belongs to. A customer can be
// reached through two links: a primary contact that points at a login
// user, and a set of portal users granted access to the customer's
// documents. The contact link wins when both exist.
type Customer struct {
	shared.BaseAggregateRoot

	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	ContactUserID *uuid.UUID  `json:"contact_user_id,omitempty"`
	PortalUserIDs []uuid.UUID `json:"portal_user_ids,omitempty"`
	IsActive      bool        `json:"is_active"`
}

func NewCustomer(name, email, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "customer name cannot be empty")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
		IsActive:          true,
	}, nil
}

// SetContactUser records the primary contact's login user.
func (c *Customer) SetContactUser(userID uuid.UUID) {
	c.ContactUserID = &userID
	c.IncrementVersion()
}

// GrantPortalAccess adds a portal user. Granting twice is a no-op.
func (c *Customer) GrantPortalAccess(userID uuid.UUID) {
	for _, id := range c.PortalUserIDs {
		if id == userID {
			return
		}
	}
	c.PortalUserIDs = append(c.PortalUserIDs, userID)
	c.IncrementVersion()
}

func (c *Customer) RevokePortalAccess(userID uuid.UUID) {
	for i, id := range c.PortalUserIDs {
		if id == userID {
			c.PortalUserIDs = append(c.PortalUserIDs[:i], c.PortalUserIDs[i+1:]...)
			c.IncrementVersion()
			return
		}
	}
}

// HasUser reports whether the given login user can act for this customer,
// through either the contact link or portal membership.
func (c *Customer) HasUser(userID uuid.UUID) bool {
	if c.ContactUserID != nil && *c.ContactUserID == userID {
		return true
	}
	for _, id := range c.PortalUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// PrimaryUserID returns the user to notify for this customer: the
// contact link if present, otherwise the first portal user. The second
// return is false when the customer has no linked user at all.
func (c *Customer) PrimaryUserID() (uuid.UUID, bool) {
	if c.ContactUserID != nil {
		return *c.ContactUserID, true
	}
	if len(c.PortalUserIDs) > 0 {
		return c.PortalUserIDs[0], true
	}
	return uuid.Nil, false
}
