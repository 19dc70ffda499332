package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindByContactUser resolves the customer whose primary contact is
	// linked to the given login user.
	FindByContactUser(ctx context.Context, userID uuid.UUID) (*Customer, error)
	// FindByPortalUser resolves the customer the given login user has
	// portal access to.
	FindByPortalUser(ctx context.Context, userID uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
}
