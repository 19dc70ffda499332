package comment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// FindByClearanceID returns the case's comments ordered oldest first.
	FindByClearanceID(ctx context.Context, clearanceID uuid.UUID) ([]*Comment, error)
	Save(ctx context.Context, comment *Comment) error
}
