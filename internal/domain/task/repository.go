package task

import (
	"context"

	"github.com/google/uuid"
)

type TodoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Todo, error)
	FindByAssignee(ctx context.Context, userID uuid.UUID, status TodoStatus) ([]*Todo, error)
	Save(ctx context.Context, todo *Todo) error
}

type NotificationLogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*NotificationLog, error)
	FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*NotificationLog, error)
	Save(ctx context.Context, log *NotificationLog) error
}
