package task

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/friendserp/custom-clearance/internal/domain/task"
)

// InboxService serves a user's own notifications and todos. Everything
// here is scoped to the calling user; there is no cross-user visibility.
type InboxService struct {
	todoRepo         task.TodoRepository
	notificationRepo task.NotificationLogRepository
	logger           *zap.Logger
}

// NewInboxService creates a new InboxService
func NewInboxService(
	todoRepo task.TodoRepository,
	notificationRepo task.NotificationLogRepository,
	logger *zap.Logger,
) *InboxService {
	return &InboxService{
		todoRepo:         todoRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListNotifications returns the caller's notifications, newest first.
func (s *InboxService) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*task.NotificationLog, error) {
	return s.notificationRepo.FindByUser(ctx, userID, unreadOnly)
}

// MarkNotificationRead marks one of the caller's notifications as read.
// Notifications belonging to another user are reported as not found
// rather than forbidden, so the endpoint does not leak IDs.
func (s *InboxService) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) (*task.NotificationLog, error) {
	notification, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.ForUserID != userID {
		return nil, shared.ErrNotFound
	}
	if notification.Read {
		return notification, nil
	}

	notification.MarkRead()
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return nil, err
	}

	s.logger.Debug("notification marked read",
		zap.String("notification_id", notificationID.String()),
		zap.String("user_id", userID.String()))
	return notification, nil
}

// ListTodos returns the caller's todos, optionally filtered by status.
func (s *InboxService) ListTodos(ctx context.Context, userID uuid.UUID, status task.TodoStatus) ([]*task.Todo, error) {
	return s.todoRepo.FindByAssignee(ctx, userID, status)
}

// CloseTodo closes one of the caller's todos.
func (s *InboxService) CloseTodo(ctx context.Context, userID, todoID uuid.UUID) (*task.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		return nil, err
	}
	if todo.AssignedToID != userID {
		return nil, shared.ErrNotFound
	}
	if todo.Status == task.TodoStatusClosed {
		return todo, nil
	}

	todo.Close()
	if err := s.todoRepo.Save(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Debug("todo closed",
		zap.String("todo_id", todoID.String()),
		zap.String("user_id", userID.String()))
	return todo, nil
}
