package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/friendserp/custom-clearance/internal/domain/task"
	"github.com/friendserp/custom-clearance/internal/infrastructure/persistence/models"
)

// GormTodoRepository implements task.TodoRepository using GORM
type GormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GormTodoRepository
func NewGormTodoRepository(db *gorm.DB) *GormTodoRepository {
	return &GormTodoRepository{db: db}
}

var _ task.TodoRepository = (*GormTodoRepository)(nil)

// FindByID returns the todo with the given ID
func (r *GormTodoRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Todo, error) {
	var model models.TodoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAssignee returns the user's todos with the given status, newest first
func (r *GormTodoRepository) FindByAssignee(ctx context.Context, userID uuid.UUID, status task.TodoStatus) ([]*task.Todo, error) {
	var todoModels []models.TodoModel
	query := r.db.WithContext(ctx).Where("assigned_to_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	if err := query.Order("created_at DESC").Find(&todoModels).Error; err != nil {
		return nil, err
	}
	todos := make([]*task.Todo, len(todoModels))
	for i := range todoModels {
		todos[i] = todoModels[i].ToDomain()
	}
	return todos, nil
}

// Save persists the todo
func (r *GormTodoRepository) Save(ctx context.Context, t *task.Todo) error {
	model := models.TodoModelFromDomain(t)
	return r.db.WithContext(ctx).Save(&model).Error
}

// GormNotificationLogRepository implements task.NotificationLogRepository using GORM
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewGormNotificationLogRepository creates a new GormNotificationLogRepository
func NewGormNotificationLogRepository(db *gorm.DB) *GormNotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

var _ task.NotificationLogRepository = (*GormNotificationLogRepository)(nil)

// FindByID returns the notification log entry with the given ID
func (r *GormNotificationLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.NotificationLog, error) {
	var model models.NotificationLogModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns the user's notifications, newest first
func (r *GormNotificationLogRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*task.NotificationLog, error) {
	var logModels []models.NotificationLogModel
	query := r.db.WithContext(ctx).Where("for_user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if err := query.Order("created_at DESC").Find(&logModels).Error; err != nil {
		return nil, err
	}
	logs := make([]*task.NotificationLog, len(logModels))
	for i := range logModels {
		logs[i] = logModels[i].ToDomain()
	}
	return logs, nil
}

// Save persists the notification log entry
func (r *GormNotificationLogRepository) Save(ctx context.Context, n *task.NotificationLog) error {
	model := models.NotificationLogModelFromDomain(n)
	return r.db.WithContext(ctx).Save(&model).Error
}
