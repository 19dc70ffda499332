package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/friendserp/custom-clearance/internal/domain/comment"
	"github.com/friendserp/custom-clearance/internal/infrastructure/persistence/models"
)

// GormCommentRepository implements comment.Repository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

var _ comment.Repository = (*GormCommentRepository)(nil)

// FindByClearanceID returns the case's comments ordered oldest first
func (r *GormCommentRepository) FindByClearanceID(ctx context.Context, clearanceID uuid.UUID) ([]*comment.Comment, error) {
	var commentModels []models.CommentModel
	if err := r.db.WithContext(ctx).
		Where("clearance_id = ?", clearanceID).
		Order("created_at ASC").
		Find(&commentModels).Error; err != nil {
		return nil, err
	}
	comments := make([]*comment.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = commentModels[i].ToDomain()
	}
	return comments, nil
}

// Save persists the comment
func (r *GormCommentRepository) Save(ctx context.Context, c *comment.Comment) error {
	model := models.CommentModelFromDomain(c)
	return r.db.WithContext(ctx).Save(&model).Error
}
