package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/friendserp/custom-clearance/internal/domain/comment"
)

// CommentModelSQLite is a SQLite-compatible version of CommentModel for testing
type CommentModelSQLite struct {
	ID          string `gorm:"primaryKey"`
	ClearanceID string `gorm:"not null;index"`
	AuthorID    string `gorm:"not null"`
	AuthorName  string `gorm:"not null"`
	Content     string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CommentModelSQLite) TableName() string {
	return "clearance_comments"
}

func setupCommentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&CommentModelSQLite{})
	require.NoError(t, err)

	return db
}

func TestGormCommentRepository_SaveAndFind(t *testing.T) {
	db := setupCommentTestDB(t)
	repo := NewGormCommentRepository(db)
	ctx := context.Background()

	clearanceID := uuid.New()
	authorID := uuid.New()

	t.Run("returns comments oldest first", func(t *testing.T) {
		first, err := comment.NewComment(clearanceID, authorID, "Officer A", "Please upload the packing list")
		require.NoError(t, err)
		first.CreatedAt = time.Now().Add(-2 * time.Hour)

		second, err := comment.NewComment(clearanceID, authorID, "Officer A", "Received, thanks")
		require.NoError(t, err)
		second.CreatedAt = time.Now().Add(-1 * time.Hour)

		require.NoError(t, repo.Save(ctx, second))
		require.NoError(t, repo.Save(ctx, first))

		found, err := repo.FindByClearanceID(ctx, clearanceID)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Please upload the packing list", found[0].Content)
		assert.Equal(t, "Received, thanks", found[1].Content)
	})

	t.Run("scopes comments to the clearance", func(t *testing.T) {
		other, err := comment.NewComment(uuid.New(), authorID, "Officer B", "Unrelated case note")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, other))

		found, err := repo.FindByClearanceID(ctx, clearanceID)
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("empty result for unknown clearance", func(t *testing.T) {
		found, err := repo.FindByClearanceID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
