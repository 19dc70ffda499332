package models

import (
	"github.com/google/uuid"

	"github.com/friendserp/custom-clearance/internal/domain/comment"
)

// CommentModel is the persistence model for clearance comments
type CommentModel struct {
	BaseModel
	ClearanceID uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorName  string    `gorm:"type:varchar(200);not null"`
	Content     string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (CommentModel) TableName() string {
	return "clearance_comments"
}

// ToDomain converts the persistence model to a domain Comment
func (m *CommentModel) ToDomain() *comment.Comment {
	return &comment.Comment{
		BaseEntity:  m.BaseModel.ToDomain(),
		ClearanceID: m.ClearanceID,
		AuthorID:    m.AuthorID,
		AuthorName:  m.AuthorName,
		Content:     m.Content,
	}
}

// FromDomain populates the persistence model from a domain Comment
func (m *CommentModel) FromDomain(c *comment.Comment) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.ClearanceID = c.ClearanceID
	m.AuthorID = c.AuthorID
	m.AuthorName = c.AuthorName
	m.Content = c.Content
}

// CommentModelFromDomain creates a new persistence model from a domain Comment
func CommentModelFromDomain(c *comment.Comment) *CommentModel {
	m := &CommentModel{}
	m.FromDomain(c)
	return m
}
