package comment

import (
	"strings"

	"github.com/google/uuid"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

// Comment is a message on a clearance case's discussion thread. Both
// staff and the owning customer write to the same thread.
type Comment struct {
	shared.BaseEntity

	ClearanceID uuid.UUID `json:"clearance_id"`
	AuthorID    uuid.UUID `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Content     string    `json:"content"`
}

func NewComment(clearanceID, authorID uuid.UUID, authorName, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewDomainError("EMPTY_COMMENT", "comment content cannot be empty")
	}

	return &Comment{
		BaseEntity:  shared.NewBaseEntity(),
		ClearanceID: clearanceID,
		AuthorID:    authorID,
		AuthorName:  authorName,
		Content:     content,
	}, nil
}
