package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

type TodoStatus string

const (
	TodoStatusOpen      TodoStatus = "Open"
	TodoStatusClosed    TodoStatus = "Closed"
	TodoStatusCancelled TodoStatus = "Cancelled"
)

type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "Low"
	TodoPriorityMedium TodoPriority = "Medium"
	TodoPriorityHigh   TodoPriority = "High"
)

// Todo is an actionable item assigned to a user, usually created by the
// system to surface that a clearance case needs attention.
type Todo struct {
	shared.BaseEntity

	AssignedToID uuid.UUID    `json:"assigned_to_id"`
	Description  string       `json:"description"`
	Status       TodoStatus   `json:"status"`
	Priority     TodoPriority `json:"priority"`
	ReferenceID  *uuid.UUID   `json:"reference_id,omitempty"`
	DueAt        *time.Time   `json:"due_at,omitempty"`
}

func NewTodo(assignedTo uuid.UUID, description string, priority TodoPriority, referenceID *uuid.UUID) (*Todo, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("EMPTY_TODO", "todo description cannot be empty")
	}
	if priority == "" {
		priority = TodoPriorityMedium
	}

	return &Todo{
		BaseEntity:   shared.NewBaseEntity(),
		AssignedToID: assignedTo,
		Description:  description,
		Status:       TodoStatusOpen,
		Priority:     priority,
		ReferenceID:  referenceID,
	}, nil
}

func (t *Todo) Close() {
	t.Status = TodoStatusClosed
	t.Touch()
}
