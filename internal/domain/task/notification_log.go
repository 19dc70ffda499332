package task

import (
	"github.com/google/uuid"

	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

// NotificationLog is an in-app notification shown on a user's bell
// icon. Delivery is best effort and never blocks the action that
// produced it.
type NotificationLog struct {
	shared.BaseEntity

	ForUserID   uuid.UUID  `json:"for_user_id"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
	Read        bool       `json:"read"`
}

func NewNotificationLog(forUser uuid.UUID, subject, body string, referenceID *uuid.UUID) (*NotificationLog, error) {
	if subject == "" {
		return nil, shared.NewDomainError("EMPTY_NOTIFICATION", "notification subject cannot be empty")
	}

	return &NotificationLog{
		BaseEntity:  shared.NewBaseEntity(),
		ForUserID:   forUser,
		Subject:     subject,
		Body:        body,
		ReferenceID: referenceID,
	}, nil
}

func (n *NotificationLog) MarkRead() {
	n.Read = true
	n.Touch()
}
