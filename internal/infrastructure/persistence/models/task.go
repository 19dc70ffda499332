package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/friendserp/custom-clearance/internal/domain/task"
)

// TodoModel is the persistence model for staff todos
type TodoModel struct {
	BaseModel
	AssignedToID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Description  string     `gorm:"type:text;not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'Open';index"`
	Priority     string     `gorm:"type:varchar(10);not null;default:'Medium'"`
	ReferenceID  *uuid.UUID `gorm:"type:uuid;index"`
	DueAt        *time.Time ``
}

// TableName returns the table name for GORM
func (TodoModel) TableName() string {
	return "todos"
}

// ToDomain converts the persistence model to a domain Todo
func (m *TodoModel) ToDomain() *task.Todo {
	return &task.Todo{
		BaseEntity:   m.BaseModel.ToDomain(),
		AssignedToID: m.AssignedToID,
		Description:  m.Description,
		Status:       task.TodoStatus(m.Status),
		Priority:     task.TodoPriority(m.Priority),
		ReferenceID:  m.ReferenceID,
		DueAt:        m.DueAt,
	}
}

// FromDomain populates the persistence model from a domain Todo
func (m *TodoModel) FromDomain(t *task.Todo) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.AssignedToID = t.AssignedToID
	m.Description = t.Description
	m.Status = string(t.Status)
	m.Priority = string(t.Priority)
	m.ReferenceID = t.ReferenceID
	m.DueAt = t.DueAt
}

// TodoModelFromDomain creates a new persistence model from a domain Todo
func TodoModelFromDomain(t *task.Todo) *TodoModel {
	m := &TodoModel{}
	m.FromDomain(t)
	return m
}

// NotificationLogModel is the persistence model for portal notifications
type NotificationLogModel struct {
	BaseModel
	ForUserID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Subject     string     `gorm:"type:varchar(500);not null"`
	Body        string     `gorm:"type:text"`
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`
	Read        bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (NotificationLogModel) TableName() string {
	return "notification_logs"
}

// ToDomain converts the persistence model to a domain NotificationLog
func (m *NotificationLogModel) ToDomain() *task.NotificationLog {
	return &task.NotificationLog{
		BaseEntity:  m.BaseModel.ToDomain(),
		ForUserID:   m.ForUserID,
		Subject:     m.Subject,
		Body:        m.Body,
		ReferenceID: m.ReferenceID,
		Read:        m.Read,
	}
}

// FromDomain populates the persistence model from a domain NotificationLog
func (m *NotificationLogModel) FromDomain(n *task.NotificationLog) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.ForUserID = n.ForUserID
	m.Subject = n.Subject
	m.Body = n.Body
	m.ReferenceID = n.ReferenceID
	m.Read = n.Read
}

// NotificationLogModelFromDomain creates a new persistence model from a domain NotificationLog
func NotificationLogModelFromDomain(n *task.NotificationLog) *NotificationLogModel {
	m := &NotificationLogModel{}
	m.FromDomain(n)
	return m
}
