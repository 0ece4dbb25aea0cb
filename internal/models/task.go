package models

import (
	"time"

	"github.com/google/uuid"
)

// Project groups a client's work inside the tenant resource.
type Project struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ClientID  uuid.UUID `json:"client_id" db:"client_id"`
	Name      string    `json:"name" db:"name"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Task is a tenant-scoped work item; due open tasks are picked up by the
// background reminder scan.
type Task struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ProjectID    uuid.UUID  `json:"project_id" db:"project_id"`
	Title        string     `json:"title" db:"title"`
	Status       string     `json:"status" db:"status"`
	DueAt        *time.Time `json:"due_at,omitempty" db:"due_at"`
	ReminderSent bool       `json:"reminder_sent" db:"reminder_sent"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
