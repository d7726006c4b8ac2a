package events

import (
	"time"

	"github.com/google/uuid"
)

// TaskChanged es el payload de task.created y task.updated: la foto
// completa de la tarea tras la escritura.
type TaskChanged struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Detail     *string    `json:"detail,omitempty"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
	IsComplete bool       `json:"isComplete"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TaskDeleted es el payload de task.deleted: solo queda el ID.
type TaskDeleted struct {
	ID uuid.UUID `json:"id"`
}
