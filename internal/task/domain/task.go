package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task es la entidad visible hacia fuera. Los campos opcionales (Detail,
// DueAt) son punteros: nil significa "ausente", nunca vacío-pero-presente.
type Task struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Detail     *string    `json:"detail,omitempty"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
	IsComplete bool       `json:"isComplete"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CreateInput transporta los datos ya validados para crear una tarea.
// El ID nunca viene del caller: lo genera el servicio.
type CreateInput struct {
	Title      string
	Detail     *string
	DueAt      *time.Time
	IsComplete bool
}

// UpdateInput transporta los datos de una actualización parcial.
// Title e IsComplete se reescriben siempre; Detail y DueAt en nil
// significan "eliminar del registro", no "dejar como está".
type UpdateInput struct {
	Title      string
	IsComplete bool
	Detail     *string
	DueAt      *time.Time
}

// NewTask construye la entidad a partir del input: asigna ID, y deja
// createdAt == updatedAt (crear cuenta como la primera actualización).
func NewTask(in CreateInput, now time.Time) *Task {
	return &Task{
		ID:         uuid.New(),
		Title:      in.Title,
		Detail:     in.Detail,
		DueAt:      in.DueAt,
		IsComplete: in.IsComplete,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NowUTC devuelve el instante actual en UTC truncado a milisegundos.
// Todos los timestamps del sistema pasan por aquí para que la
// serialización JSON produzca siempre ISO-8601 UTC con precisión de ms.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NormalizeTime aplica la misma convención (UTC, ms) a tiempos que
// llegan de fuera, como el dueAt parseado en el boundary HTTP.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
