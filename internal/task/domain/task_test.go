package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestNowUTC valida la convención de timestamps: UTC y milisegundos.
func TestNowUTC(t *testing.T) {
	now := NowUTC()

	assert.Equal(t, time.UTC, now.Location(), "los timestamps deben ser UTC")
	assert.Equal(t, now, now.Truncate(time.Millisecond), "la precisión debe ser de milisegundos")
}

func TestNormalizeTime(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	raw := time.Date(2025, 3, 1, 12, 30, 45, 123456789, loc)

	got := NormalizeTime(raw)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123000000, got.Nanosecond(), "los nanosegundos sobrantes deben truncarse")
	assert.True(t, got.Equal(raw.Truncate(time.Millisecond)), "el instante no debe cambiar, solo su representación")
}

// TestNewTask valida que crear cuenta como la primera actualización.
func TestNewTask(t *testing.T) {
	now := NowUTC()
	detail := "algo que hacer"

	task := NewTask(CreateInput{Title: "Tarea nueva", Detail: &detail}, now)

	assert.NotEqual(t, uuid.Nil, task.ID, "el ID lo asigna el servicio, nunca viene vacío")
	assert.Equal(t, "Tarea nueva", task.Title)
	assert.Equal(t, &detail, task.Detail)
	assert.Nil(t, task.DueAt)
	assert.False(t, task.IsComplete, "isComplete arranca en false si no se indica")
	assert.Equal(t, now, task.CreatedAt)
	assert.Equal(t, now, task.UpdatedAt, "createdAt y updatedAt deben coincidir al crear")
}

func TestNewTask_UniqueIDs(t *testing.T) {
	now := NowUTC()
	a := NewTask(CreateInput{Title: "a"}, now)
	b := NewTask(CreateInput{Title: "b"}, now)

	assert.NotEqual(t, a.ID, b.ID)
}
