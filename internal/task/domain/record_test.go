package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeriveKey valida que la derivación es pura e inyectiva.
func TestDeriveKey(t *testing.T) {
	id := uuid.New()

	key := DeriveKey(id)

	assert.Equal(t, "TASK#"+id.String(), key)
	assert.Equal(t, key, DeriveKey(id), "misma entrada, misma clave")

	other := uuid.New()
	assert.NotEqual(t, key, DeriveKey(other), "IDs distintos no pueden colisionar")
	assert.True(t, strings.HasPrefix(key, KeyPrefix))
}

// TestRecordRoundTrip valida Task(ToRecord(t)) == t para tareas con
// todos los campos presentes.
func TestRecordRoundTrip(t *testing.T) {
	detail := "con detalle"
	due := NowUTC().Add(24 * time.Hour)
	task := &Task{
		ID:         uuid.New(),
		Title:      "Tarea completa",
		Detail:     &detail,
		DueAt:      &due,
		IsComplete: true,
		CreatedAt:  NowUTC(),
		UpdatedAt:  NowUTC(),
	}

	rec := ToRecord(task)

	assert.Equal(t, DeriveKey(task.ID), rec.PK, "la clave se deriva siempre del ID")
	assert.Equal(t, task, rec.Task())
}

func TestRecordRoundTrip_OptionalsAbsent(t *testing.T) {
	task := &Task{
		ID:        uuid.New(),
		Title:     "Sin opcionales",
		CreatedAt: NowUTC(),
		UpdatedAt: NowUTC(),
	}

	rec := ToRecord(task)

	assert.Nil(t, rec.Detail)
	assert.Nil(t, rec.DueAt)
	assert.Equal(t, task, rec.Task())
}

// TestRecordSerialization_OmitsAbsentOptionals valida que un opcional
// ausente no aparece en el registro serializado: ni presente-pero-null
// ni presente-pero-vacío.
func TestRecordSerialization_OmitsAbsentOptionals(t *testing.T) {
	task := &Task{
		ID:        uuid.New(),
		Title:     "Sin opcionales",
		CreatedAt: NowUTC(),
		UpdatedAt: NowUTC(),
	}

	data, err := json.Marshal(ToRecord(task))
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw, "detail")
	assert.NotContains(t, raw, "dueAt")
	assert.Contains(t, raw, "isComplete", "isComplete está presente siempre, aunque sea false")
}

// TestTaskSerialization_NoStoreKey valida que la clave interna del
// store no se filtra en la representación externa.
func TestTaskSerialization_NoStoreKey(t *testing.T) {
	task := &Task{
		ID:        uuid.New(),
		Title:     "Frontera limpia",
		CreatedAt: NowUTC(),
		UpdatedAt: NowUTC(),
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw, "pk")
	assert.NotContains(t, string(data), KeyPrefix)
}
