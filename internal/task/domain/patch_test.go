package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestBuildUpdatePatch_AllFieldsProvided: los opcionales presentes se
// escriben, nada se elimina.
func TestBuildUpdatePatch_AllFieldsProvided(t *testing.T) {
	now := NowUTC()
	detail := "detalle nuevo"
	due := now.Add(48 * time.Hour)

	p := BuildUpdatePatch(UpdateInput{
		Title:      "Título",
		IsComplete: true,
		Detail:     &detail,
		DueAt:      &due,
	}, now)

	assert.Equal(t, map[string]any{
		FieldTitle:      "Título",
		FieldIsComplete: true,
		FieldUpdatedAt:  now,
		FieldDetail:     detail,
		FieldDueAt:      due,
	}, p.Set)
	assert.Empty(t, p.Remove)
}

// TestBuildUpdatePatch_OptionalsOmitted: omitir un opcional significa
// eliminarlo del registro, no conservarlo.
func TestBuildUpdatePatch_OptionalsOmitted(t *testing.T) {
	now := NowUTC()

	p := BuildUpdatePatch(UpdateInput{Title: "Solo título", IsComplete: false}, now)

	assert.Equal(t, map[string]any{
		FieldTitle:      "Solo título",
		FieldIsComplete: false,
		FieldUpdatedAt:  now,
	}, p.Set)
	assert.Equal(t, []string{FieldDetail, FieldDueAt}, p.Remove)
}

// TestBuildUpdatePatch_NeverTouchesIdentity: id y createdAt no aparecen
// en el patch bajo ninguna combinación de input.
func TestBuildUpdatePatch_NeverTouchesIdentity(t *testing.T) {
	p := BuildUpdatePatch(UpdateInput{Title: "x", IsComplete: true}, NowUTC())

	assert.NotContains(t, p.Set, "id")
	assert.NotContains(t, p.Set, "createdAt")
	assert.NotContains(t, p.Remove, "id")
	assert.NotContains(t, p.Remove, "createdAt")
}

// TestUpdatePatch_Apply valida la aplicación local del patch (la que
// usan el store de Redis y el fake en memoria).
func TestUpdatePatch_Apply(t *testing.T) {
	created := NowUTC().Add(-time.Hour)
	oldDetail := "detalle viejo"
	task := &Task{
		ID:        uuid.New(),
		Title:     "Antes",
		Detail:    &oldDetail,
		CreatedAt: created,
		UpdatedAt: created,
	}
	rec := ToRecord(task)

	now := NowUTC()
	p := BuildUpdatePatch(UpdateInput{Title: "Después", IsComplete: true}, now)
	p.Apply(rec)

	assert.Equal(t, "Después", rec.Title)
	assert.True(t, rec.IsComplete)
	assert.Equal(t, now, rec.UpdatedAt)
	assert.Nil(t, rec.Detail, "el detalle omitido debe eliminarse aunque estuviera presente")
	assert.Nil(t, rec.DueAt)
	assert.Equal(t, created, rec.CreatedAt, "createdAt no cambia nunca tras la creación")
	assert.Equal(t, task.ID, rec.ID)
	assert.Equal(t, DeriveKey(task.ID), rec.PK)
}

func TestUpdatePatch_Apply_SetsOptionals(t *testing.T) {
	task := &Task{ID: uuid.New(), Title: "Antes", CreatedAt: NowUTC(), UpdatedAt: NowUTC()}
	rec := ToRecord(task)

	now := NowUTC()
	detail := "detalle nuevo"
	due := now.Add(time.Hour)
	p := BuildUpdatePatch(UpdateInput{Title: "Antes", IsComplete: false, Detail: &detail, DueAt: &due}, now)
	p.Apply(rec)

	if assert.NotNil(t, rec.Detail) {
		assert.Equal(t, detail, *rec.Detail)
	}
	if assert.NotNil(t, rec.DueAt) {
		assert.Equal(t, due, *rec.DueAt)
	}
}
