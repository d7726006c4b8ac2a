package domain

import (
	"time"

	"github.com/google/uuid"
)

// KeyPrefix es el prefijo fijo de la clave de partición. La clave se
// deriva siempre del ID con la misma función: nunca se guarda por su
// cuenta ni se expone fuera de la frontera del store.
const KeyPrefix = "TASK#"

// DeriveKey calcula la clave de partición de una tarea. Es pura y
// determinista: mismo ID, misma clave; IDs distintos no colisionan
// por construcción (prefijo + UUID).
func DeriveKey(id uuid.UUID) string {
	return KeyPrefix + id.String()
}

// TaskRecord es la representación almacenada: la Task más la clave
// derivada. Los tags sirven a los adapters de documento/KV; los
// relacionales mapean columna a columna. Los opcionales conservan la
// semántica de puntero para que un campo ausente no se escriba nunca.
type TaskRecord struct {
	PK         string     `bson:"_id" json:"pk"`
	ID         uuid.UUID  `bson:"id" json:"id"`
	Title      string     `bson:"title" json:"title"`
	Detail     *string    `bson:"detail,omitempty" json:"detail,omitempty"`
	DueAt      *time.Time `bson:"dueAt,omitempty" json:"dueAt,omitempty"`
	IsComplete bool       `bson:"isComplete" json:"isComplete"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ToRecord construye la representación almacenada: copia los campos de
// la tarea y añade la clave derivada.
func ToRecord(t *Task) *TaskRecord {
	return &TaskRecord{
		PK:         DeriveKey(t.ID),
		ID:         t.ID,
		Title:      t.Title,
		Detail:     t.Detail,
		DueAt:      t.DueAt,
		IsComplete: t.IsComplete,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// Task reconstruye la entidad descartando la clave interna del store.
// Propiedad de ida y vuelta: Task(ToRecord(t)) == t para toda t válida.
func (r *TaskRecord) Task() *Task {
	return &Task{
		ID:         r.ID,
		Title:      r.Title,
		Detail:     r.Detail,
		DueAt:      r.DueAt,
		IsComplete: r.IsComplete,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
