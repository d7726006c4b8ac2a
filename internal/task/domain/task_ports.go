package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTaskNotFound es el único señalizador de "no existe" que cruza la
// frontera del store. Los adapters traducen el miss de su driver
// (mongo.ErrNoDocuments, redis.Nil, sql.ErrNoRows, cero filas afectadas)
// a este centinela; cualquier otro error de transporte se propaga tal
// cual, sin reintentos ni traducción.
var ErrTaskNotFound = errors.New("task not found")

// --- Puerto de persistencia ---

// TaskStore es el conjunto de operaciones sobre la tabla única de
// tareas. Cada llamada es UNA petición al store subyacente; la
// atomicidad por clave la da el propio store.
type TaskStore interface {
	// List devuelve todas las tareas vía scan completo, en el orden que
	// reporte el store (los callers no deben depender de él). Un store
	// vacío produce un slice vacío, no un error.
	List(ctx context.Context) ([]*Task, error)

	// GetByID busca por la clave derivada del ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// Create escribe el registro sin condición de existencia: los IDs
	// los genera el servicio y no se esperan colisiones.
	Create(ctx context.Context, t *Task) error

	// Update aplica el patch condicionado a que la clave exista, y
	// devuelve la tarea resultante tras la escritura.
	Update(ctx context.Context, id uuid.UUID, patch UpdatePatch) (*Task, error)

	// DeleteByID elimina el registro condicionado a que la clave exista.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// --- Puerto de analítica ---

// TaskEvent es una fila del log de auditoría: la foto de la tarea en el
// momento del evento más el tipo de evento y su instante.
type TaskEvent struct {
	EventType  string
	EventTime  time.Time
	ID         uuid.UUID
	Title      string
	IsComplete bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DailyTaskTrend transporta los resultados de la consulta de tendencia.
type DailyTaskTrend struct {
	Day            time.Time
	CreatedCount   int
	CompletedCount int
}

// TaskAnalytics es el sumidero append-only de eventos de tarea. Vive
// fuera del camino de la petición: lo alimenta el consumidor de eventos.
type TaskAnalytics interface {
	LogEvents(ctx context.Context, events []TaskEvent) error
	GetDailyTrend(ctx context.Context, start, end time.Time) ([]DailyTaskTrend, error)
}
