package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL
)

// TaskStorePostgres implementa TaskStore sobre una tabla relacional
// con una única columna clave (pk = TASK#<id>). Los opcionales
// eliminados se materializan como NULL.
type TaskStorePostgres struct {
	db *sql.DB
}

// NewTaskStorePostgres es el constructor del adapter.
func NewTaskStorePostgres(db *sql.DB) *TaskStorePostgres {
	return &TaskStorePostgres{db: db}
}

// patchColumns traduce los nombres neutrales del patch a columnas.
var patchColumns = map[string]string{
	taskDomain.FieldTitle:      "title",
	taskDomain.FieldDetail:     "detail",
	taskDomain.FieldDueAt:      "due_at",
	taskDomain.FieldIsComplete: "is_complete",
	taskDomain.FieldUpdatedAt:  "updated_at",
}

// patchFieldOrder fija el orden de las cláusulas SET generadas.
var patchFieldOrder = []string{
	taskDomain.FieldTitle,
	taskDomain.FieldDetail,
	taskDomain.FieldDueAt,
	taskDomain.FieldIsComplete,
	taskDomain.FieldUpdatedAt,
}

const taskColumns = "id, title, detail, due_at, is_complete, created_at, updated_at"

// --- Escritura ---

// Create es un upsert por pk: el put no lleva guardia de existencia.
func (s *TaskStorePostgres) Create(ctx context.Context, t *taskDomain.Task) error {
	rec := taskDomain.ToRecord(t)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (pk, id, title, detail, due_at, is_complete, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (pk) DO UPDATE SET
		   title = EXCLUDED.title, detail = EXCLUDED.detail, due_at = EXCLUDED.due_at,
		   is_complete = EXCLUDED.is_complete, created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at`,
		rec.PK, rec.ID, rec.Title, rec.Detail, rec.DueAt, rec.IsComplete, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

// Update genera las cláusulas SET desde el patch (los removes quedan en
// NULL) y resuelve existencia y lectura posterior en una sola sentencia
// con RETURNING.
func (s *TaskStorePostgres) Update(ctx context.Context, id uuid.UUID, patch taskDomain.UpdatePatch) (*taskDomain.Task, error) {
	removed := make(map[string]bool, len(patch.Remove))
	for _, f := range patch.Remove {
		removed[f] = true
	}

	var clauses []string
	var args []interface{}
	for _, field := range patchFieldOrder {
		col := patchColumns[field]
		if v, ok := patch.Set[field]; ok {
			args = append(args, v)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
		} else if removed[field] {
			clauses = append(clauses, col+" = NULL")
		}
	}

	args = append(args, taskDomain.DeriveKey(id))
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE pk = $%d RETURNING %s",
		strings.Join(clauses, ", "), len(args), taskColumns)

	row := s.db.QueryRowContext(ctx, query, args...)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// DeleteByID usa las filas afectadas como condición de existencia.
func (s *TaskStorePostgres) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE pk = $1`, taskDomain.DeriveKey(id))
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

// --- Lectura ---

func (s *TaskStorePostgres) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE pk = $1`, taskDomain.DeriveKey(id))

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskStorePostgres) List(ctx context.Context) ([]*taskDomain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*taskDomain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// --- Mapeo de filas ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*taskDomain.Task, error) {
	var t taskDomain.Task
	var detail sql.NullString
	var dueAt sql.NullTime

	if err := row.Scan(&t.ID, &t.Title, &detail, &dueAt, &t.IsComplete, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	if detail.Valid {
		t.Detail = &detail.String
	}
	if dueAt.Valid {
		d := dueAt.Time.UTC()
		t.DueAt = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()

	return &t, nil
}

// ------------------ Inicialización del Esquema ------------------

// InitPostgresTaskSchema crea la tabla 'tasks' si no existe.
func InitPostgresTaskSchema(db *sql.DB) error {
	_, err := db.Exec(`
    CREATE TABLE IF NOT EXISTS tasks (
        pk TEXT PRIMARY KEY,
        id UUID NOT NULL,
        title TEXT NOT NULL,
        detail TEXT,
        due_at TIMESTAMP WITH TIME ZONE,
        is_complete BOOLEAN NOT NULL,
        created_at TIMESTAMP WITH TIME ZONE NOT NULL,
        updated_at TIMESTAMP WITH TIME ZONE NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}

// Verificación estática de la interfaz
var _ taskDomain.TaskStore = (*TaskStorePostgres)(nil)
