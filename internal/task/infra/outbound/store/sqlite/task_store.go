package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"

	"github.com/google/uuid"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"
)

// TaskStoreSQLite implementa TaskStore sobre SQLite para despliegues
// locales. Mismo esquema que Postgres: tabla keyed por la columna pk.
type TaskStoreSQLite struct {
	db *sql.DB
}

// NewTaskStoreSQLite es el constructor del adapter.
func NewTaskStoreSQLite(db *sql.DB) *TaskStoreSQLite {
	return &TaskStoreSQLite{db: db}
}

var patchColumns = map[string]string{
	taskDomain.FieldTitle:      "title",
	taskDomain.FieldDetail:     "detail",
	taskDomain.FieldDueAt:      "due_at",
	taskDomain.FieldIsComplete: "is_complete",
	taskDomain.FieldUpdatedAt:  "updated_at",
}

var patchFieldOrder = []string{
	taskDomain.FieldTitle,
	taskDomain.FieldDetail,
	taskDomain.FieldDueAt,
	taskDomain.FieldIsComplete,
	taskDomain.FieldUpdatedAt,
}

const taskColumns = "id, title, detail, due_at, is_complete, created_at, updated_at"

// ------------------ Escritura ------------------

// Create es un put incondicional (INSERT OR REPLACE por pk). Los
// opcionales ausentes se materializan como NULL.
func (s *TaskStoreSQLite) Create(ctx context.Context, t *taskDomain.Task) error {
	rec := taskDomain.ToRecord(t)

	var detail sql.NullString
	if rec.Detail != nil {
		detail = sql.NullString{String: *rec.Detail, Valid: true}
	}
	var dueAt sql.NullTime
	if rec.DueAt != nil {
		dueAt = sql.NullTime{Time: *rec.DueAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tasks (pk, id, title, detail, due_at, is_complete, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		rec.PK, rec.ID.String(), rec.Title, detail, dueAt, rec.IsComplete, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

// Update aplica el patch en una transacción: UPDATE condicionado por
// filas afectadas y SELECT de la fila resultante. El driver no soporta
// RETURNING de forma fiable, de ahí los dos pasos.
func (s *TaskStoreSQLite) Update(ctx context.Context, id uuid.UUID, patch taskDomain.UpdatePatch) (*taskDomain.Task, error) {
	removed := make(map[string]bool, len(patch.Remove))
	for _, f := range patch.Remove {
		removed[f] = true
	}

	var clauses []string
	var args []interface{}
	for _, field := range patchFieldOrder {
		col := patchColumns[field]
		if v, ok := patch.Set[field]; ok {
			clauses = append(clauses, col+" = ?")
			args = append(args, v)
		} else if removed[field] {
			clauses = append(clauses, col+" = NULL")
		}
	}

	key := taskDomain.DeriveKey(id)
	args = append(args, key)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE tasks SET %s WHERE pk = ?", strings.Join(clauses, ", ")), args...)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, taskDomain.ErrTaskNotFound
	}

	row := tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE pk = ?`, key)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteByID usa las filas afectadas como condición de existencia.
func (s *TaskStoreSQLite) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE pk = ?`, taskDomain.DeriveKey(id))
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

// ------------------ Lectura ------------------

func (s *TaskStoreSQLite) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE pk = ?`, taskDomain.DeriveKey(id))

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskStoreSQLite) List(ctx context.Context) ([]*taskDomain.Task, error) {
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

// ------------------ Mapeo de filas ------------------

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask reconstruye la entidad con manejo de errores en uuid.Parse.
func scanTask(row rowScanner) (*taskDomain.Task, error) {
	var t taskDomain.Task
	var idStr string
	var detail sql.NullString
	var dueAt sql.NullTime
	var isComplete int64

	if err := row.Scan(&idStr, &t.Title, &detail, &dueAt, &isComplete, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.IsComplete = isComplete != 0

	parsedID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in task row: %w", err)
	}
	t.ID = parsedID

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

// InitSQLiteTaskSchema crea la tabla 'tasks' si no existe.
func InitSQLiteTaskSchema(db *sql.DB) error {
	_, err := db.Exec(`
    CREATE TABLE IF NOT EXISTS tasks (
        pk TEXT PRIMARY KEY,
        id TEXT NOT NULL,
        title TEXT NOT NULL,
        detail TEXT,
        due_at TIMESTAMP,
        is_complete INTEGER NOT NULL,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}

// Verificación estática de la interfaz
var _ taskDomain.TaskStore = (*TaskStoreSQLite)(nil)
