package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// TaskEventsRepo implementa TaskAnalytics sobre ClickHouse: un log
// append-only de eventos de tarea del que salen las consultas de
// tendencia.
type TaskEventsRepo struct {
	db *sql.DB
}

// NewTaskEventsRepo es el constructor.
func NewTaskEventsRepo(addr string, dbName string) (*TaskEventsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &TaskEventsRepo{db: conn}, nil
}

// LogEvents inserta un lote de eventos. ClickHouse rinde mejor con
// inserciones en lotes, por eso el consumidor acumula antes de llamar.
func (r *TaskEventsRepo) LogEvents(ctx context.Context, events []taskDomain.TaskEvent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO task_events (id, event_type, event_time, title, is_complete, created_at, updated_at)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, evt := range events {
		if _, err := stmt.ExecContext(
			ctx,
			evt.ID,
			evt.EventType,
			evt.EventTime,
			evt.Title,
			evt.IsComplete,
			evt.CreatedAt,
			evt.UpdatedAt,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for task %s: %w", evt.ID, err)
		}
	}

	return tx.Commit()
}

// GetDailyTrend agrega creaciones y compleciones por día.
func (r *TaskEventsRepo) GetDailyTrend(ctx context.Context, start, end time.Time) ([]taskDomain.DailyTaskTrend, error) {
	query := `
		SELECT
			toStartOfDay(event_time) AS day,
			countIf(event_type = 'task.created') AS created,
			countIf(is_complete AND event_type = 'task.updated') AS completed
		FROM task_events
		WHERE event_time BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []taskDomain.DailyTaskTrend
	for rows.Next() {
		var trend taskDomain.DailyTaskTrend
		if err := rows.Scan(&trend.Day, &trend.CreatedCount, &trend.CompletedCount); err != nil {
			return nil, err
		}
		trends = append(trends, trend)
	}
	return trends, rows.Err()
}

// Verificación estática de la interfaz
var _ taskDomain.TaskAnalytics = (*TaskEventsRepo)(nil)
