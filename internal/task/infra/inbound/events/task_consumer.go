// en internal/task/infra/inbound/events/task_consumer.go
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"
	sharedEvents "github.com/davicafu/taskvault/shared/events"
)

// TaskAnalyticsConsumer escucha los eventos de tarea y los vuelca por
// lotes en el log de analítica. Vive completamente fuera del camino de
// la petición: perder un lote no afecta al estado del store.
type TaskAnalyticsConsumer struct {
	analytics taskDomain.TaskAnalytics
	log       *zap.Logger

	mu        sync.Mutex
	buffer    []taskDomain.TaskEvent
	batchSize int
}

// NewTaskAnalyticsConsumer es el constructor. batchSize controla cuántos
// eventos se acumulan antes de escribir en ClickHouse.
func NewTaskAnalyticsConsumer(analytics taskDomain.TaskAnalytics, batchSize int, log *zap.Logger) *TaskAnalyticsConsumer {
	if batchSize < 1 {
		batchSize = 1
	}
	return &TaskAnalyticsConsumer{
		analytics: analytics,
		batchSize: batchSize,
		log:       log,
	}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *TaskAnalyticsConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event for task", zap.String("key", key), zap.Error(err))
		return
	}

	var evt taskDomain.TaskEvent
	switch base.Type {
	case taskDomain.TaskCreated, taskDomain.TaskUpdated:
		var changed sharedEvents.TaskChanged
		if err := json.Unmarshal(base.Data, &changed); err != nil {
			c.log.Warn("Failed to unmarshal task payload", zap.String("type", base.Type), zap.Error(err))
			return
		}
		evt = taskDomain.TaskEvent{
			EventType:  base.Type,
			EventTime:  base.Timestamp,
			ID:         changed.ID,
			Title:      changed.Title,
			IsComplete: changed.IsComplete,
			CreatedAt:  changed.CreatedAt,
			UpdatedAt:  changed.UpdatedAt,
		}

	case taskDomain.TaskDeleted:
		var deleted sharedEvents.TaskDeleted
		if err := json.Unmarshal(base.Data, &deleted); err != nil {
			c.log.Warn("Failed to unmarshal task payload", zap.String("type", base.Type), zap.Error(err))
			return
		}
		evt = taskDomain.TaskEvent{
			EventType: base.Type,
			EventTime: base.Timestamp,
			ID:        deleted.ID,
		}

	default:
		c.log.Warn("Unknown task event type", zap.String("type", base.Type), zap.String("key", key))
		return
	}

	c.mu.Lock()
	c.buffer = append(c.buffer, evt)
	full := len(c.buffer) >= c.batchSize
	c.mu.Unlock()

	if full {
		c.Flush(ctx)
	}
}

// Flush escribe el buffer acumulado en el log de analítica.
func (c *TaskAnalyticsConsumer) Flush(ctx context.Context) {
	c.mu.Lock()
	batch := c.buffer
	c.buffer = nil
	c.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	if err := c.analytics.LogEvents(ctx, batch); err != nil {
		c.log.Warn("Failed to log task events batch",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		return
	}
	c.log.Debug("Task events batch logged", zap.Int("batch_size", len(batch)))
}

// StartPeriodicFlush vacía el buffer cada 'period' aunque no se llene,
// para que los lotes pequeños no se queden retenidos.
func (c *TaskAnalyticsConsumer) StartPeriodicFlush(ctx context.Context, period time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				c.Flush(context.Background())
				c.log.Info("TaskAnalyticsConsumer stopped")
				return
			case <-ticker.C:
				c.Flush(ctx)
			}
		}
	}()
}

// BackgroundConsumerChan consume eventos desde un canal del bus en
// memoria (modo local, sin Kafka).
func BackgroundConsumerChan(ctx context.Context, ch <-chan []byte, consumer *TaskAnalyticsConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case payload := <-ch:
				consumer.HandleMessage(ctx, "", payload)
			}
		}
	}()
}
