package application

import (
	"context"
	"encoding/json"
	"errors"

	sharedEvents "github.com/davicafu/taskvault/shared/events"
	sharedBus "github.com/davicafu/taskvault/shared/platform/bus"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService define los casos de uso de Task: traduce las intenciones
// del API (create/get/list/update/delete) a operaciones del store y
// publica el evento de integración correspondiente tras cada mutación.
type TaskService struct {
	store     taskDomain.TaskStore
	publisher sharedBus.EventPublisher
	log       *zap.Logger
}

// NewTaskService es el constructor del servicio. El publisher puede ser
// nil (p.ej. en tests o despliegues sin bus): la publicación se omite.
func NewTaskService(store taskDomain.TaskStore, publisher sharedBus.EventPublisher, log *zap.Logger) *TaskService {
	return &TaskService{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// CreateTask genera el ID, estampa createdAt == updatedAt y escribe el
// registro sin condición de existencia.
func (s *TaskService) CreateTask(ctx context.Context, in taskDomain.CreateInput) (*taskDomain.Task, error) {
	task := taskDomain.NewTask(in, taskDomain.NowUTC())

	if err := s.store.Create(ctx, task); err != nil {
		s.log.Error("Failed to create task", zap.Error(err))
		return nil, err
	}

	s.publish(ctx, taskDomain.TaskCreated, task.ID, changedPayload(task))
	return task, nil
}

// GetTask busca por ID. Un miss llega como taskDomain.ErrTaskNotFound.
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			s.log.Warn("Task not found", zap.String("task_id", id.String()))
		} else {
			s.log.Error("Failed to fetch task", zap.String("task_id", id.String()), zap.Error(err))
		}
		return nil, err
	}
	return task, nil
}

// ListTasks es un pass-through al scan completo del store.
func (s *TaskService) ListTasks(ctx context.Context) ([]*taskDomain.Task, error) {
	return s.store.List(ctx)
}

// UpdateTask compila el input en un patch declarativo y lo aplica
// condicionado a existencia. Devuelve la tarea resultante.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, in taskDomain.UpdateInput) (*taskDomain.Task, error) {
	patch := taskDomain.BuildUpdatePatch(in, taskDomain.NowUTC())

	task, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if !errors.Is(err, taskDomain.ErrTaskNotFound) {
			s.log.Error("Failed to update task", zap.String("task_id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	s.publish(ctx, taskDomain.TaskUpdated, task.ID, changedPayload(task))
	return task, nil
}

// DeleteTask elimina condicionado a existencia.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		if !errors.Is(err, taskDomain.ErrTaskNotFound) {
			s.log.Error("Failed to delete task", zap.String("task_id", id.String()), zap.Error(err))
		}
		return err
	}

	s.publish(ctx, taskDomain.TaskDeleted, id, sharedEvents.TaskDeleted{ID: id})
	return nil
}

// --- Publicación best-effort ---

// keyedEvent envuelve el sobre de integración con la clave de partición
// del registro, para que Kafka agrupe los eventos de una misma tarea.
type keyedEvent struct {
	sharedEvents.IntegrationEvent
	key string
}

func (e keyedEvent) PartitionKey() string { return e.key }

func (s *TaskService) publish(ctx context.Context, eventType string, id uuid.UUID, payload interface{}) {
	if s.publisher == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("Failed to marshal event payload", zap.String("type", eventType), zap.Error(err))
		return
	}

	evt := keyedEvent{
		IntegrationEvent: sharedEvents.IntegrationEvent{
			Type:      eventType,
			Timestamp: taskDomain.NowUTC(),
			Data:      data,
		},
		key: taskDomain.DeriveKey(id),
	}

	// Un fallo de publicación no revierte la escritura ni se propaga.
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("Failed to publish task event",
			zap.String("type", eventType),
			zap.String("task_id", id.String()),
			zap.Error(err),
		)
	}
}

func changedPayload(t *taskDomain.Task) sharedEvents.TaskChanged {
	return sharedEvents.TaskChanged{
		ID:         t.ID,
		Title:      t.Title,
		Detail:     t.Detail,
		DueAt:      t.DueAt,
		IsComplete: t.IsComplete,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
