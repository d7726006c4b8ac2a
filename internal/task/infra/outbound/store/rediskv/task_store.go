package rediskv

import (
	"context"
	"encoding/json"
	"errors"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// TaskStoreRedis implementa TaskStore sobre un motor clave-valor: cada
// registro se guarda como JSON bajo su clave derivada TASK#<id>, y el
// scan de la "tabla" es un SCAN por el prefijo. Los registros no
// expiran: esto es persistencia, no caché.
type TaskStoreRedis struct {
	client *redis.Client
}

// NewTaskStoreRedis es el constructor del adapter.
func NewTaskStoreRedis(client *redis.Client) *TaskStoreRedis {
	return &TaskStoreRedis{client: client}
}

// --- Escritura ---

// Create es un SET incondicional, sin TTL.
func (s *TaskStoreRedis) Create(ctx context.Context, t *taskDomain.Task) error {
	rec := taskDomain.ToRecord(t)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rec.PK, data, 0).Err()
}

// Update lee el registro, le aplica el patch y lo reescribe con SET XX
// (solo-si-existe). Entre el GET y el SET puede colarse otra escritura:
// gana el último escritor, igual que en el resto de backends; la
// condición de existencia es la única guardia.
func (s *TaskStoreRedis) Update(ctx context.Context, id uuid.UUID, patch taskDomain.UpdatePatch) (*taskDomain.Task, error) {
	key := taskDomain.DeriveKey(id)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}

	var rec taskDomain.TaskRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	patch.Apply(&rec)

	updated, err := json.Marshal(&rec)
	if err != nil {
		return nil, err
	}

	ok, err := s.client.SetXX(ctx, key, updated, 0).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		// La clave desapareció entre el GET y el SET.
		return nil, taskDomain.ErrTaskNotFound
	}
	return rec.Task(), nil
}

// DeleteByID usa el contador de DEL como condición de existencia.
func (s *TaskStoreRedis) DeleteByID(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.client.Del(ctx, taskDomain.DeriveKey(id)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

// --- Lectura ---

func (s *TaskStoreRedis) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	data, err := s.client.Get(ctx, taskDomain.DeriveKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}

	var rec taskDomain.TaskRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec.Task(), nil
}

// List recorre las claves TASK#* con SCAN y las trae con MGET. El orden
// lo decide Redis; los callers no deben depender de él.
func (s *TaskStoreRedis) List(ctx context.Context) ([]*taskDomain.Task, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, taskDomain.KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	tasks := []*taskDomain.Task{}
	if len(keys) == 0 {
		return tasks, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Clave borrada entre el SCAN y el MGET.
			continue
		}
		var rec taskDomain.TaskRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		tasks = append(tasks, rec.Task())
	}

	return tasks, nil
}

// Verificación estática de la interfaz
var _ taskDomain.TaskStore = (*TaskStoreRedis)(nil)
