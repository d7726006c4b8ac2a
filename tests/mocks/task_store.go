package mocks

import (
	"context"
	"sync"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"
	"github.com/google/uuid"
)

// InMemoryTaskStore simula TaskStore guardando los registros bajo su
// clave derivada, igual que haría el store real.
type InMemoryTaskStore struct {
	Records map[string]*taskDomain.TaskRecord
	mu      sync.Mutex
}

func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		Records: make(map[string]*taskDomain.TaskRecord),
	}
}

// --- Implementación de la interfaz TaskStore ---

func (s *InMemoryTaskStore) Create(ctx context.Context, t *taskDomain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := taskDomain.ToRecord(t)
	s.Records[rec.PK] = rec
	return nil
}

func (s *InMemoryTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*taskDomain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.Records[taskDomain.DeriveKey(id)]
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}
	return rec.Task(), nil
}

func (s *InMemoryTaskStore) Update(ctx context.Context, id uuid.UUID, patch taskDomain.UpdatePatch) (*taskDomain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := taskDomain.DeriveKey(id)
	rec, ok := s.Records[key]
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}

	updated := *rec
	patch.Apply(&updated)
	s.Records[key] = &updated
	return updated.Task(), nil
}

func (s *InMemoryTaskStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := taskDomain.DeriveKey(id)
	if _, ok := s.Records[key]; !ok {
		return taskDomain.ErrTaskNotFound
	}
	delete(s.Records, key)
	return nil
}

func (s *InMemoryTaskStore) List(ctx context.Context) ([]*taskDomain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := []*taskDomain.Task{}
	for _, rec := range s.Records {
		tasks = append(tasks, rec.Task())
	}
	return tasks, nil
}

// Len devuelve cuántos registros hay guardados.
func (s *InMemoryTaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Records)
}

// Verificación estática
var _ taskDomain.TaskStore = (*InMemoryTaskStore)(nil)
