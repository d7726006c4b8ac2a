package events

import (
	"context"
	"encoding/json"
	"sync"

	sharedBus "github.com/davicafu/taskvault/shared/platform/bus"
)

// InMemoryEventBus implementa un bus de eventos para UN solo topic,
// pensado para despliegues locales sin Kafka. La entrega es
// best-effort: si el buffer de un suscriptor está lleno, su mensaje
// se descarta.
type InMemoryEventBus struct {
	subscribers []chan []byte
	mu          sync.RWMutex
	topic       string
}

// Verifica en tiempo de compilación que cumple la interfaz
var _ sharedBus.EventPublisher = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus crea un bus de eventos para un topic específico.
func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make([]chan []byte, 0),
		topic:       topic,
	}
}

// Publish serializa el evento y lo reparte a todos los suscriptores.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, subChan := range b.subscribers {
		select {
		case subChan <- payload:
		default:
		}
	}
	return nil
}

// Subscribe suscribe un nuevo oyente a este bus.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	subChan := make(chan []byte, bufferSize)
	b.subscribers = append(b.subscribers, subChan)
	return subChan
}

// Topic devuelve el topic que maneja este bus.
func (b *InMemoryEventBus) Topic() string { return b.topic }
