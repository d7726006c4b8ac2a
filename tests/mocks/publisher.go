package mocks

import (
	"context"
	"encoding/json"
	"sync"

	sharedEvents "github.com/davicafu/taskvault/shared/events"
	sharedBus "github.com/davicafu/taskvault/shared/platform/bus"
)

// CapturingPublisher guarda los eventos publicados para inspeccionarlos
// en los tests. Decodifica el sobre igual que haría un consumidor real.
type CapturingPublisher struct {
	Published []sharedEvents.IntegrationEvent
	Keys      []string
	mu        sync.Mutex
}

func (p *CapturingPublisher) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var ie sharedEvents.IntegrationEvent
	if err := json.Unmarshal(data, &ie); err != nil {
		return err
	}

	var key string
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = keyer.PartitionKey()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published = append(p.Published, ie)
	p.Keys = append(p.Keys, key)
	return nil
}

// Verificación estática
var _ sharedBus.EventPublisher = (*CapturingPublisher)(nil)
