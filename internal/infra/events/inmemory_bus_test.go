package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventBus_DeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus("task-events")
	ch := bus.Subscribe(4)

	err := bus.Publish(context.Background(), map[string]string{"type": "task.created"})
	require.NoError(t, err)

	select {
	case payload := <-ch:
		assert.Contains(t, string(payload), "task.created")
	case <-time.After(time.Second):
		t.Fatal("el suscriptor no recibió el evento")
	}
}

func TestInMemoryEventBus_DropsWhenBufferFull(t *testing.T) {
	bus := NewInMemoryEventBus("task-events")
	ch := bus.Subscribe(1)

	require.NoError(t, bus.Publish(context.Background(), "uno"))
	require.NoError(t, bus.Publish(context.Background(), "dos"))

	// El primero llega; el segundo se descartó sin bloquear al publisher
	<-ch
	select {
	case extra := <-ch:
		t.Fatalf("no debería haber más mensajes, llegó: %s", extra)
	default:
	}
}
