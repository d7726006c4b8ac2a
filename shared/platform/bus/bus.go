package bus

import "context"

// Keyer lo implementan los payloads que saben su clave de partición.
// El publisher de Kafka la usa como key del mensaje para que los
// eventos de una misma tarea caigan en la misma partición.
type Keyer interface {
	PartitionKey() string
}

// EventPublisher publica eventos de integración. La semántica de topic
// y el formato del payload los decide cada adapter.
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}
