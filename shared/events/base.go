package events

import (
	"encoding/json"
	"time"
)

// IntegrationEvent es el sobre común de todos los eventos que salen del
// servicio. Data lleva el contenido específico de cada tipo.
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}
