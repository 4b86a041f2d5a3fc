package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// EventSerializer converts domain events to and from the JSON payload
// stored in the outbox table. Deserialization needs the concrete Go
// type, so every event type must be registered at startup.
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]reflect.Type)}
}

// Register associates an event type name with the concrete type of the
// given instance. The name must match the event's EventType().
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	s.mu.Lock()
	s.types[eventType] = t
	s.mu.Unlock()
}

func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize reconstructs an event from its stored payload
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	instance := reflect.New(t).Interface()
	if err := json.Unmarshal(data, instance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := instance.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}
	return event, nil
}

func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}

func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	return names
}
