package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CloudEvent is the envelope wrapped around every event published to Kafka.
type CloudEvent struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	SpecVersion string          `json:"specversion"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	Subject     string          `json:"subject,omitempty"`
	Data        json.RawMessage `json:"data"`
}

// NewCloudEvent wraps the payload in a CloudEvent envelope.
func NewCloudEvent(eventType, source, subject string, data interface{}) (*CloudEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return &CloudEvent{
		ID:          uuid.New().String(),
		Source:      source,
		SpecVersion: "1.0",
		Type:        eventType,
		Time:        time.Now().UTC(),
		Subject:     subject,
		Data:        payload,
	}, nil
}

// ParseCloudEvent decodes a raw Kafka message value into a CloudEvent.
func ParseCloudEvent(raw []byte) (CloudEvent, error) {
	var event CloudEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return CloudEvent{}, fmt.Errorf("failed to parse cloud event: %w", err)
	}
	return event, nil
}

// ParseData unmarshals the event payload into the given target.
func (e *CloudEvent) ParseData(target interface{}) error {
	if err := json.Unmarshal(e.Data, target); err != nil {
		return fmt.Errorf("failed to parse event data for type %s: %w", e.Type, err)
	}
	return nil
}
