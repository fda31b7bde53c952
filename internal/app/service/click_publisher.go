package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/useragent"
	infraprom "github.com/linkdeck/linkdeck/internal/infra/prometheus"
	"github.com/nats-io/nats.go"
)

// ClickSink receives one click event per successful short-link resolution.
// Implementations must be safe for concurrent use; the resolver calls Record
// from fire-and-forget goroutines.
type ClickSink interface {
	Record(event model.ClickEvent) error
}

// ClickPublisher publishes click events to NATS JetStream. The client is
// classified here, on the publisher side, so the stored event matches what
// the redirect observed even if the consumer lags.
type ClickPublisher struct {
	js nats.JetStreamContext
}

// NewClickPublisher creates a new click event publisher.
func NewClickPublisher(js nats.JetStreamContext) *ClickPublisher {
	return &ClickPublisher{js: js}
}

// Record classifies the client and publishes the event to the click stream.
func (p *ClickPublisher) Record(event model.ClickEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c := useragent.Classify(event.UserAgent)
	event.DeviceType = c.DeviceType
	event.Browser = c.Browser
	event.OS = c.OS

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := p.js.Publish(model.ClickStreamSubject, data); err != nil {
		return err
	}

	infraprom.ClickEventsPublished.Inc()
	return nil
}
