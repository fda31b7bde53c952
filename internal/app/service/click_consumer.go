package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/linkdeck/linkdeck/internal/app/model"
	apprepository "github.com/linkdeck/linkdeck/internal/app/repository"
	infraprom "github.com/linkdeck/linkdeck/internal/infra/prometheus"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// ClickConsumer drains click events from NATS JetStream, enriches them with
// best-effort geolocation and writes the append-only click rows.
type ClickConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	repo   apprepository.ClickRepository
	geo    *GeolocationService
}

// NewClickConsumer creates a new click event consumer. geo may be nil to
// disable geolocation enrichment.
func NewClickConsumer(js nats.JetStreamContext, logger *zap.Logger, repo apprepository.ClickRepository, geo *GeolocationService) *ClickConsumer {
	return &ClickConsumer{js: js, logger: logger, repo: repo, geo: geo}
}

// Start ensures the stream and durable consumer exist, then begins consuming.
func (c *ClickConsumer) Start() error {
	_, err := c.js.StreamInfo(model.ClickStreamName)
	if err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.ClickStreamName,
			Subjects: []string{model.ClickStreamSubject},
			MaxBytes: model.ClickStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	_, err = c.js.ConsumerInfo(model.ClickStreamName, model.ClickConsumerName)
	if err != nil {
		_, err = c.js.AddConsumer(model.ClickStreamName, &nats.ConsumerConfig{
			Durable:   model.ClickConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.ClickStreamSubject, model.ClickConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *ClickConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.ClickEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal click event", zap.Error(err))
				msg.Nak()
				continue
			}

			click := c.toClickRow(ctx, event)
			if err := c.repo.Create(ctx, click); err != nil {
				c.logger.Error("failed to store click event",
					zap.String("id", event.ID),
					zap.String("link_id", event.LinkID),
					zap.Error(err))
				msg.Nak()
				continue
			}

			infraprom.ClickEventsStored.Inc()
			c.logger.Debug("click event stored",
				zap.String("id", event.ID),
				zap.String("link_id", event.LinkID),
				zap.String("device", click.DeviceType),
				zap.Time("clicked_at", event.Timestamp),
			)

			msg.Ack()
		}
	}
}

func (c *ClickConsumer) toClickRow(ctx context.Context, event model.ClickEvent) *model.LinkClick {
	click := &model.LinkClick{
		ID:         event.ID,
		LinkID:     event.LinkID,
		UserID:     event.UserID,
		IPAddress:  event.IP,
		UserAgent:  event.UserAgent,
		DeviceType: event.DeviceType,
		Browser:    event.Browser,
		OS:         event.OS,
		ClickedAt:  event.Timestamp,
	}
	if event.Referrer != "" {
		click.Referrer = &event.Referrer
	}

	if c.geo != nil {
		// Lookup failures leave the geo fields null; they never block the row.
		loc := c.geo.Lookup(ctx, event.IP)
		click.Country = loc.Country
		click.CountryCode = loc.CountryCode
		click.City = loc.City
		click.Region = loc.Region
		click.Timezone = loc.Timezone
		click.Latitude = loc.Latitude
		click.Longitude = loc.Longitude
	}

	return click
}
