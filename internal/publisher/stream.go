package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"autoradar/internal/model"

	"github.com/redis/go-redis/v9"
)

// StreamPublisher publishes detected opportunities to Redis Streams so
// alerting consumers (notification bots, dashboards) can react without
// polling the API.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// Publish pushes one scored vehicle to the global stream and, when the
// vehicle carries a cab facet, to a facet-suffixed stream as well.
func (p *StreamPublisher) Publish(ctx context.Context, vehicle model.ScoredVehicle) error {
	payload, err := json.Marshal(vehicle)
	if err != nil {
		return fmt.Errorf("failed to marshal opportunity: %w", err)
	}

	if err := p.add(ctx, p.stream, payload); err != nil {
		return err
	}

	if vehicle.Facet == model.FacetUnknown {
		return nil
	}
	return p.add(ctx, fmt.Sprintf("%s.%s", p.stream, vehicle.Facet), payload)
}

func (p *StreamPublisher) add(ctx context.Context, stream string, payload []byte) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"opportunity": string(payload),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", stream, err)
	}
	return nil
}
