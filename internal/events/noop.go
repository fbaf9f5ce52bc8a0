package events

import "context"

// NoopPublisher discards all events. Used when no NATS URL is
// configured.
type NoopPublisher struct{}

func (p *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
