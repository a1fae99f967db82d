package mailship

import "context"

// QueueService delivers newsletter issues published by other systems.
// Consume returns a channel that closes when ctx is canceled.
type QueueService interface {
	Consume(ctx context.Context, topic string) (<-chan []byte, error)
	Close() error
}
