package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueService consumes newsletter issues published on an AMQP topic.
type QueueService struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewQueueService(url string) (*QueueService, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &QueueService{
		conn: conn,
		ch:   ch,
	}, nil
}

// Consume declares the topic queue and streams raw message bodies until ctx
// is canceled.
func (s *QueueService) Consume(ctx context.Context, topic string) (<-chan []byte, error) {
	q, err := s.ch.QueueDeclare(
		topic,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	deliveries, err := s.ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	messages := make(chan []byte)

	go forward(ctx, deliveries, messages)

	return messages, nil
}

// forward copies delivery bodies into messages until ctx is canceled or the
// broker closes the delivery stream.
func forward(ctx context.Context, deliveries <-chan amqp.Delivery, messages chan<- []byte) {
	defer close(messages)

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			messages <- d.Body
		}
	}
}

// Close tears down the channel and the underlying connection.
func (s *QueueService) Close() error {
	if err := s.ch.Close(); err != nil {
		return err
	}
	return s.conn.Close()
}
