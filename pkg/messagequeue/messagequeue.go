package messagequeue

import "context"

// Publisher defines the interface for publishing messages to a named queue.
type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	Close() error
}
