package workspace

import "context"

// DefaultQueueSize is the ingestion queue capacity.
const DefaultQueueSize = 10

// NewQueue creates the bounded ingestion queue. A size below 1 falls back
// to DefaultQueueSize.
func NewQueue(size int) chan Message {
	if size < 1 {
		size = DefaultQueueSize
	}
	return make(chan Message, size)
}

// Producer is the send side of the ingestion queue handed to each event
// source. Sends block while the queue is full; nothing is dropped.
type Producer struct {
	ch chan<- Message
}

// NewProducer wraps the send side of q.
func NewProducer(q chan<- Message) Producer {
	return Producer{ch: q}
}

// Send enqueues msg, waiting for room. It returns ctx.Err() if ctx is
// cancelled first.
func (p Producer) Send(ctx context.Context, msg Message) error {
	select {
	case p.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
