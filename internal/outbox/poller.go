package outbox

import (
	"context"
	"log"
	"time"

	o "github.com/fjod/go_shop/internal/order"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EventSource is the outbox read side. Satisfied by order.Repository.
type EventSource interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*o.OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, id uuid.UUID) error
}

// Writer matches kafka.Writer so tests can inject a recorder.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Poller struct {
	timeout time.Duration
	tick    time.Duration
	repo    EventSource
	writer  Writer
}

func NewPoller(repo EventSource, brokers ...string) *Poller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Poller{time.Second * 5, time.Second, repo, w}
}

// NewPollerWithWriter is the test seam.
func NewPollerWithWriter(repo EventSource, w Writer) *Poller {
	return &Poller{time.Second * 5, time.Second, repo, w}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) processUnpublishedEvents(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	events, err := p.repo.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch events %v", err)
		return
	}

	for _, event := range events {
		errPublish := p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.ID.String()),
			Value: event.Payload,
		})
		if errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		errMark := p.repo.MarkEventProcessed(ctx, event.ID)
		if errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}
