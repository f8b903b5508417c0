package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Delivery is one inbound event together with the topic (queue) it arrived on.
type Delivery struct {
	Topic string
	Body  []byte
}

// Handler processes one delivery. A non-nil error means the event is dropped;
// it is never redelivered.
type Handler func(ctx context.Context, d Delivery) error

// Config holds the broker address and the topics to subscribe to.
type Config struct {
	URL    string
	Queues []string
}

// Consumer reads events from a set of durable queues and hands them to a
// handler one at a time. Order within a queue is preserved; no ordering is
// guaranteed across queues.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queues  []string
	logger  *zap.Logger
}

// Connect dials the broker and declares every configured queue.
func Connect(cfg *Config, logger *zap.Logger) (*Consumer, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("message channel url is required")
	}
	if len(cfg.Queues) == 0 {
		return nil, errors.New("at least one queue is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial message broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	for _, queue := range cfg.Queues {
		if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("declare queue %q: %w", queue, err)
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		queues:  cfg.Queues,
		logger:  logger,
	}, nil
}

func (c *Consumer) Close() error {
	return c.conn.Close()
}

type inbound struct {
	topic string
	msg   amqp.Delivery
}

// Run consumes every configured queue until the context is cancelled or the
// broker connection closes. Deliveries are handled strictly one at a time on
// the calling goroutine and acked regardless of handler outcome: a failed
// event is logged and dropped, never requeued.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	events := make(chan inbound)

	var wg sync.WaitGroup
	for _, queue := range c.queues {
		msgs, err := c.channel.Consume(queue, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume queue %q: %w", queue, err)
		}

		wg.Add(1)
		go func(topic string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for msg := range msgs {
				select {
				case events <- inbound{topic: topic, msg: msg}:
				case <-ctx.Done():
					return
				}
			}
		}(queue, msgs)
	}

	closed := make(chan struct{})
	go func() {
		wg.Wait()
		close(closed)
	}()

	c.logger.Info("consuming queues", zap.Strings("queues", c.queues))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-closed:
			return errors.New("message channel closed")
		case ev := <-events:
			if err := handle(ctx, Delivery{Topic: ev.topic, Body: ev.msg.Body}); err != nil {
				c.logger.Error("event dropped",
					zap.String("topic", ev.topic),
					zap.Error(err),
				)
			}
			if err := ev.msg.Ack(false); err != nil {
				c.logger.Error("ack failed",
					zap.String("topic", ev.topic),
					zap.Error(err),
				)
			}
		}
	}
}
