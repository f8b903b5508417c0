package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrMessageFormat marks an event payload that could not be decoded into the
// expected envelope.
var ErrMessageFormat = errors.New("malformed event payload")

// Envelope is the JSON payload shared by both inbound topics.
type Envelope struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	ID    *int   `json:"id"`
}

// Handler processes one decoded event for a single topic.
type Handler func(ctx context.Context, email, role string, id int) error

// Dispatcher routes decoded events to the workflow registered for their
// topic. It is driven by a single goroutine and performs no fan-out.
type Dispatcher struct {
	handlers map[string]Handler
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register binds a topic to a workflow handler. Registering the same topic
// twice replaces the previous handler.
func (d *Dispatcher) Register(topic string, handler Handler) {
	d.handlers[topic] = handler
}

// Dispatch decodes the envelope and invokes the handler for the topic. Every
// returned error means the event is dropped; the caller decides how to log it.
func (d *Dispatcher) Dispatch(ctx context.Context, topic string, body []byte) error {
	handler, ok := d.handlers[topic]
	if !ok {
		return fmt.Errorf("no handler registered for topic %q", topic)
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		return err
	}

	d.logger.Info("processing event",
		zap.String("topic", topic),
		zap.String("email", envelope.Email),
		zap.String("role", envelope.Role),
		zap.Int("interview_id", *envelope.ID),
	)

	return handler(ctx, envelope.Email, envelope.Role, *envelope.ID)
}

func decodeEnvelope(body []byte) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMessageFormat, err)
	}

	if strings.TrimSpace(envelope.Email) == "" {
		return nil, fmt.Errorf("%w: missing email", ErrMessageFormat)
	}
	if strings.TrimSpace(envelope.Role) == "" {
		return nil, fmt.Errorf("%w: missing role", ErrMessageFormat)
	}
	if envelope.ID == nil {
		return nil, fmt.Errorf("%w: missing id", ErrMessageFormat)
	}

	return &envelope, nil
}
