package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/ClubAdmin/ClubAdmin/internal/config"
)

// Open returns the AMQP sender when notifications are enabled and a LogSender otherwise.
func Open(cfg config.Notification) (Sender, error) {
	if !cfg.Enabled {
		log.Warn().Msg("notifications disabled: messages are only logged")

		return LogSender{}, nil
	}

	sender, err := DialAMQP(cfg.AMQPURL, map[Channel]string{
		ChannelEmail:    cfg.EmailQueue,
		ChannelWhatsApp: cfg.WhatsAppQueue,
	})
	if err != nil {
		return nil, err
	}

	return sender, nil
}

// LogSender logs messages instead of delivering them.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(_ context.Context, msg Message) (string, error) {
	id := uuid.NewString()

	log.Info().
		Str("messageId", id).
		Str("channel", string(msg.Channel)).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("notification")

	return id, nil
}

// AMQPSender publishes messages as persistent JSON to one durable queue per channel.
type AMQPSender struct {
	conn   *amqp.Connection
	mu     sync.Mutex // amqp channels are not safe for concurrent publishing
	ch     *amqp.Channel
	queues map[Channel]string
}

// DialAMQP connects and declares the queues.
func DialAMQP(url string, queues map[Channel]string) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	for _, name := range queues {
		if _, err = ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			_ = conn.Close()

			return nil, fmt.Errorf("rabbitmq: queue declare %s failed: %w", name, err)
		}
	}

	return &AMQPSender{conn: conn, ch: ch, queues: queues}, nil
}

// Send implements Sender.
func (s *AMQPSender) Send(ctx context.Context, msg Message) (string, error) {
	queue, ok := s.queues[msg.Channel]
	if !ok || queue == "" {
		return "", fmt.Errorf("no queue for channel %q", msg.Channel)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    id,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return "", fmt.Errorf("rabbitmq: publish failed: %w", err)
	}

	return id, nil
}

// Close closes the channel and the connection.
func (s *AMQPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ch.Close()

	return s.conn.Close() //nolint:wrapcheck
}
