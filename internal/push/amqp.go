package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSender publishes push messages to a durable topic exchange that the
// delivery bridge consumes. Routing key is the device type so platform
// bridges can bind independently.
type AMQPSender struct {
	url      string
	exchange string
	mu       sync.RWMutex
	conn     *amqp.Connection
	ch       *amqp.Channel
}

// NewAMQPSender dials the broker with bounded exponential backoff and
// declares the push exchange.
func NewAMQPSender(ctx context.Context, url, exchange string) (*AMQPSender, error) {
	s := &AMQPSender{url: url, exchange: exchange}

	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.connect()
		if err == nil {
			return s, nil
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
			retryDelay = time.Duration(float64(retryDelay) * 1.5)
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}
		}
	}
	return nil, fmt.Errorf("unexpected error: retry loop completed without success")
}

func (s *AMQPSender) connect() error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(s.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.ch = ch
	s.mu.Unlock()
	return nil
}

func (s *AMQPSender) Publish(ctx context.Context, msg Message) error {
	s.mu.RLock()
	ch := s.ch
	s.mu.RUnlock()

	if ch == nil {
		return fmt.Errorf("amqp channel not available")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal push message: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var expiration string
	if msg.ExpireAt != nil {
		ttl := time.Until(*msg.ExpireAt)
		if ttl <= 0 {
			// already expired, nothing to deliver
			return nil
		}
		expiration = fmt.Sprintf("%d", ttl.Milliseconds())
	}

	return ch.PublishWithContext(
		publishCtx,
		s.exchange,
		msg.DeviceType,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Expiration:   expiration,
		},
	)
}

// Close shuts the channel and connection down.
func (s *AMQPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
