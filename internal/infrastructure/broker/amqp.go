package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"ucoa-chat/internal/platform/logger"
)

// Publisher sends an envelope under a routing key.
type Publisher interface {
	Publish(ctx context.Context, key string, msg Envelope) error
	Close() error
}

const maxDialDelay = 60 * time.Second

// DialOptions configures DialWithRetry.
type DialOptions struct {
	URL           string
	RetryAttempts int
	Delay         time.Duration
}

// DialWithRetry connects with exponential backoff capped at one minute.
func DialWithRetry(ctx context.Context, log *logger.Logger, o DialOptions) (*amqp.Connection, error) {
	attempts := o.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := o.Delay
	if delay <= 0 {
		delay = time.Second
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		conn, err := amqp.Dial(o.URL)
		if err == nil {
			if i > 1 {
				log.Info("amqp connected", "attempt", i)
			}
			return conn, nil
		}
		lastErr = err

		sleep := delay << (i - 1)
		if sleep > maxDialDelay || sleep <= 0 {
			sleep = maxDialDelay
		}
		log.Warn("amqp dial failed", "attempt", i, "sleep", sleep, "error", err)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ctx.Err(), lastErr)
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("amqp: no connection after %d attempts: %w", attempts, lastErr)
}

// ErrNacked is returned when the broker refuses responsibility for a published message.
var ErrNacked = errors.New("amqp: publish nacked by broker")

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// confirmChannel is the slice of *amqp.Channel the publisher needs.
type confirmChannel interface {
	Confirm(noWait bool) error
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (confirmation, error)
	Close() error
}

type amqpChannel struct {
	*amqp.Channel
}

func (c amqpChannel) PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.Channel.PublishWithDeferredConfirmWithContext(ctx, exchange, key, mandatory, immediate, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("amqp: channel is not in confirm mode")
	}
	return dc, nil
}

type amqpPublisher struct {
	conn        *amqp.Connection
	openChannel func() (confirmChannel, error)
	exchange    string
	log         *logger.Logger
}

// NewAMQPPublisher declares a durable topic exchange and publishes persistent JSON messages to it.
// Every publish runs on a channel in confirm mode and waits for the broker ack.
func NewAMQPPublisher(conn *amqp.Connection, exchange string, log *logger.Logger) (Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("amqp: declare exchange %q: %w", exchange, err)
	}
	open := func() (confirmChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return amqpChannel{Channel: ch}, nil
	}
	return &amqpPublisher{conn: conn, openChannel: open, exchange: exchange, log: log}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ch, err := p.openChannel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("amqp: enable confirms: %w", err)
	}

	msgID := msg.Meta.ID
	if msgID == "" {
		msgID = uuid.NewString()
	}
	cid := msgID
	if msg.Meta.CorrelationID != nil {
		cid = *msg.Meta.CorrelationID
	}

	dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     msgID,
		CorrelationId: cid,
		Timestamp:     time.Now().UTC(),
		Type:          msg.Meta.Type,
		Body:          body,
	})
	if err != nil {
		return err
	}
	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("amqp: wait for confirm of %s: %w", msgID, err)
	}
	if !acked {
		return fmt.Errorf("%w: %s", ErrNacked, msgID)
	}
	p.log.Debug("published", "key", key, "exchange", p.exchange, "message_id", msgID)
	return nil
}

func (p *amqpPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
