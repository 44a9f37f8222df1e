package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PushQueue carries the messages a downstream worker turns into device
// notifications.
const PushQueue = "notifications.push"

type pushMessage struct {
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

// AMQPNotifier publishes push requests to RabbitMQ.
type AMQPNotifier struct {
	ch *amqp.Channel
}

func NewAMQPNotifier(conn *amqp.Connection) (*AMQPNotifier, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare the queue so publish never fails due to missing infra
	_, err = ch.QueueDeclare(PushQueue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare %s: %w", PushQueue, err)
	}

	return &AMQPNotifier{ch: ch}, nil
}

func (n *AMQPNotifier) Close() error {
	return n.ch.Close()
}

func (n *AMQPNotifier) Push(ctx context.Context, title, body string) error {
	msg := pushMessage{Title: title, Body: body, SentAt: time.Now().UTC()}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal push message: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return n.ch.PublishWithContext(
		pubCtx,
		"",        // default exchange
		PushQueue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         raw,
		},
	)
}
