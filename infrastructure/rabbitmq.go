package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// NotificationEvent is published once a notification row has been stored.
type NotificationEvent struct {
	NotificationID uint   `json:"notification_id"`
	UserID         uint   `json:"user_id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Priority       string `json:"priority"`
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	log     logrus.FieldLogger
}

// NewRabbitMQ dials the broker and declares the durable notification queue.
func NewRabbitMQ(url, queue string, log logrus.FieldLogger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue, // queue name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.WithField("queue", q.Name).Info("Connected to RabbitMQ and declared queue")
	return &RabbitMQ{conn: conn, channel: ch, queue: q, log: log}, nil
}

// PublishNotification sends one event to the queue.
func (r *RabbitMQ) PublishNotification(ctx context.Context, event NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// ConsumeNotifications runs handler for every event on a background goroutine.
// Messages are acked after the handler returns nil and requeued otherwise.
func (r *RabbitMQ) ConsumeNotifications(handler func(NotificationEvent) error) error {
	msgs, err := r.channel.Consume(
		r.queue.Name,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			var event NotificationEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				r.log.WithError(err).Warn("Dropping malformed notification event")
				d.Nack(false, false)
				continue
			}
			if err := handler(event); err != nil {
				r.log.WithError(err).WithField("notification_id", event.NotificationID).Warn("Notification delivery failed")
				d.Nack(false, !d.Redelivered)
				continue
			}
			d.Ack(false)
		}
	}()
	return nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}
