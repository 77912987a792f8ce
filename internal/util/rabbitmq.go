package util

import (
	"encoding/json"
	"fmt"

	"plog/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

const emailQueueName = "plog.emails"

// EmailMessage is the payload published for the email worker.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQClient(cfg *config.Config) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		emailQueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare email queue: %w", err)
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
	}, nil
}

// PublishEmail enqueues an email message for the worker.
func (r *RabbitMQClient) PublishEmail(msg EmailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	return r.channel.Publish(
		"",             // default exchange
		emailQueueName, // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// ConsumeEmails returns the delivery channel for the email queue.
func (r *RabbitMQClient) ConsumeEmails() (<-chan amqp.Delivery, error) {
	return r.channel.Consume(
		emailQueueName,
		"",    // consumer tag
		false, // auto-ack: worker acks after sending
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

// Close closes the channel and connection.
func (r *RabbitMQClient) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
