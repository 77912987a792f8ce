package service

import (
	"encoding/json"

	"plog/internal/util"
)

// EmailWorker consumes queued email messages and delivers them over SMTP.
type EmailWorker struct {
	emailService *EmailService
	rabbitMQ     *util.RabbitMQClient
}

func NewEmailWorker(emailService *EmailService, rabbitMQ *util.RabbitMQClient) *EmailWorker {
	return &EmailWorker{
		emailService: emailService,
		rabbitMQ:     rabbitMQ,
	}
}

// Start begins consuming the email queue in a background goroutine.
func (w *EmailWorker) Start() error {
	deliveries, err := w.rabbitMQ.ConsumeEmails()
	if err != nil {
		return err
	}

	go func() {
		for delivery := range deliveries {
			var msg util.EmailMessage
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				if util.Sugar != nil {
					util.Sugar.Warnf("Discarding malformed email message: %v", err)
				}
				delivery.Nack(false, false)
				continue
			}

			if err := w.emailService.Send(msg.To, msg.Subject, msg.Body); err != nil {
				if util.Sugar != nil {
					util.Sugar.Warnf("Failed to send email to %s: %v", msg.To, err)
				}
				// Requeue once; the broker drops it on repeated failure
				delivery.Nack(false, !delivery.Redelivered)
				continue
			}

			delivery.Ack(false)
		}
	}()

	return nil
}
