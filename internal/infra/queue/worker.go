package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConfirmationSender is what the worker needs from the mail layer.
type ConfirmationSender interface {
	SendConfirmation(to string, isProgrammer bool) error
}

type Worker struct {
	Channel *amqp.Channel
	Mailer  ConfirmationSender
}

func NewWorker(ch *amqp.Channel, mailer ConfirmationSender) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] failed to register consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadCapturedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] malformed payload, dropping to DLQ: %s", err)
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] lead captured: email=%s backend=%s", payload.Email, payload.Backend)

			if err := w.process(payload); err != nil {
				log.Printf("❌ [WORKER] confirmation failed for %s: %s", payload.Email, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] notification worker waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) process(payload LeadCapturedPayload) error {
	if w.Mailer == nil {
		// Mail not configured; acking keeps the queue from backing up.
		return nil
	}

	return w.Mailer.SendConfirmation(payload.Email, payload.IsProgrammer)
}
