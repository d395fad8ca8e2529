package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadCapturedPayload fans out after a lead lands anywhere (including the
// local backup file). Consumers send the confirmation email; the payload
// carries the handling backend so a reconciliation job can tell which leads
// only exist off-primary.
type LeadCapturedPayload struct {
	LeadID       string `json:"lead_id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IsProgrammer bool   `json:"is_programmer"`
	UTMSource    string `json:"utm_source"`
	UTMMedium    string `json:"utm_medium"`
	UTMCampaign  string `json:"utm_campaign"`
	Backend      string `json:"backend"`
	UsedFallback bool   `json:"used_fallback"`
	CapturedAt   string `json:"captured_at"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishLeadCaptured(ctx context.Context, payload LeadCapturedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal lead captured payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead captured: %w", err)
	}

	return nil
}
