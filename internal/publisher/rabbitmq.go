package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"lead_finder/internal/domain"
)

// RabbitMQ publishes qualified-lead events to a topic exchange.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	// QueueName, when set, declares a durable queue bound to RoutingKey so events
	// are kept until a consumer attaches.
	QueueName string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger = logger.With("component", "publisher")
	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if cfg.QueueName == "" {
		return nil
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// EventLeadQualified is the event name carried by every published message.
const EventLeadQualified = "lead.qualified"

// LeadMessage announces a lead newly qualified for a tenant.
type LeadMessage struct {
	Event           string    `json:"event"`
	TenantID        int64     `json:"tenant_id"`
	TenantLeadID    int64     `json:"tenant_lead_id"`
	GlobalLeadID    int64     `json:"global_lead_id"`
	Score           int       `json:"score"`
	Reasoning       string    `json:"reasoning"`
	MatchedKeywords []string  `json:"matched_keywords"`
	Source          string    `json:"source"`
	ExternalID      string    `json:"external_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Community       string    `json:"community"`
	URL             string    `json:"url"`
	PostedAt        time.Time `json:"posted_at"`
	Timestamp       time.Time `json:"timestamp"`
}

func newLeadMessage(lead *domain.TenantLead, global *domain.GlobalLead, now time.Time) LeadMessage {
	msg := LeadMessage{
		Event:           EventLeadQualified,
		TenantID:        lead.TenantID,
		TenantLeadID:    lead.ID,
		GlobalLeadID:    lead.GlobalLeadID,
		Score:           lead.AIScore,
		Reasoning:       lead.AIReasoning,
		MatchedKeywords: lead.MatchedKeywords,
		Timestamp:       now.UTC(),
	}
	if global != nil {
		msg.Source = global.Source
		msg.ExternalID = global.ExternalID
		msg.Title = global.Title
		msg.Author = global.Author
		msg.Community = global.Community
		msg.URL = global.Permalink
		if msg.URL == "" {
			msg.URL = global.URL
		}
		msg.PostedAt = global.PostedAt
	}
	return msg
}

func (r *RabbitMQ) Publish(ctx context.Context, lead *domain.TenantLead, global *domain.GlobalLead) error {
	msg := newLeadMessage(lead, global, time.Now())

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         EventLeadQualified,
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published qualified lead",
		"tenant_id", lead.TenantID,
		"tenant_lead_id", lead.ID,
		"score", lead.AIScore,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
