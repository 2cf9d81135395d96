package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/fjod/evermarket/internal/cart"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const InvoiceTopic = "invoice-emails"

// InvoiceEvent is the payload published at checkout and consumed by
// the invoice worker.
type InvoiceEvent struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Lines    []cart.Entry    `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

// InvoicePublisher implements checkout.InvoiceSender by handing the
// invoice to Kafka; actual delivery happens out of the request path.
type InvoicePublisher struct {
	writer *kafka.Writer
}

func NewInvoicePublisher(brokers []string) *InvoicePublisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    InvoiceTopic,
		Balancer: &kafka.LeastBytes{},
	}
	return &InvoicePublisher{writer: writer}
}

func (p *InvoicePublisher) SendInvoice(ctx context.Context, user *auth.User, lines []cart.Entry, total decimal.Decimal) error {
	event := InvoiceEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Lines:    lines,
		Total:    total,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal invoice event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(user.ID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish invoice event: %w", err)
	}
	return nil
}

func (p *InvoicePublisher) Close() error {
	return p.writer.Close()
}

// InvoiceConsumer reads invoice events and delivers them over email.
type InvoiceConsumer struct {
	reader *kafka.Reader
	mailer Mailer
}

func NewInvoiceConsumer(mailer Mailer, brokers ...string) *InvoiceConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    InvoiceTopic,
		GroupID:  "invoice-worker",
		MaxBytes: 10e6, // 10MB
	})
	return &InvoiceConsumer{reader: reader, mailer: mailer}
}

func (c *InvoiceConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.deliverNext(ctx)
	}
}

func (c *InvoiceConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

func (c *InvoiceConsumer) deliverNext(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("error reading message: %v", err)
		}
		return
	}

	var event InvoiceEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing invoice event: %v", err)
		return
	}
	if event.Email == "" {
		log.Println("invoice event missing email, dropping")
		return
	}

	body := BuildInvoiceBody(event.Username, event.Lines, event.Total)
	if err := c.mailer.Send(ctx, salesAddress, event.Email, invoiceSubject, body); err != nil {
		log.Printf("failed to send invoice to %s: %v", event.Email, err)
	}
}
