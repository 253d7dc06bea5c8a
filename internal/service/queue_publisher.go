// Package service provides the publisher that sends ticket events to
// RabbitMQ.  Errors are logged and returned so callers can ignore failures
// without interrupting a sale.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/cinema-box-office/internal/queue"
)

// Publisher publishes events to the broker at URL.  It dials per publish;
// sales are far less frequent than the cost of a connection matters.
type Publisher struct {
    URL string
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// PublishTicketIssued publishes ev to the durable "ticket.issued" queue as
// a persistent JSON message whose MessageId is the event id.
func (p *Publisher) PublishTicketIssued(ctx context.Context, ev q.TicketIssuedEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        q.TicketQueueName, // name
        true,              // durable
        false,             // autoDelete
        false,             // exclusive
        false,             // noWait
        nil,               // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.EventID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.TicketQueueName, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
