// Package queue defines the ticket event payload and the background
// consumer that records issued tickets.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/cinema-box-office/internal/model"
)

// TicketQueueName is the durable queue ticket events are routed to.
const TicketQueueName = "ticket.issued"

// TicketIssuedEvent is published after a seat has been granted.  It
// carries the whole ticket so consumers never need to call back into the
// box office.
type TicketIssuedEvent struct {
    EventID    string `json:"event_id"`
    TicketID   uint64 `json:"ticket_id"`
    SeatNumber uint32 `json:"seat_number"`
    Name       string `json:"name"`
    Movie      string `json:"movie"`
    IssuedAt   string `json:"issued_at"`
}

// NewTicketIssuedEvent wraps t with a fresh event id and the issue time
// in RFC 3339 UTC.
func NewTicketIssuedEvent(t model.Ticket, at time.Time) TicketIssuedEvent {
    return TicketIssuedEvent{
        EventID:    uuid.NewString(),
        TicketID:   t.TicketID,
        SeatNumber: t.SeatNumber,
        Name:       t.Name,
        Movie:      t.Movie,
        IssuedAt:   at.UTC().Format(time.RFC3339),
    }
}
