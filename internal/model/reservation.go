package model

import "fmt"

// Reservation is a patron's request for one seat in the room showing
// Movie.  It is not stored anywhere; a successful reservation is
// answered with a Ticket.
//
// Fields:
//  Name  – name of the patron requesting the seat.
//  Movie – movie title identifying the room.
type Reservation struct {
    Name  string `json:"name"`
    Movie string `json:"movie"`
}

// Ticket is the proof of a successful reservation.  It is an
// immutable value: it copies what was granted at issuance and never
// changes afterwards.
//
// Fields:
//  Name       – patron the seat was granted to.
//  Movie      – movie title of the room the seat was drawn from.
//  SeatNumber – 0-based index among the seats ever claimed in the room.
//  TicketID   – globally unique id, strictly increasing in issuance order.
type Ticket struct {
    Name       string `json:"name"`
    Movie      string `json:"movie"`
    SeatNumber uint32 `json:"seat_number"`
    TicketID   uint64 `json:"ticket_id"`
}

func (t Ticket) String() string {
    return fmt.Sprintf("%s got seat number %d. Ticket id is %d", t.Name, t.SeatNumber, t.TicketID)
}
