package cinema

import "github.com/iliyamo/cinema-box-office/internal/model"

// Cinema is the reservation dispatcher.  It resolves reservations
// against its registry, claims a seat and issues the ticket id.
type Cinema struct {
	rooms  *Registry
	issuer *Issuer
}

// Option configures a Cinema.
type Option func(*Cinema)

// WithIssuer makes the cinema draw ticket ids from issuer, so several
// cinemas can share one id sequence.
func WithIssuer(issuer *Issuer) Option {
	return func(c *Cinema) {
		if issuer != nil {
			c.issuer = issuer
		}
	}
}

// New returns a cinema with no rooms.
func New(opts ...Option) *Cinema {
	c := &Cinema{rooms: NewRegistry(), issuer: NewIssuer()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterRoom opens a room showing movie with capacity seats.  A room
// already showing movie is replaced together with its counter.
func (c *Cinema) RegisterRoom(movie string, capacity uint32) {
	c.rooms.Register(NewRoom(movie, capacity))
}

// Receive implements Receiver for room specs.
func (c *Cinema) Receive(spec model.RoomSpec) {
	c.RegisterRoom(spec.Movie, spec.Capacity)
}

// Reserve claims one seat in the room showing movie for name.  It fails
// with ErrRoomNotFound or ErrSoldOut, wrapped in a *ReservationError.
// A failed reservation changes no counter and consumes no ticket id.
func (c *Cinema) Reserve(name, movie string) (model.Ticket, error) {
	room, ok := c.rooms.Lookup(movie)
	if !ok {
		return model.Ticket{}, roomNotFound(movie)
	}
	seat, ok := room.TryClaim()
	if !ok {
		return model.Ticket{}, soldOut(movie)
	}
	return model.Ticket{
		Name:       name,
		Movie:      movie,
		SeatNumber: seat,
		TicketID:   c.issuer.Next(),
	}, nil
}

// Handle implements Handler for reservations.
func (c *Cinema) Handle(r model.Reservation) (model.Ticket, error) {
	return c.Reserve(r.Name, r.Movie)
}

// Room returns a snapshot of the room showing movie.
func (c *Cinema) Room(movie string) (model.RoomSnapshot, bool) {
	room, ok := c.rooms.Lookup(movie)
	if !ok {
		return model.RoomSnapshot{}, false
	}
	return room.Snapshot(), true
}

// Rooms returns snapshots of every room ordered by movie title.
func (c *Cinema) Rooms() []model.RoomSnapshot {
	return c.rooms.Snapshot()
}

// NextTicketID reports the id the next successful reservation would
// receive if no other reservation commits first.
func (c *Cinema) NextTicketID() uint64 {
	return c.issuer.Peek()
}
