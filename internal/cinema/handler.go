package cinema

import "github.com/iliyamo/cinema-box-office/internal/model"

// Handler answers one kind of request with one kind of response.
type Handler[Req, Resp any] interface {
	Handle(req Req) (Resp, error)
}

// Receiver accepts messages that produce no response.
type Receiver[M any] interface {
	Receive(msg M)
}

var (
	_ Handler[model.Reservation, model.Ticket] = (*Cinema)(nil)
	_ Receiver[model.RoomSpec]                 = (*Cinema)(nil)
)
