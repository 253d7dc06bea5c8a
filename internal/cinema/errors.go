package cinema

import (
	"errors"
	"fmt"
)

// ErrRoomNotFound is returned when a reservation names a movie that no
// room is showing.  Handlers should translate it into an HTTP 404.
var ErrRoomNotFound = errors.New("no room displaying movie")

// ErrSoldOut is returned when the room exists but every seat had
// already been claimed at the moment of the claim attempt.  Handlers
// should translate it into an HTTP 409.
var ErrSoldOut = errors.New("no more seats for movie")

// ReservationError reports why a reservation for Movie failed.  Err is
// always one of the sentinels above, so callers match the kind with
// errors.Is and recover the movie with errors.As.
type ReservationError struct {
	Movie string
	Err   error
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("%v %q", e.Err, e.Movie)
}

func (e *ReservationError) Unwrap() error { return e.Err }

func roomNotFound(movie string) error {
	return &ReservationError{Movie: movie, Err: ErrRoomNotFound}
}

func soldOut(movie string) error {
	return &ReservationError{Movie: movie, Err: ErrSoldOut}
}
