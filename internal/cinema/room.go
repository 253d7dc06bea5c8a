package cinema

import (
	"fmt"
	"sync/atomic"

	"github.com/iliyamo/cinema-box-office/internal/model"
)

// Room holds the seat counter of one showing.  The movie and capacity
// never change after NewRoom; the remaining count only ever decreases.
type Room struct {
	movie     string
	capacity  uint32
	remaining atomic.Uint32
}

// NewRoom returns a room showing movie with capacity unsold seats.
func NewRoom(movie string, capacity uint32) *Room {
	r := &Room{movie: movie, capacity: capacity}
	r.remaining.Store(capacity)
	return r
}

// Key returns the movie title the room is registered under.
func (r *Room) Key() string { return r.movie }

// Capacity returns the number of seats the room was opened with.
func (r *Room) Capacity() uint32 { return r.capacity }

// Available returns the number of unsold seats.  The value may be stale
// as soon as it is returned.
func (r *Room) Available() uint32 { return r.remaining.Load() }

// TryClaim takes one seat.  The load of the remaining count and the
// decrement form one compare-and-swap; a lost race retries against the
// fresh count instead of giving up.  Seats are numbered 0, 1, 2, ... in
// the order claims commit.  When no seat is left it returns false and
// leaves the counter untouched.
func (r *Room) TryClaim() (uint32, bool) {
	for {
		n := r.remaining.Load()
		if n == 0 {
			return 0, false
		}
		if n > r.capacity {
			panic(fmt.Sprintf("cinema: room %q has %d seats left out of %d", r.movie, n, r.capacity))
		}
		if r.remaining.CompareAndSwap(n, n-1) {
			return r.capacity - n, true
		}
	}
}

// Snapshot copies the room's current state.
func (r *Room) Snapshot() model.RoomSnapshot {
	return model.RoomSnapshot{
		Movie:     r.movie,
		Capacity:  r.capacity,
		Available: r.remaining.Load(),
	}
}
