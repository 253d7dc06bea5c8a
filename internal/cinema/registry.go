package cinema

import (
	"sort"
	"sync"

	"github.com/iliyamo/cinema-box-office/internal/model"
)

// Registry owns every room, keyed by movie title.  Lookups share a read
// lock; registration takes the write lock for the map assignment only.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Register inserts room under its key, replacing any room already
// showing the same movie.  Reservations that looked up the old room
// before the replacement finish against the old room's counter.
func (g *Registry) Register(room *Room) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rooms[room.Key()] = room
}

// Lookup returns the room showing movie.
func (g *Registry) Lookup(movie string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[movie]
	return room, ok
}

// Len returns the number of registered rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Snapshot returns a copy of every room ordered by movie title.
func (g *Registry) Snapshot() []model.RoomSnapshot {
	g.mu.RLock()
	out := make([]model.RoomSnapshot, 0, len(g.rooms))
	for _, room := range g.rooms {
		out = append(out, room.Snapshot())
	}
	g.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Movie < out[j].Movie })
	return out
}
