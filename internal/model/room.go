package model

import "fmt"

// RoomSpec describes a room to open: the movie it shows and how many
// seats it offers.  Opening a RoomSpec under a movie that is already
// showing replaces the previous room.
//
// Fields:
//  Movie    – movie title, also the lookup key of the room.
//  Capacity – number of seats the room can sell.
type RoomSpec struct {
    Movie    string // rooms are keyed by movie title
    Capacity uint32 // total seats
}

// RoomSnapshot is a read-only copy of a room's state taken at one
// instant.  It does not observe later claims against the room.
//
// Fields:
//  Movie     – movie title of the room.
//  Capacity  – seats the room was opened with.
//  Available – seats still unsold when the snapshot was taken.
type RoomSnapshot struct {
    Movie     string `json:"movie"`
    Capacity  uint32 `json:"capacity"`
    Available uint32 `json:"available"`
}

// Sold returns the number of seats already claimed.
func (s RoomSnapshot) Sold() uint32 { return s.Capacity - s.Available }

func (s RoomSnapshot) String() string {
    return fmt.Sprintf("Hosting %s with %d available seats", s.Movie, s.Available)
}
