// Command boxoffice opens three rooms, lets ten patrons book Star Wars at
// the same time and prints their tickets followed by the state of every
// room.
package main

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/iliyamo/cinema-box-office/internal/cinema"
	"github.com/iliyamo/cinema-box-office/internal/model"
)

func main() {
	box := cinema.New()

	for _, r := range []model.RoomSpec{
		{Movie: "Jurassic Park", Capacity: 10},
		{Movie: "Star Wars", Capacity: 50},
		{Movie: "Back To The Future", Capacity: 20},
	} {
		box.Receive(r)
		snap, _ := box.Room(r.Movie)
		fmt.Printf("Opened new room: %s\n", snap)
	}

	tickets := make([]model.Ticket, 10)
	var wg sync.WaitGroup
	for i := range tickets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			t, err := box.Handle(model.Reservation{Name: fmt.Sprintf("Jeremy_%d", i+1), Movie: "Star Wars"})
			if err != nil {
				log.Fatalf("reservation for Jeremy_%d: %v", i+1, err)
			}
			tickets[i] = t
		}(i)
	}
	wg.Wait()

	sort.Slice(tickets, func(i, j int) bool { return tickets[i].TicketID < tickets[j].TicketID })
	for _, t := range tickets {
		fmt.Println(t)
	}
	for _, r := range box.Rooms() {
		fmt.Println(r)
	}
}
