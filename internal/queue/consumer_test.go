package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-box-office/internal/model"
)

func TestHandleMessage_AppendsLines(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    at := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)

    for i, tk := range []model.Ticket{
        {Name: "Jeremy_1", Movie: "Star Wars", SeatNumber: 0, TicketID: 1},
        {Name: "Jeremy_2", Movie: "Star Wars", SeatNumber: 1, TicketID: 2},
    } {
        ev := NewTicketIssuedEvent(tk, at)
        body, err := json.Marshal(ev)
        require.NoError(t, err)
        require.NoError(t, HandleMessage(dir, body), "message %d", i)
    }

    data, err := os.ReadFile(filepath.Join(dir, "tickets.log"))
    require.NoError(t, err)
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    require.Len(t, lines, 2)
    assert.True(t, strings.HasPrefix(lines[0], "[2026-10-14T20:00:00Z] Ticket issued | ticket_id=1 | movie=\"Star Wars\" | seat=0 | name=\"Jeremy_1\""))
    assert.Contains(t, lines[1], "ticket_id=2")
}

func TestHandleMessage_RejectsBadPayloads(t *testing.T) {
    dir := t.TempDir()
    assert.Error(t, HandleMessage(dir, []byte("not json")))
    assert.Error(t, HandleMessage(dir, []byte(`{"event_id":"x"}`)))
    _, err := os.Stat(filepath.Join(dir, "tickets.log"))
    assert.True(t, os.IsNotExist(err))
}

func TestNewTicketIssuedEvent(t *testing.T) {
    tk := model.Ticket{Name: "Marty", Movie: "Back To The Future", SeatNumber: 4, TicketID: 9}
    a := NewTicketIssuedEvent(tk, time.Now())
    b := NewTicketIssuedEvent(tk, time.Now())
    assert.NotEqual(t, a.EventID, b.EventID)
    assert.Equal(t, uint64(9), a.TicketID)
    assert.Equal(t, uint32(4), a.SeatNumber)
}
