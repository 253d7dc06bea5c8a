package handler

import (
    "context"  // publish and purge run on their own deadlines
    "errors"   // errors.Is maps engine errors to status codes
    "log"      // publishing failures are logged, never returned
    "net/http" // HTTP status codes
    "net/url"  // movie titles arrive path-escaped
    "strings"  // trimming request fields
    "time"     // event timestamps and deadlines

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/cinema-box-office/internal/cinema"     // reservation engine
    "github.com/iliyamo/cinema-box-office/internal/middleware" // authenticated subject
    "github.com/iliyamo/cinema-box-office/internal/model"      // request and response values
    "github.com/iliyamo/cinema-box-office/internal/queue"      // ticket events
)

// TicketPublisher sends ticket events downstream.
type TicketPublisher interface {
    PublishTicketIssued(ctx context.Context, ev queue.TicketIssuedEvent) error
}

// CachePurger drops cached room listings.
type CachePurger interface {
    Purge(ctx context.Context) error
}

// BoxOfficeHandler exposes the cinema over HTTP.  Publisher and Purger
// are optional; when nil, sales are not published and caches expire on
// their TTL only.
type BoxOfficeHandler struct {
    Cinema    *cinema.Cinema
    Publisher TicketPublisher
    Purger    CachePurger
    // PublishTimeout bounds each asynchronous publish.  Defaults to 5s.
    PublishTimeout time.Duration
    // afterPublish, when set, runs after each asynchronous publish.
    afterPublish func(queue.TicketIssuedEvent, error)
}

// NewBoxOfficeHandler constructs a handler around c.  It panics if c is nil.
func NewBoxOfficeHandler(c *cinema.Cinema, pub TicketPublisher, purger CachePurger) *BoxOfficeHandler {
    if c == nil {
        panic("nil cinema passed to NewBoxOfficeHandler")
    }
    return &BoxOfficeHandler{Cinema: c, Publisher: pub, Purger: purger, PublishTimeout: 5 * time.Second}
}

// movieParam returns the unescaped :movie path parameter.
func movieParam(c echo.Context) string {
    raw := c.Param("movie")
    if s, err := url.PathUnescape(raw); err == nil {
        return s
    }
    return raw
}

// ListRooms handles GET /v1/rooms.  It returns every room ordered by
// movie title with its capacity and the seats still available.
func (h *BoxOfficeHandler) ListRooms(c echo.Context) error {
    return c.JSON(http.StatusOK, h.Cinema.Rooms())
}

// GetRoom handles GET /v1/rooms/:movie.
func (h *BoxOfficeHandler) GetRoom(c echo.Context) error {
    snap, ok := h.Cinema.Room(movieParam(c))
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
    }
    return c.JSON(http.StatusOK, snap)
}

// OpenRoom handles POST /v1/rooms.  The body is {"movie": "...",
// "capacity": n} with n >= 1.  Posting a movie that is already showing
// replaces its room and resets the counter; the response is 201 with the
// new room either way.
func (h *BoxOfficeHandler) OpenRoom(c echo.Context) error {
    var body struct {
        Movie    string `json:"movie"`
        Capacity int64  `json:"capacity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Movie = strings.TrimSpace(body.Movie)
    if body.Movie == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie is required"})
    }
    if body.Capacity < 1 || body.Capacity > int64(^uint32(0)) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be a positive integer"})
    }
    h.Cinema.Receive(model.RoomSpec{Movie: body.Movie, Capacity: uint32(body.Capacity)})
    snap, _ := h.Cinema.Room(body.Movie)
    log.Printf("Opened new room: %s", snap)
    h.purge(c.Request().Context())
    return c.JSON(http.StatusCreated, snap)
}

// Reserve handles POST /v1/rooms/:movie/reservations.  The optional body
// {"name": "..."} names the patron; it defaults to the token subject.  It
// returns 201 with the ticket, 404 when no room shows the movie and 409
// when the room is sold out.
func (h *BoxOfficeHandler) Reserve(c echo.Context) error {
    var body struct {
        Name string `json:"name"`
    }
    if c.Request().ContentLength != 0 {
        if err := c.Bind(&body); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
        }
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        name = middleware.Subject(c)
    }
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    movie := movieParam(c)

    ticket, err := h.Cinema.Handle(model.Reservation{Name: name, Movie: movie})
    switch {
    case errors.Is(err, cinema.ErrRoomNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, cinema.ErrSoldOut):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case err != nil:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
    }
    h.publish(ticket)
    h.purge(c.Request().Context())
    return c.JSON(http.StatusCreated, ticket)
}

// publish sends the ticket event in the background so the broker never
// delays or fails a sale.
func (h *BoxOfficeHandler) publish(t model.Ticket) {
    if h.Publisher == nil {
        return
    }
    ev := queue.NewTicketIssuedEvent(t, time.Now())
    timeout := h.PublishTimeout
    if timeout <= 0 {
        timeout = 5 * time.Second
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), timeout)
        defer cancel()
        err := h.Publisher.PublishTicketIssued(ctx, ev)
        if err != nil {
            log.Printf("box-office: publish ticket %d failed: %v", ev.TicketID, err)
        }
        if h.afterPublish != nil {
            h.afterPublish(ev, err)
        }
    }()
}

func (h *BoxOfficeHandler) purge(ctx context.Context) {
    if h.Purger == nil {
        return
    }
    if err := h.Purger.Purge(ctx); err != nil {
        log.Printf("box-office: cache purge failed: %v", err)
    }
}
