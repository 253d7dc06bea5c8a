package main // Entry point package

import (
	"context"   // cancels the ticket consumer on shutdown
	"errors"    // distinguishes a clean shutdown from a failed start
	"log"       // Logging library
	"net/http"  // http.ErrServerClosed
	"os"        // signal.NotifyContext needs os.Interrupt
	"os/signal" // graceful shutdown on interrupt
	"syscall"   // SIGTERM
	"time"      // shutdown deadline

	"github.com/labstack/echo/v4"                      // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"    // request logging and panic recovery

	"github.com/iliyamo/cinema-box-office/internal/cinema"     // reservation engine
	"github.com/iliyamo/cinema-box-office/internal/config"     // Internal config loader
	"github.com/iliyamo/cinema-box-office/internal/handler"    // box office handlers
	"github.com/iliyamo/cinema-box-office/internal/middleware" // rate limit and cache
	"github.com/iliyamo/cinema-box-office/internal/model"      // room specs
	"github.com/iliyamo/cinema-box-office/internal/queue"      // ticket consumer
	"github.com/iliyamo/cinema-box-office/internal/router"     // Internal router setup
	"github.com/iliyamo/cinema-box-office/internal/service"    // ticket publisher
)

func main() {
	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	qCfg := config.LoadQueueConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	box := cinema.New()
	for _, r := range cfg.Rooms {
		box.Receive(model.RoomSpec{Movie: r.Movie, Capacity: r.Capacity})
		snap, _ := box.Room(r.Movie)
		log.Printf("Opened new room: %s", snap)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: caching disabled, rate limiting per process")
	} else {
		defer rdb.Close()
	}

	var pub handler.TicketPublisher
	if qCfg.Enabled {
		pub = service.NewPublisher(qCfg.URL)
		if qCfg.Consume {
			go func() {
				if err := queue.StartTicketConsumer(ctx, qCfg.URL, qCfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("ticket-consumer: stopped: %v", err)
				}
			}()
		}
	}

	var purger handler.CachePurger
	if p := middleware.NewCachePurger(cacheCfg, rdb); p != nil {
		purger = p
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	router.RegisterRoutes(e)
	router.RegisterBoxOffice(e, router.Deps{
		BoxOffice: handler.NewBoxOfficeHandler(box, pub, purger),
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.NewRedisCache(cacheCfg, rdb),
		RateLimit: middleware.NewTokenBucket(rlCfg, rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
