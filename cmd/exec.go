package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"office-booking/config"
	"office-booking/handlers"
	_ "office-booking/migrations"
	"office-booking/models"
	"office-booking/monitoring"
	"office-booking/security"
	"office-booking/services"
	"office-booking/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	monitor := monitoring.NewMonitor()
	bookingService := services.NewBookingService(cfg, monitor, utils.NewSeededRand(cfg.RandomSeed))

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService)
	adminHandler := handlers.NewAdminHandler(bookingService)
	limiter := security.NewRateLimiter(redisClient, int(cfg.MaxRequestsPerMinute))

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Start background tasks
	go monitor.Watch(ctx, bookingService, cfg.PositionUpdateInterval)
	go publishWaitlistPositions(ctx, redisClient, bookingService, cfg)

	if cfg.EnableMetrics {
		go serveMetrics(cfg.MetricsPort)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		syncCatalogFromDB(app, bookingService)

		e.Router.BindFunc(limiter.Middleware())

		// Booking endpoints
		e.Router.POST("/api/v1/bookings", bookingHandler.SubmitBooking)
		e.Router.POST("/api/v1/bookings/room", bookingHandler.SubmitRoomBooking)
		e.Router.GET("/api/v1/bookings/{bookingId}", bookingHandler.GetBooking)
		e.Router.POST("/api/v1/bookings/{bookingId}/check-in", bookingHandler.CheckIn)
		e.Router.POST("/api/v1/bookings/{bookingId}/cancel", bookingHandler.Cancel)

		// Allocation endpoints
		e.Router.POST("/api/v1/queue/drain", bookingHandler.DrainQueue)
		e.Router.GET("/api/v1/waitlists", bookingHandler.GetWaitlists)

		// Admin endpoints
		e.Router.POST("/api/v1/admin/reset-karma", adminHandler.ResetKarma)
		e.Router.DELETE("/api/v1/admin/bookings/{bookingId}", adminHandler.RemoveBooking)
		e.Router.DELETE("/api/v1/admin/resources/{resourceId}/bookings", adminHandler.ClearResource)
		e.Router.DELETE("/api/v1/admin/kinds/{kind}/bookings", adminHandler.ClearKind)
		e.Router.GET("/api/v1/admin/dashboard", adminHandler.GetDashboard)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		setupCatalogHooks(app, bookingService)

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// syncCatalogFromDB loads the user and resource catalogs from the
// database into the in-memory engine at startup.
func syncCatalogFromDB(app *pocketbase.PocketBase, bookingService *services.BookingService) {
	var users []dbx.NullStringMap
	if err := app.DB().NewQuery(
		"SELECT id, name, email, karma_points FROM office_users",
	).All(&users); err != nil {
		log.Printf("Error fetching users: %v", err)
	} else {
		for _, record := range users {
			bookingService.RegisterUser(&models.User{
				ID:          record["id"].String,
				Name:        record["name"].String,
				Email:       record["email"].String,
				KarmaPoints: parseKarma(record["karma_points"].String),
			})
		}
		log.Printf("Synced %d users into the catalog", len(users))
	}

	var resources []dbx.NullStringMap
	if err := app.DB().NewQuery(
		"SELECT id, kind, location, desk_family FROM resources",
	).All(&resources); err != nil {
		log.Printf("Error fetching resources: %v", err)
		return
	}
	for _, record := range resources {
		resource := &models.Resource{
			ID:         record["id"].String,
			Kind:       models.ResourceKind(record["kind"].String),
			Location:   record["location"].String,
			DeskFamily: record["desk_family"].String,
		}
		if err := bookingService.RegisterResource(resource); err != nil {
			log.Printf("Skipping resource %s: %v", resource.ID, err)
		}
	}
	log.Printf("Synced %d resources into the catalog", len(resources))
}

func parseKarma(s string) int {
	var karma int
	if _, err := fmt.Sscanf(s, "%d", &karma); err != nil {
		return 0
	}
	return karma
}

// setupCatalogHooks keeps the in-memory catalog aligned with record
// changes made through the PocketBase API.
func setupCatalogHooks(app *pocketbase.PocketBase, bookingService *services.BookingService) {
	registerUser := func(e *core.RecordRequestEvent) error {
		bookingService.RegisterUser(&models.User{
			ID:          e.Record.Id,
			Name:        e.Record.GetString("name"),
			Email:       e.Record.GetString("email"),
			KarmaPoints: e.Record.GetInt("karma_points"),
		})
		slog.Info("Catalog user synced", "userID", e.Record.Id)
		return e.Next()
	}
	app.OnRecordCreateRequest("office_users").BindFunc(registerUser)
	app.OnRecordUpdateRequest("office_users").BindFunc(registerUser)
	app.OnRecordDeleteRequest("office_users").BindFunc(func(e *core.RecordRequestEvent) error {
		bookingService.UnregisterUser(e.Record.Id)
		slog.Info("Catalog user removed", "userID", e.Record.Id)
		return e.Next()
	})

	registerResource := func(e *core.RecordRequestEvent) error {
		resource := &models.Resource{
			ID:         e.Record.Id,
			Kind:       models.ResourceKind(e.Record.GetString("kind")),
			Location:   e.Record.GetString("location"),
			DeskFamily: e.Record.GetString("desk_family"),
		}
		if err := bookingService.RegisterResource(resource); err != nil {
			slog.Error("Catalog resource rejected", "resourceID", e.Record.Id, "error", err)
			return e.Next()
		}
		slog.Info("Catalog resource synced", "resourceID", e.Record.Id)
		return e.Next()
	}
	app.OnRecordCreateRequest("resources").BindFunc(registerResource)
	app.OnRecordUpdateRequest("resources").BindFunc(registerResource)
	app.OnRecordDeleteRequest("resources").BindFunc(func(e *core.RecordRequestEvent) error {
		bookingService.UnregisterResource(e.Record.Id)
		slog.Info("Catalog resource removed", "resourceID", e.Record.Id)
		return e.Next()
	})
}

// publishWaitlistPositions periodically writes every waiter's current
// rank to Redis so clients can poll their position without hitting the
// engine. Writes go through a circuit breaker; a Redis outage only
// pauses position updates.
func publishWaitlistPositions(ctx context.Context, redisClient *redis.Client,
	bookingService *services.BookingService, cfg *config.Config) {

	breaker := utils.NewCircuitBreaker("waitlist-positions")
	ticker := time.NewTicker(cfg.PositionUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, snapshot := range bookingService.WaitlistSnapshots() {
				for rank, entry := range snapshot.Entries {
					key := fmt.Sprintf("waitlist:position:%s:%s", snapshot.Scope, entry.BookingID)
					position := rank + 1
					_, err := breaker.Execute(ctx, func() (any, error) {
						return nil, redisClient.Set(ctx, key, position, cfg.WaitlistPositionTTL).Err()
					})
					if err != nil {
						slog.Error("Failed to publish waitlist position", "key", key, "error", err)
					}
				}
			}
		}
	}
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Printf("Metrics server listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("Metrics server stopped: %v", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
