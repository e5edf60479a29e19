package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"djanselme/config"
	"djanselme/handlers"
	_ "djanselme/migrations"
	"djanselme/monitoring"
	"djanselme/notify"
	"djanselme/security"
	"djanselme/services"
	"djanselme/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub for realtime admin notifications (optional)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	monitor := monitoring.NewMonitor(redisClient)
	submissionLimiter := security.NewRateLimiter(redisClient, cfg.SubmissionLimit, cfg.SubmissionWindow)
	notifyLimiter := security.NewRateLimiter(redisClient, cfg.SubmissionLimit, cfg.SubmissionWindow)

	pricing := services.PricingPolicy{
		FreeTravelKm:    decimal.NewFromFloat(cfg.FreeTravelKm),
		TravelRatePerKm: decimal.NewFromFloat(cfg.TravelRatePerKm),
	}

	store := services.NewPBRecordStore(app)
	notifyClient := services.NewNotifyClient(cfg.NotifyURL)
	submissionService := services.NewSubmissionService(store, notifyClient, submissionLimiter, pn, monitor, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(app)
	publicHandler := handlers.NewPublicHandler(app, submissionService)
	adminHandler := handlers.NewAdminHandler(app, pricing, monitor)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Start the standalone notification function
	notifyHandler := notify.NewHandler(notify.NewSMTPMailer(cfg), notifyLimiter, monitor, cfg)
	notifyServer := notify.NewServer(notifyHandler)
	go func() {
		if err := notifyServer.Start(":" + cfg.NotifyPort); err != nil {
			log.Printf("notification server stopped: %v", err)
		}
	}()

	if cfg.EnableMetrics {
		go monitoring.ServeMetrics(cfg.MetricsPort)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		syncActiveMixSessionsToRedis(app, redisClient)

		// Public endpoints
		e.Router.GET("/api/v1/events", publicHandler.GetEvents)
		e.Router.GET("/api/v1/gallery", publicHandler.GetGallery)
		e.Router.GET("/api/v1/mix-sessions", publicHandler.GetMixSessions)
		e.Router.GET("/api/v1/audio", publicHandler.GetAudio)
		e.Router.POST("/api/v1/audio/{id}/play", publicHandler.PlayAudio)
		e.Router.POST("/api/v1/bookings", publicHandler.SubmitBooking)
		e.Router.POST("/api/v1/quotes", publicHandler.SubmitQuote)

		// Auth endpoints
		e.Router.POST("/api/v1/auth/sign-in", authHandler.SignIn)
		e.Router.POST("/api/v1/auth/sign-up", authHandler.SignUp)
		e.Router.POST("/api/v1/auth/sign-out", authHandler.SignOut)
		e.Router.GET("/api/v1/auth/me", authHandler.Me)

		// Admin endpoints
		e.Router.GET("/api/v1/admin/bookings", adminHandler.ListBookings)
		e.Router.PATCH("/api/v1/admin/bookings/{id}/status", adminHandler.UpdateBookingStatus)
		e.Router.GET("/api/v1/admin/quotes", adminHandler.ListQuotes)
		e.Router.PATCH("/api/v1/admin/quotes/{id}/status", adminHandler.UpdateQuoteStatus)
		e.Router.PUT("/api/v1/admin/quotes/{id}/pricing", adminHandler.UpdateQuotePricing)
		e.Router.POST("/api/v1/admin/events", adminHandler.CreateEvent)
		e.Router.PUT("/api/v1/admin/events/{id}", adminHandler.UpdateEvent)
		e.Router.DELETE("/api/v1/admin/events/{id}", adminHandler.DeleteEvent)
		e.Router.POST("/api/v1/admin/gallery", adminHandler.UploadGalleryPhoto)
		e.Router.DELETE("/api/v1/admin/gallery/{id}", adminHandler.DeleteGalleryPhoto)
		e.Router.POST("/api/v1/admin/audio", adminHandler.UploadAudio)
		e.Router.DELETE("/api/v1/admin/audio/{id}", adminHandler.DeleteAudio)
		e.Router.POST("/api/v1/admin/mix-sessions", adminHandler.CreateMixSession)
		e.Router.PUT("/api/v1/admin/mix-sessions/{id}", adminHandler.UpdateMixSession)
		e.Router.DELETE("/api/v1/admin/mix-sessions/{id}", adminHandler.DeleteMixSession)
		e.Router.GET("/api/v1/admin/stats", adminHandler.GetStats)

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

		setupRecordHooks(app, redisClient)

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// syncActiveMixSessionsToRedis rebuilds the cached set of active sessions
// so the public listing survives a cold start with a warm cache.
func syncActiveMixSessionsToRedis(app *pocketbase.PocketBase, redisClient *redis.Client) {
	ctx := context.Background()

	var records []dbx.NullStringMap
	if err := app.DB().NewQuery(
		"SELECT id FROM mix_sessions WHERE is_active = true",
	).All(&records); err != nil {
		log.Printf("Error fetching active mix sessions: %v", err)
		return
	}

	redisClient.Del(ctx, "active_mix_sessions")

	if len(records) > 0 {
		var ids []interface{}
		for _, record := range records {
			if id := record["id"].String; id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			redisClient.SAdd(ctx, "active_mix_sessions", ids...)
			log.Printf("Synced %d active mix sessions to Redis", len(ids))
		}
	}
}

func setupRecordHooks(app *pocketbase.PocketBase, redisClient *redis.Client) {
	app.OnRecordAfterCreateSuccess("mix_sessions").BindFunc(func(e *core.RecordEvent) error {
		ctx := context.Background()
		if e.Record.GetBool("is_active") {
			if err := redisClient.SAdd(ctx, "active_mix_sessions", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to cache active mix session", "id", e.Record.Id, "error", err)
			}
		}
		return e.Next()
	})

	app.OnRecordAfterUpdateSuccess("mix_sessions").BindFunc(func(e *core.RecordEvent) error {
		ctx := context.Background()
		if e.Record.GetBool("is_active") {
			if err := redisClient.SAdd(ctx, "active_mix_sessions", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to cache active mix session", "id", e.Record.Id, "error", err)
			}
		} else {
			if err := redisClient.SRem(ctx, "active_mix_sessions", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to evict inactive mix session", "id", e.Record.Id, "error", err)
			}
		}
		return e.Next()
	})

	app.OnRecordAfterDeleteSuccess("mix_sessions").BindFunc(func(e *core.RecordEvent) error {
		if err := redisClient.SRem(context.Background(), "active_mix_sessions", e.Record.Id).Err(); err != nil {
			slog.Error("Failed to evict deleted mix session", "id", e.Record.Id, "error", err)
		}
		return e.Next()
	})

	// Triage decisions are audit-logged; the record API stays closed so this
	// only fires for the admin endpoints.
	app.OnRecordAfterUpdateSuccess("bookings", "quotes").BindFunc(func(e *core.RecordEvent) error {
		slog.Info("request updated",
			"collection", e.Record.Collection().Name,
			"id", e.Record.Id,
			"status", e.Record.GetString("status"),
		)
		return e.Next()
	})
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
