package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/jamhive/jam-session-booking/internal/config"     // Internal config loader
	"github.com/jamhive/jam-session-booking/internal/database"   // MySQL connection pool
	"github.com/jamhive/jam-session-booking/internal/handler"    // HTTP handlers
	"github.com/jamhive/jam-session-booking/internal/middleware" // cache and rate limit middleware
	"github.com/jamhive/jam-session-booking/internal/queue"      // session event consumer
	"github.com/jamhive/jam-session-booking/internal/repository" // data access layer
	"github.com/jamhive/jam-session-booking/internal/router"     // Internal router setup
	"github.com/jamhive/jam-session-booking/internal/workflow"   // booking workflows
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	venues := repository.NewVenueRepo(db)
	sessions := repository.NewSessionRepo(db)
	members := repository.NewMembershipRepo(db)
	counters := repository.NewCounterRepo(db)

	// Booking workflows over the repositories.
	store := workflow.NewSQLStore(db, venues, sessions, members, counters)
	resolver := workflow.NewResolver(users)
	availability := workflow.NewAvailability(venues)
	flow := workflow.NewWorkflow(store, resolver, venues, sessions, members)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	onboardingH := handler.NewOnboardingHandler(cfg, users)
	ownerH := handler.NewOwnerHandler(venues, counters, resolver, availability)
	mediaH := handler.NewMediaHandler(cfg, venues)
	jamH := handler.NewJamHandler(flow)
	publicH := handler.NewPublicHandler(availability, sessions)

	e := echo.New() // Create Echo instance

	// Public browse endpoints get the Redis response cache and token
	// bucket rate limiter when Redis is reachable; without Redis the
	// routes are served directly.
	var publicMW []echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		publicMW = append(publicMW,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
			middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		)
	}

	router.RegisterRoutes(e) // health check
	router.RegisterAuth(e, authH, onboardingH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, publicMW...)
	router.RegisterJammer(e, jamH, cfg.JWTSecret)
	router.RegisterOwner(e, ownerH, mediaH, cfg.JWTSecret)

	// Uploaded venue images are served straight from disk.
	e.Static("/media", cfg.MediaDir)

	// Consume session events in the background; reconnects on failure.
	go func() {
		if err := queue.StartSessionConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
