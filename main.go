package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/repsense-data/repsense/internal/api"
	"github.com/repsense-data/repsense/internal/coach"
	"github.com/repsense-data/repsense/internal/db"
	"github.com/repsense-data/repsense/internal/exercise"
	"github.com/repsense-data/repsense/internal/session"
	"github.com/repsense-data/repsense/internal/version"
)

var (
	devMode       = flag.Bool("dev", false, "Run in dev mode (admin routes without Tailscale)")
	listen        = flag.String("listen", ":8080", "Listen address")
	dbFile        = flag.String("db", "repsense.db", "SQLite database file (empty disables persistence)")
	migrationsDir = flag.String("migrations", "internal/db/migrations", "Schema migrations directory")
	exercisesDir  = flag.String("exercises", "exercises", "Directory of exercise config JSON files")
	feedbackURL   = flag.String("feedback-url", "", "Feedback service URL (empty logs rep records instead)")
	sweepInterval = flag.Duration("sweep-interval", 2*time.Second, "Background segmentation sweep interval")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	log.Printf("repsense %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	configs := exercise.NewStore()
	n, err := configs.LoadDir(*exercisesDir)
	if err != nil {
		log.Fatalf("Failed to load exercise configs: %v", err)
	}
	if n == 0 {
		log.Fatalf("No exercise configs found in %s", *exercisesDir)
	}
	log.Printf("Loaded %d exercise configs from %s", n, *exercisesDir)

	var database *db.DB
	if *dbFile != "" {
		database, err = db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	} else {
		log.Print("Persistence disabled; session analytics will not survive restarts")
	}

	var dispatcher coach.Dispatcher = coach.LogDispatcher{}
	if *feedbackURL != "" {
		dispatcher = coach.NewHTTPDispatcher(*feedbackURL)
		log.Printf("Dispatching rep records to %s", *feedbackURL)
	}

	manager := session.NewManager(configs, database, dispatcher)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// background sweep picks up sessions whose frames arrive without an
	// explicit processing request, and expires idle ones
	worker := session.NewWorker(manager)
	worker.Interval = *sweepInterval
	worker.Start()
	defer worker.Stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes in dev mode only
		if database != nil && *devMode {
			database.AttachAdminRoutes(mux, "repsense")
		}

		apiMux := api.NewServer(manager, configs, database).ServeMux()
		mux.Handle("/", apiMux)

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("Listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
