// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookhive/internal/catalog"
	"bookhive/internal/config"
	"bookhive/internal/identity"
	"bookhive/internal/loans"
	"bookhive/internal/server"
	"bookhive/internal/telemetry"

	"github.com/robfig/cron/v3"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to set up telemetry: %v", err)
	}

	identitySvc := identity.NewService(db, []byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	catalogSvc := catalog.NewService(db)
	loanSvc := loans.NewService(db)
	watcher := catalog.NewWatcher(catalogSvc, cfg.Database.URL)

	router := server.NewRouter(identitySvc, catalogSvc, loanSvc, watcher.Watch)

	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.Sweep.Schedule, func() {
		overdue, err := loanSvc.OverdueLoans(context.Background(), time.Now().UTC())
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			return
		}
		for _, loan := range overdue {
			log.Printf("Overdue loan %s: book %s was due %s", loan.ID, loan.BookID, loan.DueAt.Format(time.RFC3339))
		}
	}); err != nil {
		log.Fatalf("Invalid sweep schedule %q: %v", cfg.Sweep.Schedule, err)
	}
	sweeper.Start()

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("bookhive listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sweeper.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("Tracing shutdown: %v", err)
	}
}
