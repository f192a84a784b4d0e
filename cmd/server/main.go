package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/api"
	"github.com/crunchynapkin404/team-planner-sub001/internal/config"
	"github.com/crunchynapkin404/team-planner-sub001/internal/job"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository/memory"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository/postgres"
	"github.com/crunchynapkin404/team-planner-sub001/internal/service"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
)

func main() {
	cfg := config.Load()

	db := openDatabase(cfg)
	defer db.Close()

	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry(),
		service.WithApplyDeadline(cfg.ApplyDefaultDeadline),
		service.WithHistoryWindowDays(cfg.FairnessHistoryWindowDays),
	)

	scheduler, err := job.NewScheduler(cfg.RedisAddr)
	if err != nil {
		log.Printf("async apply disabled, could not reach redis at %s: %v", cfg.RedisAddr, err)
		scheduler = nil
	} else {
		defer scheduler.Close()
	}

	router := api.NewRouter(&api.ServiceDeps{
		Orchestrator: orch,
		DB:           db,
		Scheduler:    scheduler,
	})

	go func() {
		log.Printf("shift orchestration engine listening on %s", cfg.ServerAddr)
		if err := router.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server stopped unexpectedly: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

func openDatabase(cfg config.Config) repository.Database {
	if cfg.DatabaseURL == "" {
		log.Println("no DATABASE_URL set, using in-memory repository")
		return memory.NewDatabase()
	}

	conn, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	return postgres.NewDatabase(conn)
}
