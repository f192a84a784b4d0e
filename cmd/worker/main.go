package main

import (
	"log"
	"time"

	"github.com/hibiken/asynq"

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
		service.WithHistoryCacheTTL(15*time.Minute),
	)

	handlers := job.NewHandlers(orch)
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{Concurrency: 10},
	)

	log.Printf("worker listening on redis at %s", cfg.RedisAddr)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("worker stopped unexpectedly: %v", err)
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
