package main

import (
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"podcast-analyzer/internal/config"
	"podcast-analyzer/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{},
	)

	task, err := tasks.NewRefreshAllFeedsTask()
	if err != nil {
		log.Fatalf("could not create task: %v", err)
	}

	spec := fmt.Sprintf("@every %dh", cfg.RefreshIntervalHours)
	if _, err := scheduler.Register(spec, task); err != nil {
		log.Fatalf("could not register task: %v", err)
	}

	log.Printf("Scheduler starting, refreshing feeds %s (commit: %s)", spec, CommitSHA)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("could not run scheduler: %v", err)
	}
}
