package main

import (
	"log"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"podcast-analyzer/internal/config"
	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/digest"
	"podcast-analyzer/internal/feed"
	"podcast-analyzer/internal/handlers"
	"podcast-analyzer/internal/llm"
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

	db.InitDB(cfg.DatabaseURL)
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Could not run migrations: %v", err)
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	client := asynq.NewClient(redisOpt)
	defer client.Close()
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	// The server only needs the generator for on-demand image regeneration;
	// full digest synthesis runs in the worker.
	anthropic := llm.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMRequestsPerMinute)
	imagen := llm.NewImagenClient(cfg.GoogleAPIKey)
	generator := digest.NewGenerator(anthropic, imagen)

	srv := handlers.NewServer(client, feed.NewParser(), generator, inspector, cfg.RefreshIntervalHours)

	log.Printf("Starting server on :%s (commit: %s)", cfg.Port, CommitSHA)
	if err := http.ListenAndServe(":"+cfg.Port, srv.Routes()); err != nil {
		log.Fatal(err)
	}
}
