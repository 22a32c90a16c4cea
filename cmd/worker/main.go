package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"podcast-analyzer/internal/audio"
	"podcast-analyzer/internal/config"
	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/digest"
	"podcast-analyzer/internal/feed"
	"podcast-analyzer/internal/llm"
	"podcast-analyzer/internal/pipeline"
	"podcast-analyzer/internal/summarize"
	"podcast-analyzer/internal/transcribe"
	"podcast-analyzer/internal/worker"
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

	db.InitDB(cfg.DatabaseURL)
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Could not run migrations: %v", err)
	}

	engine, err := transcribe.NewEngine(cfg.WhisperBin, cfg.WhisperModel)
	if err != nil {
		log.Fatalf("Could not initialize transcription: %v", err)
	}

	anthropic := llm.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMRequestsPerMinute)
	imagen := llm.NewImagenClient(cfg.GoogleAPIKey)

	episodes := pipeline.NewEpisodeProcessor(
		audio.NewFetcher(cfg.AudioDir, cfg.MaxAudioBytes),
		engine,
		summarize.NewSummarizer(anthropic, cfg.ChunkSize),
	)
	digests := pipeline.NewDigestProcessor(digest.NewGenerator(anthropic, imagen))

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer client.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			// Transcription holds the whisper binary and the LLM is rate
			// limited, so keep the pipeline serial.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(client, episodes, digests, feed.NewParser())

	mux.HandleFunc(tasks.TypeProcessEpisode, taskHandler.HandleProcessEpisodeTask)
	mux.HandleFunc(tasks.TypeProcessDigest, taskHandler.HandleProcessDigestTask)
	mux.HandleFunc(tasks.TypeRefreshFeed, taskHandler.HandleRefreshFeedTask)
	mux.HandleFunc(tasks.TypeRefreshAllFeeds, taskHandler.HandleRefreshAllFeedsTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
