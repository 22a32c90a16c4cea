package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/feed"
	"podcast-analyzer/internal/metrics"
	"podcast-analyzer/internal/models"
	"podcast-analyzer/internal/pipeline"
	"podcast-analyzer/pkg/tasks"
)

// TaskHandler owns the pipeline processors shared by all task invocations.
type TaskHandler struct {
	asynqClient tasks.TaskEnqueuer
	episodes    *pipeline.EpisodeProcessor
	digests     *pipeline.DigestProcessor
	parser      *feed.Parser
}

func NewTaskHandler(client tasks.TaskEnqueuer, episodes *pipeline.EpisodeProcessor, digests *pipeline.DigestProcessor, parser *feed.Parser) *TaskHandler {
	return &TaskHandler{
		asynqClient: client,
		episodes:    episodes,
		digests:     digests,
		parser:      parser,
	}
}

// HandleProcessEpisodeTask runs the episode pipeline. Pipeline failures are
// recorded on the episode row, so the task itself always succeeds; returning
// an error here would make asynq replay work the operator must re-drive
// explicitly.
func (h *TaskHandler) HandleProcessEpisodeTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.ProcessEpisodeTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Processing episode: %d", p.EpisodeID)
	if err := h.episodes.Process(ctx, p.EpisodeID); err != nil {
		log.Printf("Episode %d failed: %v", p.EpisodeID, err)
		metrics.EpisodesProcessed.WithLabelValues("failed").Inc()
		return nil
	}

	log.Printf("Successfully processed episode: %d", p.EpisodeID)
	metrics.EpisodesProcessed.WithLabelValues("completed").Inc()
	return nil
}

// HandleProcessDigestTask runs the digest pipeline with the same
// failure-is-recorded semantics.
func (h *TaskHandler) HandleProcessDigestTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.ProcessDigestTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Processing digest: %d", p.DigestID)
	if err := h.digests.Process(ctx, p.DigestID); err != nil {
		log.Printf("Digest %d failed: %v", p.DigestID, err)
		metrics.DigestsProcessed.WithLabelValues("failed").Inc()
		return nil
	}

	log.Printf("Successfully processed digest: %d", p.DigestID)
	metrics.DigestsProcessed.WithLabelValues("completed").Inc()
	return nil
}

// HandleRefreshAllFeedsTask fans out one refresh task per podcast.
func (h *TaskHandler) HandleRefreshAllFeedsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Refreshing all podcast feeds...")

	podcasts, err := db.AllPodcasts()
	if err != nil {
		return fmt.Errorf("failed to list podcasts: %w", err)
	}

	for _, podcast := range podcasts {
		task, err := tasks.NewRefreshFeedTask(podcast.ID)
		if err != nil {
			log.Printf("failed to create refresh task for podcast %d: %v", podcast.ID, err)
			continue
		}
		if _, err := h.asynqClient.Enqueue(task); err != nil {
			log.Printf("failed to enqueue refresh task for podcast %d: %v", podcast.ID, err)
			continue
		}
	}

	log.Println("Finished scheduling feed refreshes.")
	return nil
}

// HandleRefreshFeedTask re-parses one podcast feed, stores new episodes and,
// for auto-analyze podcasts, enqueues processing for each new episode.
func (h *TaskHandler) HandleRefreshFeedTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.RefreshFeedTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	podcast, err := db.GetPodcast(p.PodcastID)
	if err != nil {
		return fmt.Errorf("failed to get podcast %d: %w", p.PodcastID, err)
	}

	parsed, err := h.parser.Parse(ctx, podcast.FeedURL)
	if err != nil {
		return fmt.Errorf("failed to refresh %q: %w", podcast.Title, err)
	}

	created, err := feed.IngestEpisodes(&podcast, parsed)
	if err != nil {
		return fmt.Errorf("failed to ingest episodes for %q: %w", podcast.Title, err)
	}

	metrics.FeedRefreshes.Inc()
	metrics.EpisodesDiscovered.Add(float64(len(created)))
	if len(created) > 0 {
		log.Printf("Added %d new episodes for %s", len(created), podcast.Title)
	}

	if !podcast.AutoAnalyze {
		return nil
	}
	for _, episode := range created {
		admitted, err := db.AdmitEpisode(episode.ID, models.StatusPending)
		if err != nil || !admitted {
			continue
		}
		if err := tasks.EnqueueProcessEpisode(h.asynqClient, episode.ID); err != nil {
			log.Printf("failed to enqueue new episode %d: %v", episode.ID, err)
		}
	}
	return nil
}
