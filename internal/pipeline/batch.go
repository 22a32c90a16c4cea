package pipeline

import (
	"fmt"
	"log"
	"time"

	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/models"
	"podcast-analyzer/pkg/tasks"
)

// BatchRequest selects the episodes to analyze.
type BatchRequest struct {
	Period     string     `json:"period"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	PodcastIDs []int64    `json:"podcast_ids"`
}

// BatchStatus reports the batch at invocation time. Pending episodes are
// reported as processing because this call is enqueuing them.
type BatchStatus struct {
	TotalEpisodes int     `json:"total_episodes"`
	Pending       int     `json:"pending"`
	Processing    int     `json:"processing"`
	Completed     int     `json:"completed"`
	Failed        int     `json:"failed"`
	EpisodeIDs    []int64 `json:"episode_ids"`
}

// Batch fans the episode pipeline out over a filtered episode set.
type Batch struct {
	enqueuer tasks.TaskEnqueuer
}

func NewBatch(enqueuer tasks.TaskEnqueuer) *Batch {
	return &Batch{enqueuer: enqueuer}
}

// Run resolves the episode set and enqueues processing for every pending
// episode. Admission is an atomic pending-to-processing flip, so a second
// Run on the same period cannot enqueue an episode twice.
func (b *Batch) Run(req BatchRequest) (*BatchStatus, error) {
	if req.Period == "" {
		req.Period = PeriodLatest
	}
	start, end, latest, err := ResolvePeriod(req.Period, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	episodes, err := db.SelectEpisodes(db.EpisodeFilter{
		Start:      start,
		End:        end,
		PodcastIDs: req.PodcastIDs,
		Latest:     latest,
	}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to select episodes: %w", err)
	}

	status := &BatchStatus{
		TotalEpisodes: len(episodes),
		EpisodeIDs:    make([]int64, 0, len(episodes)),
	}

	for _, ep := range episodes {
		status.EpisodeIDs = append(status.EpisodeIDs, ep.ID)
		switch ep.Status {
		case models.StatusPending:
			status.Pending++
		case models.StatusProcessing:
			status.Processing++
		case models.StatusCompleted:
			status.Completed++
		case models.StatusFailed:
			status.Failed++
		}

		if ep.Status != models.StatusPending {
			continue
		}
		admitted, err := db.AdmitEpisode(ep.ID, models.StatusPending)
		if err != nil {
			log.Printf("Failed to admit episode %d: %v", ep.ID, err)
			continue
		}
		if !admitted {
			continue // another batch call got there first
		}
		if err := tasks.EnqueueProcessEpisode(b.enqueuer, ep.ID); err != nil {
			log.Printf("Failed to enqueue episode %d: %v", ep.ID, err)
		}
	}

	// Pending episodes are now being processed as part of this call.
	status.Processing += status.Pending

	return status, nil
}

// ResetStuck returns processing and failed episodes to pending for re-drive.
func (b *Batch) ResetStuck() (int64, error) {
	return db.ResetStuckEpisodes()
}
