package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeProcessEpisode  = "episode:process"
	TypeProcessDigest   = "digest:process"
	TypeRefreshFeed     = "feed:refresh"
	TypeRefreshAllFeeds = "feeds:refresh"
)

type ProcessEpisodeTaskPayload struct {
	EpisodeID int64
}

func NewProcessEpisodeTask(episodeID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(ProcessEpisodeTaskPayload{EpisodeID: episodeID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProcessEpisode, payload), nil
}

type ProcessDigestTaskPayload struct {
	DigestID int64
}

func NewProcessDigestTask(digestID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(ProcessDigestTaskPayload{DigestID: digestID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProcessDigest, payload), nil
}

type RefreshFeedTaskPayload struct {
	PodcastID int64
}

func NewRefreshFeedTask(podcastID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(RefreshFeedTaskPayload{PodcastID: podcastID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRefreshFeed, payload), nil
}

func NewRefreshAllFeedsTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeRefreshAllFeeds, nil), nil
}

// EnqueueProcessEpisode enqueues an episode pipeline run. Retries are
// disabled: a failed run is recorded on the episode row and re-driven by the
// reset-stuck operation, never replayed automatically.
func EnqueueProcessEpisode(client TaskEnqueuer, episodeID int64) error {
	task, err := NewProcessEpisodeTask(episodeID)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(task, asynq.MaxRetry(0))
	return err
}

// EnqueueProcessDigest enqueues a digest pipeline run, also without retries.
func EnqueueProcessDigest(client TaskEnqueuer, digestID int64) error {
	task, err := NewProcessDigestTask(digestID)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(task, asynq.MaxRetry(0))
	return err
}

func EnqueueRefreshFeed(client TaskEnqueuer, podcastID int64) error {
	task, err := NewRefreshFeedTask(podcastID)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(task)
	return err
}

func EnqueueRefreshAllFeeds(client TaskEnqueuer) error {
	task, err := NewRefreshAllFeedsTask()
	if err != nil {
		return err
	}
	_, err = client.Enqueue(task)
	return err
}
