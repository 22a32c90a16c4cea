package models

import "time"

// Digest processing steps.
const (
	DigestStepCollecting      = "collecting_episodes"
	DigestStepGenerating      = "generating_content"
	DigestStepGeneratingImage = "generating_image"
)

// Digest is a cross-episode synthesis report for a time window.
type Digest struct {
	ID               int64      `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	PeriodStart      time.Time  `db:"period_start" json:"period_start"`
	PeriodEnd        time.Time  `db:"period_end" json:"period_end"`
	PodcastIDs       Int64List  `db:"podcast_ids" json:"podcast_ids"`
	EpisodeCount     int        `db:"episode_count" json:"episode_count"`
	Summary          *string    `db:"summary" json:"summary"`
	CommonThemes     StringList `db:"common_themes" json:"common_themes"`
	Trends           TrendList  `db:"trends" json:"trends"`
	Predictions      StringList `db:"predictions" json:"predictions"`
	Recommendations  StringList `db:"recommendations" json:"recommendations"`
	KeyAdvice        StringList `db:"key_advice" json:"key_advice"`
	ActionItems      StringList `db:"action_items" json:"action_items"`
	ImageURL         *string    `db:"image_url" json:"image_url"`
	ImagePrompt      *string    `db:"image_prompt" json:"image_prompt"`
	Status           string     `db:"status" json:"status"`
	ProcessingStep   *string    `db:"processing_step" json:"processing_step"`
	ProcessingDetail *string    `db:"processing_detail" json:"processing_detail"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// DigestEpisode records that an episode contributed to a digest.
type DigestEpisode struct {
	ID        int64 `db:"id" json:"id"`
	DigestID  int64 `db:"digest_id" json:"digest_id"`
	EpisodeID int64 `db:"episode_id" json:"episode_id"`
}

// DigestEpisodeInfo is the read-side projection of an included episode.
type DigestEpisodeInfo struct {
	ID           int64      `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	PodcastID    int64      `db:"podcast_id" json:"podcast_id"`
	PodcastTitle string     `db:"podcast_title" json:"podcast_title"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at"`
}
