package models

import "time"

type Podcast struct {
	ID            int64      `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	FeedURL       string     `db:"feed_url" json:"feed_url"`
	Description   *string    `db:"description" json:"description"`
	ImageURL      *string    `db:"image_url" json:"image_url"`
	AutoAnalyze   bool       `db:"auto_analyze" json:"auto_analyze"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	LastCheckedAt *time.Time `db:"last_checked_at" json:"last_checked_at"`
}

// PodcastSummary is the list-view projection with episode counts.
type PodcastSummary struct {
	Podcast
	EpisodeCount  int `db:"episode_count" json:"episode_count"`
	AnalyzedCount int `db:"analyzed_count" json:"analyzed_count"`
}
