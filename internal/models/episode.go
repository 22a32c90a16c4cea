package models

import "time"

// Episode lifecycle statuses. processing_step is non-null only while the
// status is processing; a failed episode carries "Error: ..." in its summary.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Episode processing steps, surfaced for progress polling.
const (
	StepStarting     = "starting"
	StepDownloading  = "downloading"
	StepTranscribing = "transcribing"
	StepAnalyzing    = "analyzing"
)

type Episode struct {
	ID              int64      `db:"id" json:"id"`
	PodcastID       int64      `db:"podcast_id" json:"podcast_id"`
	GUID            *string    `db:"guid" json:"guid"`
	Title           string     `db:"title" json:"title"`
	AudioURL        string     `db:"audio_url" json:"audio_url"`
	Description     *string    `db:"description" json:"description"`
	PublishedAt     *time.Time `db:"published_at" json:"published_at"`
	DurationSeconds *int       `db:"duration_seconds" json:"duration_seconds"`
	Status          string     `db:"status" json:"status"`
	ProcessingStep  *string    `db:"processing_step" json:"processing_step"`
	Transcript      *string    `db:"transcript" json:"transcript"`
	Summary         *string    `db:"summary" json:"summary"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// EpisodeAnalysis is the structured output of the analysis engine, 1:1 with a
// completed episode. All list fields update together on upsert.
type EpisodeAnalysis struct {
	ID              int64      `db:"id" json:"id"`
	EpisodeID       int64      `db:"episode_id" json:"episode_id"`
	Overview        string     `db:"overview" json:"overview"`
	KeyPoints       StringList `db:"key_points" json:"key_points"`
	Topics          StringList `db:"topics" json:"topics"`
	Themes          StringList `db:"themes" json:"themes"`
	Predictions     StringList `db:"predictions" json:"predictions"`
	Recommendations StringList `db:"recommendations" json:"recommendations"`
	Advice          StringList `db:"advice" json:"advice"`
	NotableQuotes   StringList `db:"notable_quotes" json:"notable_quotes"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at"`
}
