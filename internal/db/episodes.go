package db

import (
	"strconv"
	"time"

	"github.com/lib/pq"

	"podcast-analyzer/internal/models"
)

func CreateEpisode(podcastID int64, title, audioURL string, guid, description *string, publishedAt *time.Time, durationSeconds *int) (models.Episode, error) {
	episode := models.Episode{}
	query := `
		INSERT INTO episodes (podcast_id, title, audio_url, guid, description, published_at, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`
	err := DB.Get(&episode, query, podcastID, title, audioURL, guid, description, publishedAt, durationSeconds)
	return episode, err
}

func GetEpisode(id int64) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

func GetEpisodeInPodcast(podcastID, episodeID int64) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1 AND podcast_id = $2", episodeID, podcastID)
	return episode, err
}

// EpisodeGUIDs returns the known guids for a podcast, for refresh dedup.
func EpisodeGUIDs(podcastID int64) (map[string]bool, error) {
	var guids []string
	err := DB.Select(&guids, "SELECT guid FROM episodes WHERE podcast_id = $1 AND guid IS NOT NULL", podcastID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(guids))
	for _, g := range guids {
		known[g] = true
	}
	return known, nil
}

// EpisodeFilter narrows episode selection. Latest selects the single
// most-recently-published episode per podcast and ignores Start/End.
type EpisodeFilter struct {
	Start      *time.Time
	End        *time.Time
	PodcastIDs []int64
	Status     string
	Latest     bool
}

// SelectEpisodes returns episodes matching the filter, newest first.
func SelectEpisodes(f EpisodeFilter, skip, limit int) ([]models.Episode, error) {
	query := "SELECT e.* FROM episodes e"
	args := []interface{}{}

	if f.Latest {
		query += `
			JOIN (
				SELECT podcast_id, MAX(published_at) AS max_date
				FROM episodes GROUP BY podcast_id
			) latest ON e.podcast_id = latest.podcast_id AND e.published_at = latest.max_date`
	}

	query += " WHERE TRUE"
	if !f.Latest && f.Start != nil {
		args = append(args, *f.Start)
		query += " AND e.published_at >= $" + itoa(len(args))
	}
	if !f.Latest && f.End != nil {
		args = append(args, *f.End)
		query += " AND e.published_at <= $" + itoa(len(args))
	}
	if len(f.PodcastIDs) > 0 {
		args = append(args, pq.Array(f.PodcastIDs))
		query += " AND e.podcast_id = ANY($" + itoa(len(args)) + ")"
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += " AND e.status = $" + itoa(len(args))
	}

	query += " ORDER BY e.published_at DESC NULLS LAST"
	if limit > 0 {
		args = append(args, skip, limit)
		query += " OFFSET $" + itoa(len(args)-1) + " LIMIT $" + itoa(len(args))
	}

	episodes := []models.Episode{}
	err := DB.Select(&episodes, query, args...)
	return episodes, err
}

// AdmitEpisode atomically flips an episode into processing if its current
// status is one of from. Exactly one concurrent caller wins; the rest see
// false. This is the status-as-lock admission for the pipeline.
func AdmitEpisode(id int64, from ...string) (bool, error) {
	res, err := DB.Exec(
		"UPDATE episodes SET status = 'processing' WHERE id = $1 AND status = ANY($2)",
		id, pq.Array(from),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetEpisodeProcessing marks the episode processing with the given step.
func SetEpisodeProcessing(id int64, step string) error {
	_, err := DB.Exec("UPDATE episodes SET status = 'processing', processing_step = $1 WHERE id = $2", step, id)
	return err
}

// SetEpisodeStep advances the processing step. Persisted immediately so
// pollers observe live progress.
func SetEpisodeStep(id int64, step string) error {
	_, err := DB.Exec("UPDATE episodes SET processing_step = $1 WHERE id = $2", step, id)
	return err
}

// SaveEpisodeTranscript persists the transcript as soon as transcription
// succeeds, so it survives a later analysis failure.
func SaveEpisodeTranscript(id int64, transcript string) error {
	_, err := DB.Exec("UPDATE episodes SET transcript = $1 WHERE id = $2", transcript, id)
	return err
}

func CompleteEpisode(id int64, summary string) error {
	_, err := DB.Exec(
		"UPDATE episodes SET status = 'completed', processing_step = NULL, summary = $1 WHERE id = $2",
		summary, id)
	return err
}

func FailEpisode(id int64, message string) error {
	_, err := DB.Exec(
		"UPDATE episodes SET status = 'failed', processing_step = NULL, summary = $1 WHERE id = $2",
		"Error: "+message, id)
	return err
}

// ResetStuckEpisodes returns processing and failed episodes to pending with a
// cleared step, for manual re-drive.
func ResetStuckEpisodes() (int64, error) {
	res, err := DB.Exec(
		"UPDATE episodes SET status = 'pending', processing_step = NULL WHERE status IN ('processing', 'failed')")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ProgressEpisodes returns the episodes to show in the live progress poll.
// With no ids it returns the 50 most recent non-pending episodes.
func ProgressEpisodes(ids []int64) ([]models.Episode, error) {
	episodes := []models.Episode{}
	if len(ids) > 0 {
		err := DB.Select(&episodes,
			"SELECT * FROM episodes WHERE id = ANY($1) ORDER BY id DESC LIMIT 50", pq.Array(ids))
		return episodes, err
	}
	err := DB.Select(&episodes,
		"SELECT * FROM episodes WHERE status != 'pending' ORDER BY id DESC LIMIT 50")
	return episodes, err
}

// CompletedEpisodesInPeriod selects digest-eligible episodes: completed, with
// published_at inside the inclusive window, optionally limited to podcasts.
func CompletedEpisodesInPeriod(start, end time.Time, podcastIDs []int64) ([]models.Episode, error) {
	query := `
		SELECT * FROM episodes
		WHERE status = 'completed' AND published_at >= $1 AND published_at <= $2`
	args := []interface{}{start, end}
	if len(podcastIDs) > 0 {
		args = append(args, pq.Array(podcastIDs))
		query += " AND podcast_id = ANY($3)"
	}
	query += " ORDER BY published_at"

	episodes := []models.Episode{}
	err := DB.Select(&episodes, query, args...)
	return episodes, err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
