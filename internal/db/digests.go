package db

import (
	"time"

	"podcast-analyzer/internal/models"
)

func CreateDigest(title string, periodStart, periodEnd time.Time, podcastIDs models.Int64List) (models.Digest, error) {
	digest := models.Digest{}
	query := `
		INSERT INTO digests (title, period_start, period_end, podcast_ids, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING *
	`
	err := DB.Get(&digest, query, title, periodStart, periodEnd, podcastIDs)
	return digest, err
}

func GetDigest(id int64) (models.Digest, error) {
	digest := models.Digest{}
	err := DB.Get(&digest, "SELECT * FROM digests WHERE id = $1", id)
	return digest, err
}

func ListDigests(skip, limit int) ([]models.Digest, error) {
	digests := []models.Digest{}
	err := DB.Select(&digests,
		"SELECT * FROM digests ORDER BY created_at DESC OFFSET $1 LIMIT $2", skip, limit)
	return digests, err
}

func DeleteDigest(id int64) (bool, error) {
	res, err := DB.Exec("DELETE FROM digests WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func UpdateDigestStatus(id int64, status string) error {
	_, err := DB.Exec("UPDATE digests SET status = $1 WHERE id = $2", status, id)
	return err
}

// SetDigestProgress updates step and detail so the frontend can poll progress.
func SetDigestProgress(id int64, step, detail string) error {
	_, err := DB.Exec(
		"UPDATE digests SET status = 'processing', processing_step = $1, processing_detail = $2 WHERE id = $3",
		step, detail, id)
	return err
}

func AddDigestEpisode(digestID, episodeID int64) error {
	_, err := DB.Exec(
		"INSERT INTO digest_episodes (digest_id, episode_id) VALUES ($1, $2)", digestID, episodeID)
	return err
}

func ListDigestEpisodes(digestID int64) ([]models.DigestEpisodeInfo, error) {
	query := `
		SELECT e.id, e.title, e.podcast_id, p.title AS podcast_title, e.published_at
		FROM digest_episodes de
		JOIN episodes e ON e.id = de.episode_id
		JOIN podcasts p ON p.id = e.podcast_id
		WHERE de.digest_id = $1
		ORDER BY e.published_at
	`
	episodes := []models.DigestEpisodeInfo{}
	err := DB.Select(&episodes, query, digestID)
	return episodes, err
}

// CompleteDigestEmpty finishes a digest that matched no analyzed episodes.
func CompleteDigestEmpty(id int64, message string) error {
	_, err := DB.Exec(`
		UPDATE digests
		SET status = 'completed', processing_step = NULL, processing_detail = NULL,
		    summary = $1, episode_count = 0
		WHERE id = $2`, message, id)
	return err
}

// DigestResultFields holds everything persisted on successful synthesis.
type DigestResultFields struct {
	Summary         string
	CommonThemes    models.StringList
	Trends          models.TrendList
	Predictions     models.StringList
	Recommendations models.StringList
	KeyAdvice       models.StringList
	ActionItems     models.StringList
	ImageURL        *string
	ImagePrompt     *string
	EpisodeCount    int
}

func CompleteDigest(id int64, r DigestResultFields) error {
	query := `
		UPDATE digests
		SET summary = $1, common_themes = $2, trends = $3, predictions = $4,
		    recommendations = $5, key_advice = $6, action_items = $7,
		    image_url = $8, image_prompt = $9, episode_count = $10,
		    status = 'completed', processing_step = NULL, processing_detail = NULL
		WHERE id = $11
	`
	_, err := DB.Exec(query,
		r.Summary, r.CommonThemes, r.Trends, r.Predictions,
		r.Recommendations, r.KeyAdvice, r.ActionItems,
		r.ImageURL, r.ImagePrompt, r.EpisodeCount, id)
	return err
}

func FailDigest(id int64, message string) error {
	_, err := DB.Exec(`
		UPDATE digests
		SET status = 'failed', processing_step = NULL, processing_detail = NULL, summary = $1
		WHERE id = $2`, "Error: "+message, id)
	return err
}

func UpdateDigestImage(id int64, imageURL, imagePrompt string) error {
	_, err := DB.Exec(
		"UPDATE digests SET image_url = $1, image_prompt = $2 WHERE id = $3",
		imageURL, imagePrompt, id)
	return err
}
