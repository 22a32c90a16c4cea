package db

import (
	"log"
	"time"

	"podcast-analyzer/internal/models"
)

func CreatePodcast(title, feedURL string, description, imageURL *string, autoAnalyze bool) (models.Podcast, error) {
	podcast := models.Podcast{}
	query := `
		INSERT INTO podcasts (title, feed_url, description, image_url, auto_analyze, last_checked_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING *
	`
	err := DB.Get(&podcast, query, title, feedURL, description, imageURL, autoAnalyze)
	if err != nil {
		log.Printf("Error creating podcast %q: %v", title, err)
	}
	return podcast, err
}

func GetPodcast(id int64) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE id = $1", id)
	return podcast, err
}

func GetPodcastByFeedURL(feedURL string) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE feed_url = $1", feedURL)
	return podcast, err
}

func ListPodcasts(skip, limit int) ([]models.PodcastSummary, error) {
	query := `
		SELECT p.*,
			(SELECT COUNT(*) FROM episodes e WHERE e.podcast_id = p.id) AS episode_count,
			(SELECT COUNT(*) FROM episodes e WHERE e.podcast_id = p.id AND e.status = 'completed') AS analyzed_count
		FROM podcasts p
		ORDER BY p.created_at DESC
		OFFSET $1 LIMIT $2
	`
	podcasts := []models.PodcastSummary{}
	err := DB.Select(&podcasts, query, skip, limit)
	return podcasts, err
}

func AllPodcasts() ([]models.Podcast, error) {
	podcasts := []models.Podcast{}
	err := DB.Select(&podcasts, "SELECT * FROM podcasts ORDER BY id")
	return podcasts, err
}

func UpdatePodcastAutoAnalyze(id int64, autoAnalyze bool) error {
	_, err := DB.Exec("UPDATE podcasts SET auto_analyze = $1 WHERE id = $2", autoAnalyze, id)
	return err
}

func TouchPodcastLastChecked(id int64, at time.Time) error {
	_, err := DB.Exec("UPDATE podcasts SET last_checked_at = $1 WHERE id = $2", at, id)
	return err
}

// DeletePodcast removes a podcast; episodes and their analyses cascade.
func DeletePodcast(id int64) (bool, error) {
	res, err := DB.Exec("DELETE FROM podcasts WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
