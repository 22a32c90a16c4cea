package db

import (
	"podcast-analyzer/internal/models"
)

// UpsertAnalysis writes all structured fields in a single statement: either
// every field updates together or none do.
func UpsertAnalysis(episodeID int64, a models.EpisodeAnalysis) error {
	query := `
		INSERT INTO episode_analyses
			(episode_id, overview, key_points, topics, themes, predictions, recommendations, advice, notable_quotes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (episode_id) DO UPDATE SET
			overview = EXCLUDED.overview,
			key_points = EXCLUDED.key_points,
			topics = EXCLUDED.topics,
			themes = EXCLUDED.themes,
			predictions = EXCLUDED.predictions,
			recommendations = EXCLUDED.recommendations,
			advice = EXCLUDED.advice,
			notable_quotes = EXCLUDED.notable_quotes,
			updated_at = NOW()
	`
	_, err := DB.Exec(query, episodeID,
		a.Overview, a.KeyPoints, a.Topics, a.Themes,
		a.Predictions, a.Recommendations, a.Advice, a.NotableQuotes)
	return err
}

func GetAnalysisByEpisodeID(episodeID int64) (models.EpisodeAnalysis, error) {
	analysis := models.EpisodeAnalysis{}
	err := DB.Get(&analysis, "SELECT * FROM episode_analyses WHERE episode_id = $1", episodeID)
	return analysis, err
}

func HasAnalysis(episodeID int64) (bool, error) {
	var exists bool
	err := DB.Get(&exists, "SELECT EXISTS (SELECT 1 FROM episode_analyses WHERE episode_id = $1)", episodeID)
	return exists, err
}
