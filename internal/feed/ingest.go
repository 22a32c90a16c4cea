package feed

import (
	"log"
	"time"

	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/models"
)

// IngestEpisodes inserts parsed episodes that are not already known by guid
// and stamps last_checked_at. Returns the newly created episodes.
func IngestEpisodes(podcast *models.Podcast, parsed *ParsedFeed) ([]models.Episode, error) {
	known, err := db.EpisodeGUIDs(podcast.ID)
	if err != nil {
		return nil, err
	}

	var created []models.Episode
	for _, ep := range parsed.Episodes {
		if ep.GUID != nil && known[*ep.GUID] {
			continue
		}
		episode, err := db.CreateEpisode(podcast.ID, ep.Title, ep.AudioURL,
			ep.GUID, ep.Description, ep.PublishedAt, ep.DurationSeconds)
		if err != nil {
			log.Printf("Failed to create episode %q for podcast %d: %v", ep.Title, podcast.ID, err)
			continue
		}
		created = append(created, episode)
	}

	if err := db.TouchPodcastLastChecked(podcast.ID, time.Now().UTC()); err != nil {
		log.Printf("Failed to update last_checked_at for podcast %d: %v", podcast.ID, err)
	}

	return created, nil
}
