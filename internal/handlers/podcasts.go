package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/feed"
)

type addPodcastRequest struct {
	FeedURL     string `json:"feed_url"`
	AutoAnalyze bool   `json:"auto_analyze"`
}

func (s *Server) handleAddPodcast(w http.ResponseWriter, r *http.Request) {
	var req addPodcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FeedURL == "" {
		writeError(w, http.StatusBadRequest, "feed_url is required")
		return
	}

	if _, err := db.GetPodcastByFeedURL(req.FeedURL); err == nil {
		writeError(w, http.StatusBadRequest, "Podcast with this feed URL already exists")
		return
	}

	parsed, err := s.parser.Parse(r.Context(), req.FeedURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse feed: "+err.Error())
		return
	}

	podcast, err := db.CreatePodcast(parsed.Title, req.FeedURL, parsed.Description, parsed.ImageURL, req.AutoAnalyze)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create podcast")
		return
	}

	if _, err := feed.IngestEpisodes(&podcast, parsed); err != nil {
		log.Printf("Failed to ingest episodes for new podcast %d: %v", podcast.ID, err)
	}

	writeJSON(w, http.StatusCreated, podcast)
}

func (s *Server) handleListPodcasts(w http.ResponseWriter, r *http.Request) {
	podcasts, err := db.ListPodcasts(queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list podcasts")
		return
	}
	writeJSON(w, http.StatusOK, podcasts)
}

func (s *Server) handleGetPodcast(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	podcast, err := db.GetPodcast(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Podcast not found")
		return
	}

	episodes, err := db.SelectEpisodes(db.EpisodeFilter{PodcastIDs: []int64{id}}, 0, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list episodes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"podcast":  podcast,
		"episodes": episodes,
	})
}

type updatePodcastRequest struct {
	AutoAnalyze *bool `json:"auto_analyze"`
}

func (s *Server) handleUpdatePodcast(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	podcast, err := db.GetPodcast(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Podcast not found")
		return
	}

	var req updatePodcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AutoAnalyze != nil {
		if err := db.UpdatePodcastAutoAnalyze(id, *req.AutoAnalyze); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update podcast")
			return
		}
		podcast.AutoAnalyze = *req.AutoAnalyze
	}

	writeJSON(w, http.StatusOK, podcast)
}

func (s *Server) handleDeletePodcast(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	deleted, err := db.DeletePodcast(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete podcast")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Podcast not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefreshPodcast(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	podcast, err := db.GetPodcast(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Podcast not found")
		return
	}

	parsed, err := s.parser.Parse(r.Context(), podcast.FeedURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse feed: "+err.Error())
		return
	}

	created, err := feed.IngestEpisodes(&podcast, parsed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to ingest episodes")
		return
	}

	podcast, err = db.GetPodcast(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload podcast")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"podcast":      podcast,
		"new_episodes": len(created),
	})
}

func (s *Server) handleGetEpisode(w http.ResponseWriter, r *http.Request) {
	podcastID, _ := pathID(r, "id")
	episodeID, _ := pathID(r, "episodeID")

	episode, err := db.GetEpisodeInPodcast(podcastID, episodeID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Episode not found")
		return
	}
	writeJSON(w, http.StatusOK, episode)
}

type searchResult struct {
	ITunesID     int64  `json:"itunes_id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	ImageURL     string `json:"image_url"`
	FeedURL      string `json:"feed_url"`
	Genre        string `json:"genre"`
	EpisodeCount int    `json:"episode_count"`
}

// handleSearchPodcasts searches the iTunes directory, excluding feeds that
// are already subscribed.
func (s *Server) handleSearchPodcasts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	podcasts, err := db.AllPodcasts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list podcasts")
		return
	}
	existing := make(map[string]bool, len(podcasts))
	for _, p := range podcasts {
		existing[p.FeedURL] = true
	}

	results := []searchResult{}
	searchURL := "https://itunes.apple.com/search?" + url.Values{
		"term":  {q},
		"media": {"podcast"},
		"limit": {"20"},
	}.Encode()

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, searchURL, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build search request")
		return
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("iTunes search failed for %q: %v", q, err)
		writeJSON(w, http.StatusOK, results)
		return
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			CollectionID     int64  `json:"collectionId"`
			CollectionName   string `json:"collectionName"`
			ArtistName       string `json:"artistName"`
			ArtworkURL100    string `json:"artworkUrl100"`
			FeedURL          string `json:"feedUrl"`
			PrimaryGenreName string `json:"primaryGenreName"`
			TrackCount       int    `json:"trackCount"`
		} `json:"results"`
	}
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			log.Printf("iTunes search decode failed for %q: %v", q, err)
		}
	}

	for _, item := range payload.Results {
		if item.FeedURL == "" || existing[item.FeedURL] {
			continue
		}
		results = append(results, searchResult{
			ITunesID:     item.CollectionID,
			Title:        item.CollectionName,
			Artist:       item.ArtistName,
			ImageURL:     item.ArtworkURL100,
			FeedURL:      item.FeedURL,
			Genre:        item.PrimaryGenreName,
			EpisodeCount: item.TrackCount,
		})
	}

	writeJSON(w, http.StatusOK, results)
}
