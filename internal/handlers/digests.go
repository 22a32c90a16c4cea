package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/feed"
	"podcast-analyzer/internal/models"
	"podcast-analyzer/internal/pipeline"
	"podcast-analyzer/pkg/tasks"
)

type createDigestRequest struct {
	Title      *string          `json:"title"`
	Period     string           `json:"period"`
	StartDate  *time.Time       `json:"start_date"`
	EndDate    *time.Time       `json:"end_date"`
	PodcastIDs models.Int64List `json:"podcast_ids"`
}

func (s *Server) handleCreateDigest(w http.ResponseWriter, r *http.Request) {
	var req createDigestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Period == "" {
		req.Period = pipeline.PeriodWeek
	}

	start, end := pipeline.ResolveDigestPeriod(req.Period, req.StartDate, req.EndDate)

	title := ""
	if req.Title != nil {
		title = *req.Title
	}
	if title == "" {
		name, ok := pipeline.PeriodName[req.Period]
		if !ok {
			name = "Weekly"
		}
		title = fmt.Sprintf("%s Digest - %s to %s", name, start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	}

	d, err := db.CreateDigest(title, start, end, req.PodcastIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create digest")
		return
	}

	if err := tasks.EnqueueProcessDigest(s.enqueuer, d.ID); err != nil {
		log.Printf("Failed to enqueue digest %d: %v", d.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to enqueue digest")
		return
	}

	if err := db.UpdateDigestStatus(d.ID, models.StatusProcessing); err != nil {
		log.Printf("Failed to mark digest %d processing: %v", d.ID, err)
	}
	d.Status = models.StatusProcessing

	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListDigests(w http.ResponseWriter, r *http.Request) {
	digests, err := db.ListDigests(queryInt(r, "skip", 0), queryInt(r, "limit", 20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list digests")
		return
	}
	writeJSON(w, http.StatusOK, digests)
}

func (s *Server) handleGetDigest(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	d, err := db.GetDigest(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Digest not found")
		return
	}

	episodes, err := db.ListDigestEpisodes(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list digest episodes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"digest":   d,
		"episodes": episodes,
	})
}

func (s *Server) handleDeleteDigest(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	deleted, err := db.DeleteDigest(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete digest")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Digest not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRegenerateImage re-renders the digest artwork with a different
// randomly chosen artist, keeping the scene from the stored prompt.
func (s *Server) handleRegenerateImage(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	d, err := db.GetDigest(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Digest not found")
		return
	}
	if d.ImagePrompt == nil || *d.ImagePrompt == "" {
		writeError(w, http.StatusBadRequest, "No image prompt available")
		return
	}

	imageURL, newPrompt, err := s.generator.RegenerateImage(r.Context(), *d.ImagePrompt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Image generation failed")
		return
	}

	if err := db.UpdateDigestImage(id, imageURL, newPrompt); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"image_url":    imageURL,
		"image_prompt": newPrompt,
	})
}

func (s *Server) handleDigestRSS(w http.ResponseWriter, r *http.Request) {
	digests, err := db.ListDigests(0, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list digests")
		return
	}

	rss, err := feed.GenerateDigestRSS(digests, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate RSS")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	fmt.Fprint(w, rss)
}
