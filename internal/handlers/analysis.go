package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/models"
	"podcast-analyzer/internal/pipeline"
	"podcast-analyzer/pkg/tasks"
)

type analysisStatus struct {
	EpisodeID int64   `json:"episode_id"`
	Status    string  `json:"status"`
	Message   *string `json:"message"`
}

func strPtr(s string) *string { return &s }

// handleAnalyzeEpisode starts analysis of one episode. Admission is the
// atomic status flip: a concurrent call sees the episode already processing.
func (s *Server) handleAnalyzeEpisode(w http.ResponseWriter, r *http.Request) {
	podcastID, _ := pathID(r, "id")
	episodeID, _ := pathID(r, "episodeID")

	episode, err := db.GetEpisodeInPodcast(podcastID, episodeID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Episode not found")
		return
	}

	if episode.Status == models.StatusProcessing {
		writeJSON(w, http.StatusOK, analysisStatus{
			EpisodeID: episodeID,
			Status:    models.StatusProcessing,
			Message:   strPtr("Analysis already in progress"),
		})
		return
	}
	if episode.Status == models.StatusCompleted && episode.Summary != nil {
		writeJSON(w, http.StatusOK, analysisStatus{
			EpisodeID: episodeID,
			Status:    models.StatusCompleted,
			Message:   strPtr("Analysis already completed"),
		})
		return
	}

	admitted, err := db.AdmitEpisode(episodeID, models.StatusPending, models.StatusFailed, models.StatusCompleted)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start analysis")
		return
	}
	if !admitted {
		writeJSON(w, http.StatusOK, analysisStatus{
			EpisodeID: episodeID,
			Status:    models.StatusProcessing,
			Message:   strPtr("Analysis already in progress"),
		})
		return
	}

	if err := tasks.EnqueueProcessEpisode(s.enqueuer, episodeID); err != nil {
		log.Printf("Failed to enqueue episode %d: %v", episodeID, err)
		writeError(w, http.StatusInternalServerError, "Failed to enqueue analysis")
		return
	}

	writeJSON(w, http.StatusOK, analysisStatus{
		EpisodeID: episodeID,
		Status:    models.StatusProcessing,
		Message:   strPtr("Analysis started"),
	})
}

func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req pipeline.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := s.batch.Run(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleResetStuck(w http.ResponseWriter, r *http.Request) {
	reset, err := s.batch.ResetStuck()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset episodes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"reset": reset})
}

func (s *Server) handleEpisodeSummary(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	episode, err := db.GetEpisode(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Episode not found")
		return
	}
	writeJSON(w, http.StatusOK, episode)
}

func (s *Server) handleEpisodeAnalysis(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	analysis, err := db.GetAnalysisByEpisodeID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Analysis not found for this episode")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleEpisodeStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	episode, err := db.GetEpisode(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Episode not found")
		return
	}

	var message *string
	switch episode.Status {
	case models.StatusCompleted:
		message = strPtr("Analysis complete")
	case models.StatusProcessing:
		message = strPtr("Analysis in progress")
	case models.StatusFailed:
		if episode.Summary != nil && strings.HasPrefix(*episode.Summary, "Error:") {
			message = episode.Summary
		} else {
			message = strPtr("Analysis failed")
		}
	}

	writeJSON(w, http.StatusOK, analysisStatus{
		EpisodeID: id,
		Status:    episode.Status,
		Message:   message,
	})
}

type episodeCompact struct {
	ID          int64      `json:"id"`
	PodcastID   int64      `json:"podcast_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	HasAnalysis bool       `json:"has_analysis"`
}

func (s *Server) handleListEpisodes(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = pipeline.PeriodWeek
	}
	start, end, latest, err := pipeline.ResolvePeriod(period, parseTime(r, "start_date"), parseTime(r, "end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	episodes, err := db.SelectEpisodes(db.EpisodeFilter{
		Start:      start,
		End:        end,
		PodcastIDs: parseIDList(r.URL.Query().Get("podcast_ids")),
		Status:     r.URL.Query().Get("status_filter"),
		Latest:     latest,
	}, queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list episodes")
		return
	}

	result := make([]episodeCompact, 0, len(episodes))
	for _, ep := range episodes {
		hasAnalysis, err := db.HasAnalysis(ep.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list episodes")
			return
		}
		result = append(result, episodeCompact{
			ID:          ep.ID,
			PodcastID:   ep.PodcastID,
			Title:       ep.Title,
			Status:      ep.Status,
			PublishedAt: ep.PublishedAt,
			HasAnalysis: hasAnalysis,
		})
	}
	writeJSON(w, http.StatusOK, result)
}

type episodeProgress struct {
	ID        int64   `json:"id"`
	PodcastID int64   `json:"podcast_id"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	Step      *string `json:"step"`
	Error     *string `json:"error"`
}

// handleAnalysisProgress is the live progress poll for batch analysis.
func (s *Server) handleAnalysisProgress(w http.ResponseWriter, r *http.Request) {
	episodes, err := db.ProgressEpisodes(parseIDList(r.URL.Query().Get("episode_ids")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	progress := make([]episodeProgress, 0, len(episodes))
	counts := map[string]int{"pending": 0, "processing": 0, "completed": 0, "failed": 0}
	for _, ep := range episodes {
		title := ep.Title
		if len(title) > 60 {
			title = title[:60] + "..."
		}
		p := episodeProgress{
			ID:        ep.ID,
			PodcastID: ep.PodcastID,
			Title:     title,
			Status:    ep.Status,
			Step:      ep.ProcessingStep,
		}
		if ep.Status == models.StatusFailed && ep.Summary != nil && strings.HasPrefix(*ep.Summary, "Error:") {
			p.Error = ep.Summary
		}
		progress = append(progress, p)
		counts[ep.Status]++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"episodes": progress,
		"counts":   counts,
	})
}

func parseTime(r *http.Request, name string) *time.Time {
	if v := r.URL.Query().Get(name); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t
		}
	}
	return nil
}
