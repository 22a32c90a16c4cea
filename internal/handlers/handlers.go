// Package handlers implements the HTTP API.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"podcast-analyzer/internal/digest"
	"podcast-analyzer/internal/feed"
	"podcast-analyzer/internal/pipeline"
	"podcast-analyzer/pkg/tasks"
)

// SchedulerInspector reads registered periodic task entries. Implemented by
// asynq.Inspector.
type SchedulerInspector interface {
	SchedulerEntries() ([]*asynq.SchedulerEntry, error)
}

// Server holds the HTTP API's collaborators.
type Server struct {
	enqueuer      tasks.TaskEnqueuer
	batch         *pipeline.Batch
	parser        *feed.Parser
	generator     *digest.Generator
	inspector     SchedulerInspector
	intervalHours int
	httpClient    *http.Client
}

func NewServer(enqueuer tasks.TaskEnqueuer, parser *feed.Parser, generator *digest.Generator, inspector SchedulerInspector, intervalHours int) *Server {
	return &Server{
		enqueuer:      enqueuer,
		batch:         pipeline.NewBatch(enqueuer),
		parser:        parser,
		generator:     generator,
		inspector:     inspector,
		intervalHours: intervalHours,
		httpClient:    http.DefaultClient,
	}
}

// Routes builds the API router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/podcasts/feed", s.handleAddPodcast).Methods(http.MethodPost)
	api.HandleFunc("/podcasts", s.handleListPodcasts).Methods(http.MethodGet)
	api.HandleFunc("/podcasts/search", s.handleSearchPodcasts).Methods(http.MethodGet)
	api.HandleFunc("/podcasts/{id:[0-9]+}", s.handleGetPodcast).Methods(http.MethodGet)
	api.HandleFunc("/podcasts/{id:[0-9]+}", s.handleUpdatePodcast).Methods(http.MethodPatch)
	api.HandleFunc("/podcasts/{id:[0-9]+}", s.handleDeletePodcast).Methods(http.MethodDelete)
	api.HandleFunc("/podcasts/{id:[0-9]+}/refresh", s.handleRefreshPodcast).Methods(http.MethodPost)
	api.HandleFunc("/podcasts/{id:[0-9]+}/episodes/{episodeID:[0-9]+}", s.handleGetEpisode).Methods(http.MethodGet)
	api.HandleFunc("/podcasts/{id:[0-9]+}/episodes/{episodeID:[0-9]+}/analyze", s.handleAnalyzeEpisode).Methods(http.MethodPost)

	api.HandleFunc("/analysis/batch", s.handleBatchAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/analysis/reset-stuck", s.handleResetStuck).Methods(http.MethodPost)
	api.HandleFunc("/analysis/progress", s.handleAnalysisProgress).Methods(http.MethodGet)
	api.HandleFunc("/episodes", s.handleListEpisodes).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id:[0-9]+}/summary", s.handleEpisodeSummary).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id:[0-9]+}/analysis", s.handleEpisodeAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id:[0-9]+}/status", s.handleEpisodeStatus).Methods(http.MethodGet)

	api.HandleFunc("/digests", s.handleCreateDigest).Methods(http.MethodPost)
	api.HandleFunc("/digests", s.handleListDigests).Methods(http.MethodGet)
	api.HandleFunc("/digests/rss", s.handleDigestRSS).Methods(http.MethodGet)
	api.HandleFunc("/digests/{id:[0-9]+}", s.handleGetDigest).Methods(http.MethodGet)
	api.HandleFunc("/digests/{id:[0-9]+}", s.handleDeleteDigest).Methods(http.MethodDelete)
	api.HandleFunc("/digests/{id:[0-9]+}/regenerate-image", s.handleRegenerateImage).Methods(http.MethodPost)

	api.HandleFunc("/scheduler/status", s.handleSchedulerStatus).Methods(http.MethodGet)
	api.HandleFunc("/scheduler/refresh", s.handleTriggerRefresh).Methods(http.MethodPost)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// parseIDList parses a comma-separated id list query parameter.
func parseIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
