package handlers

import (
	"log"
	"net/http"

	"podcast-analyzer/pkg/tasks"
)

type schedulerStatus struct {
	Running       bool   `json:"running"`
	NextRun       string `json:"next_run,omitempty"`
	IntervalHours int    `json:"interval_hours"`
}

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	status := schedulerStatus{IntervalHours: s.intervalHours}

	if s.inspector != nil {
		entries, err := s.inspector.SchedulerEntries()
		if err != nil {
			log.Printf("Failed to inspect scheduler entries: %v", err)
		} else {
			for _, entry := range entries {
				if entry.Task.Type() == tasks.TypeRefreshAllFeeds {
					status.Running = true
					if !entry.Next.IsZero() {
						status.NextRun = entry.Next.UTC().Format("2006-01-02T15:04:05Z")
					}
					break
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleTriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if err := tasks.EnqueueRefreshAllFeeds(s.enqueuer); err != nil {
		log.Printf("Failed to enqueue feed refresh: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to trigger refresh")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Refresh triggered"})
}
