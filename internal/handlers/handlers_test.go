package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-analyzer/internal/feed"
	"podcast-analyzer/internal/models"
	"podcast-analyzer/internal/test"
	"podcast-analyzer/pkg/tasks"
)

func newTestServer(enqueuer *test.MockTaskEnqueuer) *Server {
	return NewServer(enqueuer, feed.NewParser(), nil, nil, 4)
}

func doRequest(t *testing.T, s *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

func episodeRow(id, podcastID int64, status string, summary *string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "podcast_id", "title", "audio_url", "status", "summary", "created_at"}).
		AddRow(id, podcastID, "Episode One", "https://example.com/ep1.mp3", status, summary, time.Now())
}

func TestHealth(t *testing.T) {
	rr := doRequest(t, newTestServer(&test.MockTaskEnqueuer{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	decodeBody(t, rr, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestAnalyzeEpisodeStartsAnalysis(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1 AND podcast_id = \$2`).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(episodeRow(5, 1, models.StatusPending, nil))
	mock.ExpectExec(`UPDATE episodes SET status = 'processing' WHERE id = \$1 AND status = ANY\(\$2\)`).
		WithArgs(int64(5), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))

	enqueuer := &test.MockTaskEnqueuer{}
	rr := doRequest(t, newTestServer(enqueuer), http.MethodPost, "/api/podcasts/1/episodes/5/analyze", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var status analysisStatus
	decodeBody(t, rr, &status)
	assert.Equal(t, models.StatusProcessing, status.Status)
	require.NotNil(t, status.Message)
	assert.Equal(t, "Analysis started", *status.Message)

	require.Len(t, enqueuer.EnqueuedTasks, 1)
	assert.Equal(t, tasks.TypeProcessEpisode, enqueuer.EnqueuedTasks[0].Type())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAnalyzeEpisodeAlreadyProcessing(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1 AND podcast_id = \$2`).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(episodeRow(5, 1, models.StatusProcessing, nil))

	enqueuer := &test.MockTaskEnqueuer{}
	rr := doRequest(t, newTestServer(enqueuer), http.MethodPost, "/api/podcasts/1/episodes/5/analyze", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var status analysisStatus
	decodeBody(t, rr, &status)
	require.NotNil(t, status.Message)
	assert.Equal(t, "Analysis already in progress", *status.Message)
	assert.Empty(t, enqueuer.EnqueuedTasks)
}

func TestAnalyzeEpisodeAlreadyCompleted(t *testing.T) {
	_, mock := test.NewMockDB(t)

	summary := "A finished summary."
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1 AND podcast_id = \$2`).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(episodeRow(5, 1, models.StatusCompleted, &summary))

	enqueuer := &test.MockTaskEnqueuer{}
	rr := doRequest(t, newTestServer(enqueuer), http.MethodPost, "/api/podcasts/1/episodes/5/analyze", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var status analysisStatus
	decodeBody(t, rr, &status)
	assert.Equal(t, models.StatusCompleted, status.Status)
	require.NotNil(t, status.Message)
	assert.Equal(t, "Analysis already completed", *status.Message)
	assert.Empty(t, enqueuer.EnqueuedTasks)
}

func TestAnalyzeEpisodeNotFound(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1 AND podcast_id = \$2`).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rr := doRequest(t, newTestServer(&test.MockTaskEnqueuer{}), http.MethodPost, "/api/podcasts/1/episodes/5/analyze", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEpisodeStatusFailedSurfacesError(t *testing.T) {
	_, mock := test.NewMockDB(t)

	summary := "Error: transcribing: whisper failed"
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(episodeRow(5, 1, models.StatusFailed, &summary))

	rr := doRequest(t, newTestServer(&test.MockTaskEnqueuer{}), http.MethodGet, "/api/episodes/5/status", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var status analysisStatus
	decodeBody(t, rr, &status)
	assert.Equal(t, models.StatusFailed, status.Status)
	require.NotNil(t, status.Message)
	assert.Equal(t, summary, *status.Message)
}

func TestResetStuck(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectExec(`UPDATE episodes SET status = 'pending', processing_step = NULL WHERE status IN \('processing', 'failed'\)`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	rr := doRequest(t, newTestServer(&test.MockTaskEnqueuer{}), http.MethodPost, "/api/analysis/reset-stuck", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]int64
	decodeBody(t, rr, &body)
	assert.Equal(t, int64(3), body["reset"])
}

func TestBatchAnalyzeRejectsUnknownPeriod(t *testing.T) {
	rr := doRequest(t, newTestServer(&test.MockTaskEnqueuer{}), http.MethodPost,
		"/api/analysis/batch", `{"period": "fortnight"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteDigestNotFound(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectExec(`DELETE FROM digests WHERE id = \$1`).
		WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))

	rr := doRequest(t, newTestServer(&test.MockTaskEnqueuer{}), http.MethodDelete, "/api/digests/9", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSchedulerStatusWithoutInspector(t *testing.T) {
	rr := doRequest(t, newTestServer(&test.MockTaskEnqueuer{}), http.MethodGet, "/api/scheduler/status", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var status schedulerStatus
	decodeBody(t, rr, &status)
	assert.False(t, status.Running)
	assert.Equal(t, 4, status.IntervalHours)
}

func TestTriggerRefresh(t *testing.T) {
	enqueuer := &test.MockTaskEnqueuer{}
	rr := doRequest(t, newTestServer(enqueuer), http.MethodPost, "/api/scheduler/refresh", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, enqueuer.EnqueuedTasks, 1)
	assert.Equal(t, tasks.TypeRefreshAllFeeds, enqueuer.EnqueuedTasks[0].Type())
}
