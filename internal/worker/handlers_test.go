package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-analyzer/internal/feed"
	"podcast-analyzer/internal/test"
	"podcast-analyzer/pkg/tasks"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Tech Weekly</title>
    <description>Weekly tech news</description>
    <item>
      <title>Episode One</title>
      <guid>ep-1</guid>
      <pubDate>Mon, 24 Aug 2026 10:00:00 +0000</pubDate>
      <itunes:duration>01:02:05</itunes:duration>
      <enclosure url="https://cdn.example.com/ep1.mp3" type="audio/mpeg" length="1024"/>
    </item>
  </channel>
</rss>`

func podcastRow(id int64, feedURL string, autoAnalyze bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "feed_url", "auto_analyze", "created_at"}).
		AddRow(id, "Tech Weekly", feedURL, autoAnalyze, time.Now())
}

func TestHandleRefreshFeedTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer srv.Close()

	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(podcastRow(1, srv.URL, true))
	mock.ExpectQuery(`SELECT guid FROM episodes WHERE podcast_id = \$1 AND guid IS NOT NULL`).
		WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"guid"}))
	epRows := sqlmock.NewRows([]string{"id", "podcast_id", "title", "audio_url", "status", "created_at"}).
		AddRow(int64(10), int64(1), "Episode One", "https://cdn.example.com/ep1.mp3", "pending", time.Now())
	mock.ExpectQuery(`INSERT INTO episodes`).
		WithArgs(int64(1), "Episode One", "https://cdn.example.com/ep1.mp3",
			"ep-1", nil, sqlmock.AnyArg(), 3725).
		WillReturnRows(epRows)
	mock.ExpectExec(`UPDATE podcasts SET last_checked_at = \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	// auto_analyze admits and enqueues the new episode
	mock.ExpectExec(`UPDATE episodes SET status = 'processing' WHERE id = \$1 AND status = ANY\(\$2\)`).
		WithArgs(int64(10), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))

	enqueuer := &test.MockTaskEnqueuer{}
	handler := NewTaskHandler(enqueuer, nil, nil, feed.NewParser())

	payload, _ := json.Marshal(tasks.RefreshFeedTaskPayload{PodcastID: 1})
	err := handler.HandleRefreshFeedTask(context.Background(), asynq.NewTask(tasks.TypeRefreshFeed, payload))
	require.NoError(t, err)

	require.Len(t, enqueuer.EnqueuedTasks, 1)
	assert.Equal(t, tasks.TypeProcessEpisode, enqueuer.EnqueuedTasks[0].Type())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestHandleRefreshFeedTaskSkipsKnownEpisodes(t *testing.T) {
	_, mock := test.NewMockDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer srv.Close()

	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(podcastRow(1, srv.URL, true))
	mock.ExpectQuery(`SELECT guid FROM episodes WHERE podcast_id = \$1 AND guid IS NOT NULL`).
		WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"guid"}).AddRow("ep-1"))
	mock.ExpectExec(`UPDATE podcasts SET last_checked_at = \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

	enqueuer := &test.MockTaskEnqueuer{}
	handler := NewTaskHandler(enqueuer, nil, nil, feed.NewParser())

	payload, _ := json.Marshal(tasks.RefreshFeedTaskPayload{PodcastID: 1})
	err := handler.HandleRefreshFeedTask(context.Background(), asynq.NewTask(tasks.TypeRefreshFeed, payload))
	require.NoError(t, err)
	assert.Empty(t, enqueuer.EnqueuedTasks)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestHandleRefreshAllFeedsTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "title", "feed_url", "auto_analyze", "created_at"}).
		AddRow(int64(1), "A", "https://example.com/a.xml", false, time.Now()).
		AddRow(int64(2), "B", "https://example.com/b.xml", true, time.Now())
	mock.ExpectQuery(`SELECT \* FROM podcasts ORDER BY id`).WillReturnRows(rows)

	enqueuer := &test.MockTaskEnqueuer{}
	handler := NewTaskHandler(enqueuer, nil, nil, feed.NewParser())

	err := handler.HandleRefreshAllFeedsTask(context.Background(), asynq.NewTask(tasks.TypeRefreshAllFeeds, nil))
	require.NoError(t, err)

	require.Len(t, enqueuer.EnqueuedTasks, 2)
	for _, task := range enqueuer.EnqueuedTasks {
		assert.Equal(t, tasks.TypeRefreshFeed, task.Type())
	}
}

func TestHandleProcessEpisodeTaskBadPayload(t *testing.T) {
	handler := NewTaskHandler(&test.MockTaskEnqueuer{}, nil, nil, nil)
	err := handler.HandleProcessEpisodeTask(context.Background(), asynq.NewTask(tasks.TypeProcessEpisode, []byte("{broken")))
	assert.Error(t, err)
}
