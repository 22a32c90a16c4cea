package feed

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"

	"podcast-analyzer/internal/models"
)

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := "https"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateDigestRSS renders completed digests as a podcast-style RSS feed so
// readers can subscribe to the synthesis reports.
func GenerateDigestRSS(digests []models.Digest, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)
	now := time.Now()

	p := podcast.New(
		"Podcast Digests",
		fmt.Sprintf("%s/api/digests/rss", baseURL),
		"Cross-episode digest reports synthesized from analyzed podcast episodes.",
		&now, &now,
	)

	for _, d := range digests {
		if d.Status != models.StatusCompleted {
			continue
		}
		description := fmt.Sprintf("Digest of %d episodes, %s to %s.",
			d.EpisodeCount,
			d.PeriodStart.Format("Jan 2, 2006"),
			d.PeriodEnd.Format("Jan 2, 2006"))
		if d.Summary != nil && *d.Summary != "" {
			description = *d.Summary
		}

		pubDate := d.CreatedAt
		item := podcast.Item{
			Title:       d.Title,
			Description: description,
			Link:        fmt.Sprintf("%s/api/digests/%d", baseURL, d.ID),
			PubDate:     &pubDate,
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}
