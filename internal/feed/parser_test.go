package feed

import (
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"bare seconds", "125", intPtr(125)},
		{"minutes and seconds", "02:05", intPtr(125)},
		{"hours minutes seconds", "01:02:05", intPtr(3725)},
		{"zero", "0", intPtr(0)},
		{"empty", "", nil},
		{"garbage", "about an hour", nil},
		{"partial garbage", "01:xx", nil},
		{"too many parts", "1:2:3:4", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDuration(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestExtractAudioURL(t *testing.T) {
	t.Run("prefers audio enclosure", func(t *testing.T) {
		item := &gofeed.Item{
			Link: "https://example.com/episode.html",
			Enclosures: []*gofeed.Enclosure{
				{Type: "image/jpeg", URL: "https://example.com/cover.jpg"},
				{Type: "audio/mpeg", URL: "https://example.com/ep1.mp3"},
			},
		}
		assert.Equal(t, "https://example.com/ep1.mp3", extractAudioURL(item))
	})

	t.Run("falls back to audio link", func(t *testing.T) {
		item := &gofeed.Item{Link: "https://example.com/ep1.m4a?token=abc"}
		assert.Equal(t, "https://example.com/ep1.m4a?token=abc", extractAudioURL(item))
	})

	t.Run("non-audio link yields nothing", func(t *testing.T) {
		item := &gofeed.Item{Link: "https://example.com/episode.html"}
		assert.Equal(t, "", extractAudioURL(item))
	})
}

func intPtr(n int) *int { return &n }
