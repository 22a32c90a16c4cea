package feed

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type ParsedEpisode struct {
	Title           string
	AudioURL        string
	GUID            *string
	Description     *string
	PublishedAt     *time.Time
	DurationSeconds *int
}

type ParsedFeed struct {
	Title       string
	Description *string
	ImageURL    *string
	Episodes    []ParsedEpisode
}

// Parser fetches and parses podcast RSS/Atom feeds.
type Parser struct {
	fp *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{fp: gofeed.NewParser()}
}

// Parse fetches the feed and extracts podcast metadata and audio episodes.
// Entries without an audio enclosure are skipped.
func (p *Parser) Parse(ctx context.Context, feedURL string) (*ParsedFeed, error) {
	f, err := p.fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	parsed := &ParsedFeed{Title: f.Title}
	if parsed.Title == "" {
		parsed.Title = "Unknown Podcast"
	}
	if f.Description != "" {
		parsed.Description = &f.Description
	}
	if f.Image != nil && f.Image.URL != "" {
		parsed.ImageURL = &f.Image.URL
	} else if f.ITunesExt != nil && f.ITunesExt.Image != "" {
		parsed.ImageURL = &f.ITunesExt.Image
	}

	for _, item := range f.Items {
		audioURL := extractAudioURL(item)
		if audioURL == "" {
			continue
		}

		ep := ParsedEpisode{
			Title:    item.Title,
			AudioURL: audioURL,
		}
		if ep.Title == "" {
			ep.Title = "Untitled Episode"
		}
		guid := item.GUID
		if guid == "" {
			guid = audioURL
		}
		ep.GUID = &guid
		if item.Description != "" {
			desc := item.Description
			ep.Description = &desc
		}
		if item.PublishedParsed != nil {
			ep.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			ep.PublishedAt = item.UpdatedParsed
		}
		if item.ITunesExt != nil {
			ep.DurationSeconds = ParseDuration(item.ITunesExt.Duration)
		}

		parsed.Episodes = append(parsed.Episodes, ep)
	}

	return parsed, nil
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".wav": true, ".ogg": true,
}

func extractAudioURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "audio/") && enc.URL != "" {
			return enc.URL
		}
	}
	// Some feeds only put the audio link in <link>.
	if item.Link != "" {
		ext := strings.ToLower(path.Ext(strings.Split(item.Link, "?")[0]))
		if audioExtensions[ext] {
			return item.Link
		}
	}
	return ""
}

// ParseDuration converts an RSS duration ("125", "02:05" or "01:02:05") to
// total seconds. Invalid input yields nil.
func ParseDuration(s string) *int {
	if s == "" {
		return nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}

	parts := strings.Split(s, ":")
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil
		}
		nums = append(nums, n)
	}

	switch len(nums) {
	case 3:
		total := nums[0]*3600 + nums[1]*60 + nums[2]
		return &total
	case 2:
		total := nums[0]*60 + nums[1]
		return &total
	}
	return nil
}
