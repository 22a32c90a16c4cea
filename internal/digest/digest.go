// Package digest synthesizes cross-episode reports and their artwork.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"podcast-analyzer/internal/llm"
	"podcast-analyzer/internal/models"
)

// EpisodeInput is the lightweight projection of one analyzed episode fed
// into the synthesis prompt.
type EpisodeInput struct {
	Title        string
	PodcastTitle string
	PublishedAt  *time.Time
	Analysis     AnalysisInput
}

type AnalysisInput struct {
	Overview        string
	KeyPoints       []string
	Themes          []string
	Predictions     []string
	Recommendations []string
	Advice          []string
}

// Result is the synthesized digest. ImageURL is nil when image generation
// was skipped or failed; that is not an error.
type Result struct {
	Summary         string
	CommonThemes    []string
	Trends          []models.Trend
	Predictions     []string
	Recommendations []string
	KeyAdvice       []string
	ActionItems     []string
	ImageURL        *string
	ImagePrompt     *string
}

// ProgressSink receives human-readable progress messages during generation.
type ProgressSink interface {
	Report(detail string)
}

// ProgressFunc adapts a function to a ProgressSink.
type ProgressFunc func(detail string)

func (f ProgressFunc) Report(detail string) { f(detail) }

type nopSink struct{}

func (nopSink) Report(string) {}

// NopSink discards progress messages.
var NopSink ProgressSink = nopSink{}

// ErrNoImagePrompt is returned by RegenerateImagePrompt when the digest has
// no prior prompt to rework.
var ErrNoImagePrompt = errors.New("no image prompt available")

type Generator struct {
	client llm.CompletionClient
	images llm.ImageGenerator
}

func NewGenerator(client llm.CompletionClient, images llm.ImageGenerator) *Generator {
	return &Generator{client: client, images: images}
}

type digestPayload struct {
	Summary          string         `json:"summary"`
	CommonThemes     []string       `json:"common_themes"`
	Trends           []models.Trend `json:"trends"`
	Predictions      []string       `json:"predictions"`
	Recommendations  []string       `json:"recommendations"`
	KeyAdvice        []string       `json:"key_advice"`
	ActionItems      []string       `json:"action_items"`
	ImageDescription string         `json:"image_description"`
}

// Generate synthesizes one digest from the episode projections. A parse
// failure degrades to a truncated-raw-text result instead of failing the
// digest; an image-generation failure leaves ImageURL nil.
func (g *Generator) Generate(ctx context.Context, episodes []EpisodeInput, periodStart, periodEnd time.Time, wantImage bool, progress ProgressSink) (*Result, error) {
	if progress == nil {
		progress = NopSink
	}
	if len(episodes) == 0 {
		return degradedResult("No episodes to analyze."), nil
	}

	response, err := g.client.Complete(ctx, digestPrompt(episodes, periodStart, periodEnd))
	if err != nil {
		return nil, fmt.Errorf("digest synthesis failed: %w", err)
	}

	var payload digestPayload
	if !llm.ExtractJSON(response, &payload) {
		log.Printf("Digest response was not parseable JSON, degrading to raw text")
		return degradedResult(truncate(response, 500)), nil
	}

	result := &Result{
		Summary:         payload.Summary,
		CommonThemes:    nonNil(payload.CommonThemes),
		Trends:          payload.Trends,
		Predictions:     nonNil(payload.Predictions),
		Recommendations: nonNil(payload.Recommendations),
		KeyAdvice:       nonNil(payload.KeyAdvice),
		ActionItems:     nonNil(payload.ActionItems),
	}
	if result.Trends == nil {
		result.Trends = []models.Trend{}
	}

	if wantImage && payload.ImageDescription != "" {
		progress.Report("Selecting artist and composing image prompt...")
		a := pickArtist()
		imagePrompt := composeImagePrompt(a, payload.ImageDescription)
		result.ImagePrompt = &imagePrompt
		log.Printf("Generating image with prompt: %s", imagePrompt)

		progress.Report(fmt.Sprintf("Painting in the style of %s, this takes about 30s...", a.Name))
		imageURL, err := g.images.GenerateImage(ctx, imagePrompt)
		if err != nil {
			// Image failure must not fail the digest.
			log.Printf("Image generation failed: %v", err)
		} else {
			result.ImageURL = &imageURL
		}
	}

	return result, nil
}

// RegenerateImage swaps the artist in an existing prompt for a different one
// from the palette and renders again. The scene and style text after the
// artist name are kept byte for byte.
func (g *Generator) RegenerateImage(ctx context.Context, priorPrompt string) (imageURL, newPrompt string, err error) {
	if priorPrompt == "" {
		return "", "", ErrNoImagePrompt
	}

	current := extractArtistName(priorPrompt)
	replacement := pickArtistExcluding(current)
	newPrompt = replaceArtistName(priorPrompt, replacement.Name)

	imageURL, err = g.images.GenerateImage(ctx, newPrompt)
	if err != nil {
		return "", "", fmt.Errorf("image generation failed: %w", err)
	}
	return imageURL, newPrompt, nil
}

func composeImagePrompt(a artist, description string) string {
	return fmt.Sprintf("Painting in the style of %s. %s. Scene: %s. No text, no words, no letters.",
		a.Name, a.Style, description)
}

const artistMarker = "style of "

// extractArtistName reads the artist following the "style of " marker, up to
// the next '.' or ','.
func extractArtistName(prompt string) string {
	idx := strings.Index(prompt, artistMarker)
	if idx < 0 {
		return ""
	}
	rest := prompt[idx+len(artistMarker):]
	end := strings.IndexAny(rest, ".,")
	if end < 0 {
		return rest
	}
	return rest[:end]
}

// replaceArtistName substitutes the artist segment, normalizing its
// terminator to '.', and leaves everything else untouched.
func replaceArtistName(prompt, newName string) string {
	idx := strings.Index(prompt, artistMarker)
	if idx < 0 {
		return prompt
	}
	head := prompt[:idx+len(artistMarker)]
	rest := prompt[idx+len(artistMarker):]
	end := strings.IndexAny(rest, ".,")
	if end < 0 {
		return head + newName + "."
	}
	return head + newName + "." + rest[end+1:]
}

func degradedResult(summary string) *Result {
	return &Result{
		Summary:         summary,
		CommonThemes:    []string{},
		Trends:          []models.Trend{},
		Predictions:     []string{},
		Recommendations: []string{},
		KeyAdvice:       []string{},
		ActionItems:     []string{},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
