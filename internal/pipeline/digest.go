package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/digest"
	"podcast-analyzer/internal/models"
)

// NoEpisodesMessage is the fixed summary for a digest whose period contains
// no analyzed episodes.
const NoEpisodesMessage = "No analyzed episodes found in this time period."

// DigestGenerator synthesizes a report from episode projections.
type DigestGenerator interface {
	Generate(ctx context.Context, episodes []digest.EpisodeInput, periodStart, periodEnd time.Time, wantImage bool, progress digest.ProgressSink) (*digest.Result, error)
}

// DigestProcessor drives one digest through collection, synthesis and image
// generation.
type DigestProcessor struct {
	generator DigestGenerator
}

func NewDigestProcessor(generator DigestGenerator) *DigestProcessor {
	return &DigestProcessor{generator: generator}
}

func (p *DigestProcessor) Process(ctx context.Context, digestID int64) error {
	d, err := db.GetDigest(digestID)
	if err != nil {
		return fmt.Errorf("failed to load digest %d: %w", digestID, err)
	}

	fail := func(err error) error {
		if dbErr := db.FailDigest(digestID, err.Error()); dbErr != nil {
			log.Printf("Failed to record failure for digest %d: %v", digestID, dbErr)
		}
		return err
	}

	if err := db.SetDigestProgress(digestID, models.DigestStepCollecting, "Finding analysed episodes..."); err != nil {
		return fail(err)
	}

	episodes, err := db.CompletedEpisodesInPeriod(d.PeriodStart, d.PeriodEnd, d.PodcastIDs)
	if err != nil {
		return fail(err)
	}
	total := len(episodes)
	if err := db.SetDigestProgress(digestID, models.DigestStepCollecting,
		fmt.Sprintf("Found %d episodes, reading analyses...", total)); err != nil {
		return fail(err)
	}

	// Episodes without an analysis are silently excluded, not an error.
	inputs := make([]digest.EpisodeInput, 0, total)
	podcastTitles := map[int64]string{}
	for i, ep := range episodes {
		analysis, err := db.GetAnalysisByEpisodeID(ep.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return fail(err)
		}

		title, ok := podcastTitles[ep.PodcastID]
		if !ok {
			podcast, err := db.GetPodcast(ep.PodcastID)
			if err != nil {
				title = "Unknown"
			} else {
				title = podcast.Title
			}
			podcastTitles[ep.PodcastID] = title
		}

		inputs = append(inputs, digest.EpisodeInput{
			Title:        ep.Title,
			PodcastTitle: title,
			PublishedAt:  ep.PublishedAt,
			Analysis: digest.AnalysisInput{
				Overview:        analysis.Overview,
				KeyPoints:       analysis.KeyPoints,
				Themes:          analysis.Themes,
				Predictions:     analysis.Predictions,
				Recommendations: analysis.Recommendations,
				Advice:          analysis.Advice,
			},
		})

		if err := db.AddDigestEpisode(digestID, ep.ID); err != nil {
			return fail(err)
		}
		if err := db.SetDigestProgress(digestID, models.DigestStepCollecting,
			fmt.Sprintf("Reading episode %d/%d: %s...", i+1, total, truncateTitle(ep.Title, 40))); err != nil {
			return fail(err)
		}
	}

	if len(inputs) == 0 {
		return db.CompleteDigestEmpty(digestID, NoEpisodesMessage)
	}

	if err := db.SetDigestProgress(digestID, models.DigestStepGenerating,
		fmt.Sprintf("Synthesising insights from %d episodes...", len(inputs))); err != nil {
		return fail(err)
	}

	sink := digest.ProgressFunc(func(detail string) {
		if err := db.SetDigestProgress(digestID, models.DigestStepGeneratingImage, detail); err != nil {
			log.Printf("Failed to update digest %d progress: %v", digestID, err)
		}
	})

	result, err := p.generator.Generate(ctx, inputs, d.PeriodStart, d.PeriodEnd, true, sink)
	if err != nil {
		return fail(err)
	}

	return db.CompleteDigest(digestID, db.DigestResultFields{
		Summary:         result.Summary,
		CommonThemes:    result.CommonThemes,
		Trends:          result.Trends,
		Predictions:     result.Predictions,
		Recommendations: result.Recommendations,
		KeyAdvice:       result.KeyAdvice,
		ActionItems:     result.ActionItems,
		ImageURL:        result.ImageURL,
		ImagePrompt:     result.ImagePrompt,
		EpisodeCount:    len(inputs),
	})
}

func truncateTitle(title string, n int) string {
	if len(title) <= n {
		return title
	}
	return title[:n]
}
