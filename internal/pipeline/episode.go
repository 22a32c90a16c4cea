// Package pipeline drives episodes and digests through their processing
// stages, persisting status and step after every transition so pollers
// observe live progress.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"podcast-analyzer/internal/db"
	"podcast-analyzer/internal/models"
	"podcast-analyzer/internal/summarize"
)

// Fetcher retrieves audio into transient storage and releases it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Cleanup(path string)
}

// Transcriber converts an audio asset to text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Analyzer produces the structured analysis of a transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (*summarize.StructuredAnalysis, error)
}

// EpisodeProcessor runs one episode through download, transcription and
// analysis. Callers must have admitted the episode (status flipped to
// processing) before invoking Process.
type EpisodeProcessor struct {
	fetcher     Fetcher
	transcriber Transcriber
	analyzer    Analyzer
}

func NewEpisodeProcessor(fetcher Fetcher, transcriber Transcriber, analyzer Analyzer) *EpisodeProcessor {
	return &EpisodeProcessor{fetcher: fetcher, transcriber: transcriber, analyzer: analyzer}
}

// Process drives the episode through every stage. On failure the episode is
// marked failed with "Error: <message>" in its summary, and the error is
// returned for logging; the caller must not let it crash the host process.
// The fetched audio asset is released exactly once on every exit path.
func (p *EpisodeProcessor) Process(ctx context.Context, episodeID int64) error {
	episode, err := db.GetEpisode(episodeID)
	if err != nil {
		return fmt.Errorf("failed to load episode %d: %w", episodeID, err)
	}

	if err := db.SetEpisodeProcessing(episodeID, models.StepStarting); err != nil {
		return fmt.Errorf("failed to mark episode %d processing: %w", episodeID, err)
	}

	audioPath := ""
	defer func() {
		if audioPath != "" {
			p.fetcher.Cleanup(audioPath)
		}
	}()

	fail := func(stage string, err error) error {
		wrapped := fmt.Errorf("%s: %w", stage, err)
		if dbErr := db.FailEpisode(episodeID, wrapped.Error()); dbErr != nil {
			log.Printf("Failed to record failure for episode %d: %v", episodeID, dbErr)
		}
		return wrapped
	}

	if err := db.SetEpisodeStep(episodeID, models.StepDownloading); err != nil {
		return fail("downloading", err)
	}
	audioPath, err = p.fetcher.Fetch(ctx, episode.AudioURL)
	if err != nil {
		return fail("downloading", err)
	}

	if err := db.SetEpisodeStep(episodeID, models.StepTranscribing); err != nil {
		return fail("transcribing", err)
	}
	transcript, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return fail("transcribing", err)
	}
	// Persist immediately so the transcript survives an analysis failure.
	if err := db.SaveEpisodeTranscript(episodeID, transcript); err != nil {
		return fail("transcribing", err)
	}

	if err := db.SetEpisodeStep(episodeID, models.StepAnalyzing); err != nil {
		return fail("analyzing", err)
	}
	analysis, err := p.analyzer.Analyze(ctx, transcript)
	if err != nil {
		return fail("analyzing", err)
	}

	if err := db.UpsertAnalysis(episodeID, models.EpisodeAnalysis{
		Overview:        analysis.Overview,
		KeyPoints:       analysis.KeyPoints,
		Topics:          analysis.Topics,
		Themes:          analysis.Themes,
		Predictions:     analysis.Predictions,
		Recommendations: analysis.Recommendations,
		Advice:          analysis.Advice,
		NotableQuotes:   analysis.NotableQuotes,
	}); err != nil {
		return fail("analyzing", err)
	}

	if err := db.CompleteEpisode(episodeID, analysis.RawSummary); err != nil {
		return fail("analyzing", err)
	}

	return nil
}
