// Package summarize produces structured per-episode analysis from a
// transcript via the language-model capability.
package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"podcast-analyzer/internal/llm"
)

// DefaultChunkSize is the transcript length threshold, in characters, above
// which analysis switches to chunked mode.
const DefaultChunkSize = 80000

// StructuredAnalysis is the fixed-schema analysis of one episode. List
// fields are always non-nil; empty categories are empty slices.
type StructuredAnalysis struct {
	Overview        string
	KeyPoints       []string
	Topics          []string
	Themes          []string
	Predictions     []string
	Recommendations []string
	Advice          []string
	NotableQuotes   []string
	RawSummary      string
}

type Summarizer struct {
	client    llm.CompletionClient
	chunkSize int
}

func NewSummarizer(client llm.CompletionClient, chunkSize int) *Summarizer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Summarizer{client: client, chunkSize: chunkSize}
}

// analysisPayload mirrors the JSON schema the prompts request.
type analysisPayload struct {
	Overview        string   `json:"overview"`
	KeyPoints       []string `json:"key_points"`
	Topics          []string `json:"topics"`
	Themes          []string `json:"themes"`
	Predictions     []string `json:"predictions"`
	Recommendations []string `json:"recommendations"`
	Advice          []string `json:"advice"`
	NotableQuotes   []string `json:"notable_quotes"`
	Summary         string   `json:"summary"`
	SectionSummary  string   `json:"section_summary,omitempty"`
}

// Analyze produces a structured analysis of the transcript. Transcripts over
// the chunk threshold are analyzed in word-bounded chunks and then combined
// in a synthesis call. LLM failures propagate; retry is the operator's
// concern, not this layer's.
func (s *Summarizer) Analyze(ctx context.Context, transcript string) (*StructuredAnalysis, error) {
	chunks := chunkTranscript(transcript, s.chunkSize)
	if len(chunks) == 1 {
		return s.analyzeSingle(ctx, transcript)
	}
	return s.analyzeChunked(ctx, chunks)
}

func (s *Summarizer) analyzeSingle(ctx context.Context, transcript string) (*StructuredAnalysis, error) {
	response, err := s.client.Complete(ctx, structuredPrompt(transcript))
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return toAnalysis(parseResponse(response)), nil
}

func (s *Summarizer) analyzeChunked(ctx context.Context, chunks []string) (*StructuredAnalysis, error) {
	// First pass: each chunk independently, in transcript order.
	chunkResults := make([]analysisPayload, 0, len(chunks))
	for i, chunk := range chunks {
		response, err := s.client.Complete(ctx, chunkPrompt(chunk, i+1, len(chunks)))
		if err != nil {
			return nil, fmt.Errorf("chunk %d analysis failed: %w", i+1, err)
		}
		chunkResults = append(chunkResults, parseResponse(response))
	}

	// Second pass: synthesize across chunks, preserving submission order.
	combined, err := json.MarshalIndent(chunkResults, "", "  ")
	if err != nil {
		return nil, err
	}
	response, err := s.client.Complete(ctx, combinePrompt(string(combined)))
	if err != nil {
		return nil, fmt.Errorf("chunk synthesis failed: %w", err)
	}
	return toAnalysis(parseResponse(response)), nil
}

// parseResponse applies layered JSON extraction; total failure substitutes a
// default structure built from the raw text rather than raising.
func parseResponse(response string) analysisPayload {
	var payload analysisPayload
	if llm.ExtractJSON(response, &payload) {
		return payload
	}

	overview := response
	if len(overview) > 500 {
		overview = overview[:500]
	}
	if overview == "" {
		overview = "Analysis failed"
	}
	return analysisPayload{Overview: overview, Summary: response}
}

func toAnalysis(p analysisPayload) *StructuredAnalysis {
	return &StructuredAnalysis{
		Overview:        p.Overview,
		KeyPoints:       nonNil(p.KeyPoints),
		Topics:          nonNil(p.Topics),
		Themes:          nonNil(p.Themes),
		Predictions:     nonNil(p.Predictions),
		Recommendations: nonNil(p.Recommendations),
		Advice:          nonNil(p.Advice),
		NotableQuotes:   nonNil(p.NotableQuotes),
		RawSummary:      p.Summary,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// chunkTranscript splits on word boundaries into chunks of at most chunkSize
// characters; words are never split.
func chunkTranscript(transcript string, chunkSize int) []string {
	if len(transcript) <= chunkSize {
		return []string{transcript}
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, word := range strings.Fields(transcript) {
		wordLen := len(word) + 1
		if currentLen+wordLen > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			currentLen = wordLen
		} else {
			current = append(current, word)
			currentLen += wordLen
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
