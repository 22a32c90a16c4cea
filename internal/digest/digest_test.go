package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (c *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.prompts = append(c.prompts, prompt)
	return c.response, nil
}

type fakeImages struct {
	url     string
	err     error
	prompts []string
}

func (g *fakeImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.url, nil
}

func sampleEpisodes() []EpisodeInput {
	published := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	return []EpisodeInput{
		{
			Title:        "The Future of Compute",
			PodcastTitle: "Tech Weekly",
			PublishedAt:  &published,
			Analysis: AnalysisInput{
				Overview:  "A look at datacenter trends.",
				KeyPoints: []string{"GPUs are scarce"},
				Themes:    []string{"scarcity"},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	client := &fakeClient{response: `{
		"summary": "A busy week in tech.",
		"common_themes": ["compute"],
		"trends": [{"trend": "GPU demand", "evidence": "Mentioned twice", "direction": "rising"}],
		"predictions": ["More scarcity"],
		"recommendations": ["Buy early"],
		"key_advice": ["Plan capacity"],
		"action_items": ["Review budget"],
		"image_description": "A crowded server hall at dawn"
	}`}
	images := &fakeImages{url: "data:image/png;base64,abc"}
	g := NewGenerator(client, images)

	var reports []string
	sink := ProgressFunc(func(detail string) { reports = append(reports, detail) })

	result, err := g.Generate(context.Background(), sampleEpisodes(),
		time.Now().AddDate(0, 0, -7), time.Now(), true, sink)
	require.NoError(t, err)

	assert.Equal(t, "A busy week in tech.", result.Summary)
	assert.Equal(t, []string{"compute"}, result.CommonThemes)
	require.Len(t, result.Trends, 1)
	assert.Equal(t, "GPU demand", result.Trends[0].Trend)
	assert.Equal(t, "rising", result.Trends[0].Direction)

	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "data:image/png;base64,abc", *result.ImageURL)
	require.NotNil(t, result.ImagePrompt)
	assert.Contains(t, *result.ImagePrompt, "Painting in the style of ")
	assert.Contains(t, *result.ImagePrompt, "Scene: A crowded server hall at dawn.")
	assert.Contains(t, *result.ImagePrompt, "No text, no words, no letters.")

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "The Future of Compute")
	assert.Contains(t, client.prompts[0], "Tech Weekly")

	require.Len(t, reports, 2)
	assert.Equal(t, "Selecting artist and composing image prompt...", reports[0])
	assert.Contains(t, reports[1], "Painting in the style of ")
}

func TestGenerateNoEpisodes(t *testing.T) {
	g := NewGenerator(&fakeClient{}, &fakeImages{})

	result, err := g.Generate(context.Background(), nil, time.Now(), time.Now(), true, nil)
	require.NoError(t, err)
	assert.Equal(t, "No episodes to analyze.", result.Summary)
	assert.NotNil(t, result.CommonThemes)
	assert.Empty(t, result.CommonThemes)
	assert.Nil(t, result.ImageURL)
}

func TestGenerateUnparseableResponse(t *testing.T) {
	raw := "The model rambled instead of returning JSON. " + strings.Repeat("y", 600)
	g := NewGenerator(&fakeClient{response: raw}, &fakeImages{})

	result, err := g.Generate(context.Background(), sampleEpisodes(), time.Now(), time.Now(), true, nil)
	require.NoError(t, err)
	assert.Equal(t, raw[:500], result.Summary)
	assert.Empty(t, result.CommonThemes)
	assert.Nil(t, result.ImageURL)
	assert.Nil(t, result.ImagePrompt)
}

func TestGenerateImageFailureIsNotFatal(t *testing.T) {
	client := &fakeClient{response: `{"summary": "ok", "image_description": "a quiet harbour"}`}
	images := &fakeImages{err: errors.New("quota exceeded")}
	g := NewGenerator(client, images)

	result, err := g.Generate(context.Background(), sampleEpisodes(), time.Now(), time.Now(), true, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Summary)
	assert.Nil(t, result.ImageURL)
	// The prompt is still recorded so the image can be regenerated later.
	require.NotNil(t, result.ImagePrompt)
	assert.Contains(t, *result.ImagePrompt, "a quiet harbour")
}

func TestGenerateSynthesisError(t *testing.T) {
	g := NewGenerator(&fakeClient{err: errors.New("connection reset")}, &fakeImages{})

	_, err := g.Generate(context.Background(), sampleEpisodes(), time.Now(), time.Now(), true, nil)
	assert.ErrorContains(t, err, "digest synthesis failed")
}

func TestGenerateWithoutImage(t *testing.T) {
	client := &fakeClient{response: `{"summary": "ok", "image_description": "ignored"}`}
	images := &fakeImages{url: "data:image/png;base64,abc"}
	g := NewGenerator(client, images)

	result, err := g.Generate(context.Background(), sampleEpisodes(), time.Now(), time.Now(), false, nil)
	require.NoError(t, err)
	assert.Nil(t, result.ImageURL)
	assert.Nil(t, result.ImagePrompt)
	assert.Empty(t, images.prompts)
}

func TestRegenerateImage(t *testing.T) {
	scene := "A crowded server hall at dawn"
	prior := fmt.Sprintf("Painting in the style of %s. %s. Scene: %s. No text, no words, no letters.",
		artists[0].Name, artists[0].Style, scene)
	images := &fakeImages{url: "data:image/png;base64,def"}
	g := NewGenerator(&fakeClient{}, images)

	url, newPrompt, err := g.RegenerateImage(context.Background(), prior)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,def", url)

	// A different artist was chosen and everything after the artist segment
	// is preserved byte for byte.
	assert.NotContains(t, newPrompt, artists[0].Name)
	assert.True(t, strings.HasPrefix(newPrompt, "Painting in the style of "))
	oldTail := prior[strings.Index(prior, artists[0].Name+".")+len(artists[0].Name)+1:]
	assert.True(t, strings.HasSuffix(newPrompt, oldTail))

	require.Len(t, images.prompts, 1)
	assert.Equal(t, newPrompt, images.prompts[0])
}

func TestRegenerateImageNoPrompt(t *testing.T) {
	g := NewGenerator(&fakeClient{}, &fakeImages{})
	_, _, err := g.RegenerateImage(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoImagePrompt)
}

func TestRegenerateImageGenerationFailure(t *testing.T) {
	g := NewGenerator(&fakeClient{}, &fakeImages{err: errors.New("backend down")})
	_, _, err := g.RegenerateImage(context.Background(),
		"Painting in the style of Mark Rothko. Colour fields. Scene: dawn. No text, no words, no letters.")
	assert.ErrorContains(t, err, "image generation failed")
}

func TestPickArtistExcluding(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := pickArtistExcluding("Vincent van Gogh")
		assert.NotEqual(t, "Vincent van Gogh", a.Name)
	}
}

func TestExtractArtistName(t *testing.T) {
	assert.Equal(t, "Edward Hopper",
		extractArtistName("Painting in the style of Edward Hopper. American realism. Scene: x."))
	assert.Equal(t, "Edward Hopper",
		extractArtistName("Painting in the style of Edward Hopper, American realism."))
	assert.Equal(t, "", extractArtistName("No marker here."))
}
