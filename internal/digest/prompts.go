package digest

import (
	"fmt"
	"strings"
	"time"
)

func formatEpisodeData(episodes []EpisodeInput) string {
	formatted := make([]string, 0, len(episodes))
	for _, ep := range episodes {
		published := "Unknown"
		if ep.PublishedAt != nil {
			published = ep.PublishedAt.Format(time.RFC3339)
		}
		formatted = append(formatted, fmt.Sprintf(`
EPISODE: %s
PODCAST: %s
DATE: %s

Overview: %s

Key Points:
%s

Themes: %s

Predictions:
%s

Recommendations:
%s

Advice:
%s
`,
			ep.Title, ep.PodcastTitle, published, ep.Analysis.Overview,
			bulleted(ep.Analysis.KeyPoints),
			strings.Join(ep.Analysis.Themes, ", "),
			bulleted(ep.Analysis.Predictions),
			bulleted(ep.Analysis.Recommendations),
			bulleted(ep.Analysis.Advice)))
	}
	return strings.Join(formatted, "\n---\n")
}

func bulleted(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func digestPrompt(episodes []EpisodeInput, periodStart, periodEnd time.Time) string {
	return fmt.Sprintf(`You are an expert analyst synthesizing insights from multiple podcast episodes.

Analyze the following podcast episode summaries from %s to %s.

Your task is to identify patterns, trends, and synthesize actionable intelligence across all episodes.

Return a JSON object with:
{
    "summary": "A comprehensive 2-3 paragraph executive summary of the key insights from this period",
    "common_themes": ["Theme that appears across multiple episodes", ...],
    "trends": [
        {
            "trend": "Description of the trend",
            "evidence": "Evidence from the episodes",
            "direction": "emerging|growing|declining|stable"
        },
        ...
    ],
    "predictions": ["Synthesized predictions about what will happen based on the content", ...],
    "recommendations": ["What listeners should DO based on all this information", ...],
    "key_advice": ["The most important pieces of advice from across episodes", ...],
    "action_items": ["Specific actionable steps to take", ...],
    "image_description": "A single evocative visual scene (10-20 words) that metaphorically represents the podcast themes - describe a specific landscape, architecture, or natural scene, not abstract concepts"
}

Guidelines:
- Identify themes that appear in 2+ episodes
- Look for contradictions or debates between different sources
- Synthesize predictions - what do multiple sources agree on?
- Prioritize actionable recommendations
- The action_items should be specific and practical
- Group similar advice together
- Note any consensus or disagreement among sources

EPISODE ANALYSES:
%s

Respond ONLY with the JSON object.`,
		periodStart.Format("January 02, 2006"),
		periodEnd.Format("January 02, 2006"),
		formatEpisodeData(episodes))
}
