package summarize

import "fmt"

func structuredPrompt(transcript string) string {
	return fmt.Sprintf(`You are an expert podcast analyst. Analyze the following podcast transcript and provide a comprehensive structured analysis.

Return your analysis as a JSON object with the following structure (ensure valid JSON):
{
    "overview": "A brief 2-3 sentence summary of the episode",
    "key_points": ["Main point 1", "Main point 2", ...],
    "topics": ["Topic 1", "Topic 2", ...],
    "themes": ["Key theme 1", "Key theme 2", ...],
    "predictions": ["Any predictions about the future mentioned", ...],
    "recommendations": ["Actionable recommendations for listeners", ...],
    "advice": ["Key pieces of advice given", ...],
    "notable_quotes": ["Important quote 1", "Important quote 2", ...],
    "summary": "A detailed 2-3 paragraph summary"
}

Guidelines:
- Extract 5-10 key points that capture the main content
- Identify 3-7 major topics discussed
- Identify 2-5 overarching themes
- Note any predictions about future trends, events, or developments
- Extract actionable recommendations - what should listeners DO with this information?
- Capture key pieces of advice given by speakers
- Include 2-4 notable or memorable quotes
- If a category has no content (e.g., no predictions were made), use an empty array

TRANSCRIPT:
%s

Respond ONLY with the JSON object, no additional text.`, transcript)
}

func chunkPrompt(chunk string, part, total int) string {
	return fmt.Sprintf(`This is part %d of %d of a podcast transcript.
Analyze this section and return a JSON object with:
{
    "key_points": ["point 1", ...],
    "topics": ["topic 1", ...],
    "themes": ["theme 1", ...],
    "predictions": ["prediction 1", ...],
    "recommendations": ["recommendation 1", ...],
    "advice": ["advice 1", ...],
    "notable_quotes": ["quote 1", ...],
    "section_summary": "Brief summary of this section"
}

TRANSCRIPT SECTION:
%s

Respond ONLY with the JSON object.`, part, total, chunk)
}

func combinePrompt(sectionAnalyses string) string {
	return fmt.Sprintf(`The following are structured analyses of different sections of a podcast episode.
Combine them into a single coherent analysis.

Return a JSON object with:
{
    "overview": "A brief 2-3 sentence summary of the entire episode",
    "key_points": ["Deduplicated and prioritized main points (5-10)"],
    "topics": ["Major topics across all sections"],
    "themes": ["Overarching themes (2-5)"],
    "predictions": ["All predictions about the future"],
    "recommendations": ["Actionable recommendations for listeners"],
    "advice": ["Key pieces of advice"],
    "notable_quotes": ["Most memorable quotes (2-4)"],
    "summary": "A detailed 2-3 paragraph summary of the entire episode"
}

SECTION ANALYSES:
%s

Respond ONLY with the JSON object.`, sectionAnalyses)
}
