package llm

import (
	"encoding/json"
	"regexp"
)

// Model output is requested as a bare JSON object but often arrives wrapped
// in prose or a markdown fence. Extraction is layered: direct parse, fenced
// code block, then the first balanced-looking object in the text.
var (
	fencedJSONRe   = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	nestedObjectRe = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
	anyObjectRe    = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON unmarshals the first JSON object recoverable from response
// into dst. Returns false when every layer fails; callers substitute their
// own default structure in that case.
func ExtractJSON(response string, dst interface{}) bool {
	if json.Unmarshal([]byte(response), dst) == nil {
		return true
	}

	if m := fencedJSONRe.FindStringSubmatch(response); m != nil {
		if json.Unmarshal([]byte(m[1]), dst) == nil {
			return true
		}
	}

	if m := nestedObjectRe.FindString(response); m != "" {
		if json.Unmarshal([]byte(m), dst) == nil {
			return true
		}
	}

	if m := anyObjectRe.FindString(response); m != "" {
		if json.Unmarshal([]byte(m), dst) == nil {
			return true
		}
	}

	return false
}
