package openai

import "regexp"

var jsonObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)

// extractJSON pulls the outermost JSON object out of a model response,
// tolerating markdown fences and prose around it.
func extractJSON(s string) string {
	if match := jsonObjectRe.FindString(s); match != "" {
		return match
	}
	return s
}
