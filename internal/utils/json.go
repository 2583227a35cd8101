package utils

import (
	"regexp"
	"strings"
)

// Fence markers recognised around an LLM reply: ```json, ```JSON, or a bare ```.
var (
	leadingFenceRegex  = regexp.MustCompile("^```(?:[jJ][sS][oO][nN])?[ \\t]*\\r?\\n?")
	trailingFenceRegex = regexp.MustCompile("\\r?\\n?[ \\t]*```$")
)

// StripCodeFence removes a single markdown code fence wrapping the response.
// Text without a leading fence is returned trimmed but otherwise untouched.
func StripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}

	response = leadingFenceRegex.ReplaceAllString(response, "")
	response = trailingFenceRegex.ReplaceAllString(response, "")
	return strings.TrimSpace(response)
}
