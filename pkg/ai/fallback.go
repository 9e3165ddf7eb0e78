package ai

import (
	"context"
	"strings"
)

const fallbackWordLimit = 20

// FallbackSummarizer always answers with the deterministic excerpt. It keeps
// the service functional when no AI provider is configured.
type FallbackSummarizer struct{}

func NewFallbackSummarizer() *FallbackSummarizer {
	return &FallbackSummarizer{}
}

func (s *FallbackSummarizer) Summarize(_ context.Context, content string, _ SummaryContext) (*SummaryResult, error) {
	return FallbackResult(content), nil
}

// FallbackSummary builds a deterministic excerpt used when the summarizer
// fails: the body verbatim up to 20 whitespace-delimited words, otherwise
// the first 20 words joined by single spaces with a "..." suffix.
func FallbackSummary(content string) string {
	words := strings.Fields(content)
	if len(words) <= fallbackWordLimit {
		return content
	}
	return strings.Join(words[:fallbackWordLimit], " ") + "..."
}

// FallbackResult wraps FallbackSummary in a SummaryResult with medium
// urgency, no action text, and zero token cost.
func FallbackResult(content string) *SummaryResult {
	return &SummaryResult{
		Summary:    FallbackSummary(content),
		Urgency:    UrgencyMedium,
		TokensUsed: 0,
	}
}
