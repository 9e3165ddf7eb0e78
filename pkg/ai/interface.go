package ai

import "context"

// Urgency labels produced by the summarizer. Kept as the pt-BR strings the
// mobile client renders.
const (
	UrgencyLow    = "baixa"
	UrgencyMedium = "média"
	UrgencyHigh   = "alta"
)

// SummaryContext carries the metadata the prompt is built from.
type SummaryContext struct {
	SenderName string
	Subject    string
	Profession string
	IsAudio    bool
}

// SummaryResult is the triage output for one message.
type SummaryResult struct {
	Summary        string `json:"summary"`
	Urgency        string `json:"urgency"`
	ActionRequired string `json:"actionRequired,omitempty"`
	TokensUsed     int    `json:"tokensUsed"`
}

// Summarizer is the interface for AI summarization providers. Implement it
// to add new providers (Gemini, Ollama, OpenAI, etc.).
type Summarizer interface {
	Summarize(ctx context.Context, content string, sc SummaryContext) (*SummaryResult, error)
}
