package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const geminiModel = "gemini-2.5-flash"

type GeminiService struct {
	apiKey string
	client *http.Client
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// geminiSummary is the JSON shape the prompt asks the model for.
type geminiSummary struct {
	Resumo         string `json:"resumo"`
	Urgencia       string `json:"urgencia"`
	AcaoNecessaria string `json:"acao_necessaria"`
}

func (g *GeminiService) Summarize(ctx context.Context, content string, sc SummaryContext) (*SummaryResult, error) {
	url := "https://generativelanguage.googleapis.com/v1beta/models/" + geminiModel + ":generateContent?key=" + g.apiKey

	profession := sc.Profession
	if profession == "" {
		profession = "profissional"
	}

	contextLines := make([]string, 0, 3)
	if sc.SenderName != "" {
		contextLines = append(contextLines, "Remetente: "+sc.SenderName)
	}
	if sc.Subject != "" {
		contextLines = append(contextLines, "Assunto: "+sc.Subject)
	}
	if sc.IsAudio {
		contextLines = append(contextLines, "(Esta mensagem foi transcrita de um áudio)")
	}

	prompt := fmt.Sprintf(`Você é um assistente de um %s brasileiro. Resuma a mensagem abaixo de forma clara e objetiva para triagem rápida entre atendimentos.

Regras:
1. Seja conciso: máximo 2-3 frases
2. Destaque o ponto principal da mensagem
3. Identifique se há algo urgente ou que requer ação imediata
4. Responda sempre em português brasileiro

Formato de resposta (JSON):
{"resumo": "...", "urgencia": "baixa" | "média" | "alta", "acao_necessaria": "... ou null"}

%s

Mensagem:
%s`, profession, strings.Join(contextLines, "\n"), content)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			TotalTokenCount int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no summary returned")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	parsed := parseSummaryJSON(text)

	summary := parsed.Resumo
	if summary == "" {
		summary = strings.TrimSpace(text)
	}

	return &SummaryResult{
		Summary:        summary,
		Urgency:        NormalizeUrgency(parsed.Urgencia),
		ActionRequired: parsed.AcaoNecessaria,
		TokensUsed:     result.UsageMetadata.TotalTokenCount,
	}, nil
}

// parseSummaryJSON pulls the first JSON object out of a model response.
// Models occasionally wrap the JSON in prose or code fences.
func parseSummaryJSON(text string) geminiSummary {
	var parsed geminiSummary
	if match := jsonBlockPattern.FindString(text); match != "" {
		_ = json.Unmarshal([]byte(match), &parsed)
	}
	return parsed
}

// NormalizeUrgency coerces free-form urgency values to the three known
// labels, defaulting to medium.
func NormalizeUrgency(urgency string) string {
	switch strings.ToLower(strings.TrimSpace(urgency)) {
	case "alta", "high":
		return UrgencyHigh
	case "baixa", "low":
		return UrgencyLow
	}
	return UrgencyMedium
}
