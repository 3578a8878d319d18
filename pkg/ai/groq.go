package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/noah-isme/uni-adp-api/internal/dto"
)

// GroqGenerator calls Groq's OpenAI-compatible chat completions API.
type GroqGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGroqGenerator constructs a Groq-backed proposal generator.
func NewGroqGenerator(apiKey, model, baseURL string, client *http.Client) *GroqGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &GroqGenerator{apiKey: apiKey, model: model, baseURL: baseURL, client: client}
}

// Name identifies the generator in logs and metrics.
func (g *GroqGenerator) Name() string { return "groq" }

type groqChatRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate requests a candidate schedule from the model. Callers bound the
// call with a context deadline; the request never blocks past it.
func (g *GroqGenerator) Generate(ctx context.Context, input ProposalInput) ([]dto.TimetableSlotInput, error) {
	payload := groqChatRequest{
		Model: g.model,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(input)},
		},
		Temperature: 0.3,
		MaxTokens:   4096,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build groq request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call groq: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read groq response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groq returned status %d", resp.StatusCode)
	}

	var parsed groqChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("groq returned no choices")
	}

	return ExtractSlots(parsed.Choices[0].Message.Content)
}
