package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/config"
)

// HuggingFace calls a hosted inference endpoint of a summarization model
type HuggingFace struct {
	client    *http.Client
	endpoint  string
	token     string
	minLength int
	maxLength int
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MinLength                 int  `json:"min_length"`
	MaxLength                 int  `json:"max_length"`
	CleanUpTokenizationSpaces bool `json:"clean_up_tokenization_spaces"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

// NewHuggingFace creates an inference API provider, the call deadline comes from the context
func NewHuggingFace(cfg config.SummarizerConfig) *HuggingFace {
	return &HuggingFace{
		client:    &http.Client{},
		endpoint:  cfg.Endpoint,
		token:     cfg.APIToken,
		minLength: cfg.MinLength,
		maxLength: cfg.MaxLength,
	}
}

// Complete posts text to the model and returns the first summary
func (h *HuggingFace) Complete(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			MinLength:                 h.minLength,
			MaxLength:                 h.maxLength,
			CleanUpTokenizationSpaces: true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var summaries []hfSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(summaries) == 0 || strings.TrimSpace(summaries[0].SummaryText) == "" {
		return "", ErrEmptySummary
	}
	return summaries[0].SummaryText, nil
}
