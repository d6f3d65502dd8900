// Package pipeline runs assembled drafts through the external three-stage
// text-processing pipeline (structure validation, content expansion,
// compliance review). The pipeline is a black box from the core's point of
// view: opaque text in, opaque text out, any stage failure is terminal for
// the request.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultLanguage is used when a request does not specify one.
const DefaultLanguage = "English"

// =============================================================================
// Transformer Interface
// =============================================================================

// Transformer transforms a draft contract into its final text. The call
// blocks for the full duration of the external work and must honor ctx.
type Transformer interface {
	Transform(ctx context.Context, draft, language string) (string, error)
}

// =============================================================================
// Stages
// =============================================================================

// Stage is one named transformation step.
type Stage struct {
	Name         string
	Role         string
	Instructions string
}

// DefaultStages returns the fixed three-stage contract pipeline.
func DefaultStages() []Stage {
	return []Stage{
		{
			Name:         "structure_validation",
			Role:         "Template Manager",
			Instructions: "Validate the contract structure and ensure all required fields are present.",
		},
		{
			Name:         "content_expansion",
			Role:         "Contract Writer",
			Instructions: "Expand and enhance the contract with detailed content and professional formatting.",
		},
		{
			Name:         "compliance_review",
			Role:         "Legal Reviewer",
			Instructions: "Review the contract for legal compliance and completeness.",
		},
	}
}

// StageError reports which stage of the pipeline failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// =============================================================================
// Remote Chain
// =============================================================================

// Config holds configuration for the remote pipeline client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DefaultConfig returns default remote pipeline configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8090",
		Timeout: 120 * time.Second,
	}
}

// RemoteChain implements Transformer against a remote text-generation
// service, feeding the output of each stage into the next.
type RemoteChain struct {
	baseURL    string
	apiKey     string
	stages     []Stage
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRemoteChain creates a remote pipeline with the given stages. A nil or
// empty stages slice falls back to DefaultStages.
func NewRemoteChain(cfg Config, stages []Stage, logger *slog.Logger) *RemoteChain {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RemoteChain{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		stages:  stages,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// transformRequest is the request body sent to the transformation service.
type transformRequest struct {
	Stage        string `json:"stage"`
	Role         string `json:"role"`
	Instructions string `json:"instructions"`
	Language     string `json:"language"`
	Text         string `json:"text"`
}

// transformResponse is the response body from the transformation service.
type transformResponse struct {
	Text string `json:"text"`
}

// Transform runs the draft through every stage in order. The first stage
// failure aborts the chain; there is no partial recovery.
func (c *RemoteChain) Transform(ctx context.Context, draft, language string) (string, error) {
	if language == "" {
		language = DefaultLanguage
	}

	text := draft
	for _, stage := range c.stages {
		out, err := c.runStage(ctx, stage, language, text)
		if err != nil {
			return "", &StageError{Stage: stage.Name, Err: err}
		}
		c.logger.Debug("pipeline stage complete",
			"stage", stage.Name,
			"input_bytes", len(text),
			"output_bytes", len(out),
		)
		text = out
	}
	return text, nil
}

func (c *RemoteChain) runStage(ctx context.Context, stage Stage, language, text string) (string, error) {
	instructions := stage.Instructions
	if language != DefaultLanguage {
		instructions += fmt.Sprintf(" Generate the contract in %s and ensure all legal terms keep their legal meaning.", language)
	}

	body, err := json.Marshal(transformRequest{
		Stage:        stage.Name,
		Role:         stage.Role,
		Instructions: instructions,
		Language:     language,
		Text:         text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transform request: %w", err)
	}

	url := c.baseURL + "/v1/transform"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send transform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transform service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out transformResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode transform response: %w", err)
	}
	return out.Text, nil
}

// =============================================================================
// Passthrough (for development/testing)
// =============================================================================

// Passthrough is a Transformer that returns the draft unchanged, used when
// the external pipeline is disabled.
type Passthrough struct{}

// NewPassthrough creates a passthrough transformer.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// Transform returns the draft unchanged.
func (p *Passthrough) Transform(ctx context.Context, draft, language string) (string, error) {
	return draft, nil
}
