package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/domain"
	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	"github.com/momcircle/matchd/internal/metrics"
)

const functionName = "select_match"

const systemPrompt = `You help mothers on a community app find one other mom to meet.
You receive the viewer's profile and a numbered list of nearby moms.
Choose the single best person for the viewer to connect with and call select_match.
Weigh children's ages and life stage first, then shared interests and lifestyle, then neighbourhood.
Write the reasons warmly, in second person, addressed to the viewer, in the viewer's language.
Never mention scores, rankings, filters or how the list was produced.`

// Picker selects one candidate through an OpenAI-compatible chat completion
// with a forced function call.
type Picker struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the model provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewPicker creates a Picker.
func NewPicker(cfg *Config) *Picker {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Picker{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: log,
	}
}

// Pick asks the model for one candidate. It returns domain.ErrRateLimited on
// HTTP 429 and domain.ErrProviderError for every other failure.
func (p *Picker) Pick(ctx context.Context, req dommm.Request) (dommm.Pick, error) {
	userMsg, err := renderRequest(req)
	if err != nil {
		return dommm.Pick{}, fmt.Errorf("render request: %w", err)
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
		Tools: []openai.Tool{{
			Type:     openai.ToolTypeFunction,
			Function: selectMatchFunction(len(req.Candidates)),
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: functionName},
		},
		Temperature: 0.4,
	})
	duration := time.Since(start)

	if err != nil {
		perr := parseAPIError(err)
		status := "error"
		if errors.Is(perr, domain.ErrRateLimited) {
			status = "rate_limited"
		}
		metrics.ProviderRequestsTotal.WithLabelValues(p.model, status).Inc()
		return dommm.Pick{}, perr
	}
	metrics.ProviderRequestDuration.WithLabelValues(p.model).Observe(duration.Seconds())

	pick, err := decodePick(resp)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(p.model, "malformed").Inc()
		return dommm.Pick{}, err
	}
	metrics.ProviderRequestsTotal.WithLabelValues(p.model, "success").Inc()
	p.logger.Debug("Model pick",
		zap.Int("index", pick.SelectedProfileIndex),
		zap.String("match_type", string(pick.MatchType)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Duration("duration", duration),
	)
	return pick, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (p *Picker) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// selectMatchFunction describes the function the model must call.
func selectMatchFunction(poolSize int) *openai.FunctionDefinition {
	types := dommm.MatchTypes()
	enum := make([]string, len(types))
	for i, t := range types {
		enum[i] = string(t)
	}
	return &openai.FunctionDefinition{
		Name:        functionName,
		Description: "Select the one mom the viewer should meet and explain why.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"selectedProfileIndex": {
					Type:        jsonschema.Integer,
					Description: fmt.Sprintf("Number of the chosen mom, 1 to %d.", poolSize),
				},
				"matchScore": {
					Type:        jsonschema.Number,
					Description: "How strong the connection is, 85 to 100.",
				},
				"primaryReason": {
					Type:        jsonschema.String,
					Description: "One warm sentence on why they should meet.",
				},
				"secondaryReasons": {
					Type:        jsonschema.Array,
					Description: "Up to three short extra reasons.",
					Items:       &jsonschema.Definition{Type: jsonschema.String},
				},
				"matchType": {
					Type: jsonschema.String,
					Enum: enum,
				},
			},
			Required: []string{
				"selectedProfileIndex", "matchScore", "primaryReason", "secondaryReasons", "matchType",
			},
			AdditionalProperties: false,
		},
	}
}

// renderRequest formats the viewer and the numbered candidates as the user message.
func renderRequest(req dommm.Request) (string, error) {
	type numbered struct {
		Number int `json:"number"`
		dommm.Summary
	}
	list := make([]numbered, len(req.Candidates))
	for i, c := range req.Candidates {
		list[i] = numbered{Number: i + 1, Summary: c}
	}

	viewer, err := json.Marshal(req.Viewer)
	if err != nil {
		return "", fmt.Errorf("marshal viewer: %w", err)
	}
	candidates, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	var b strings.Builder
	b.WriteString("Viewer:\n")
	b.Write(viewer)
	b.WriteString("\n\nMoms nearby:\n")
	b.Write(candidates)
	return b.String(), nil
}

// decodePick extracts the select_match arguments from the first choice.
func decodePick(resp openai.ChatCompletionResponse) (dommm.Pick, error) {
	if len(resp.Choices) == 0 {
		return dommm.Pick{}, fmt.Errorf("empty completion: %w", domain.ErrMalformedPick)
	}
	msg := resp.Choices[0].Message
	for _, call := range msg.ToolCalls {
		if call.Function.Name != functionName {
			continue
		}
		var pick dommm.Pick
		if err := json.Unmarshal([]byte(call.Function.Arguments), &pick); err != nil {
			return dommm.Pick{}, fmt.Errorf("decode %s arguments: %w: %w", functionName, domain.ErrMalformedPick, err)
		}
		return pick, nil
	}
	return dommm.Pick{}, fmt.Errorf("no %s call in response: %w", functionName, domain.ErrMalformedPick)
}

// parseAPIError maps provider failures: 429 to domain.ErrRateLimited,
// everything else to domain.ErrProviderError.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrap := wrapFor(reqErr.HTTPStatusCode)
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("model API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("model API error %d: %w", reqErr.HTTPStatusCode, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("model API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrapFor(apiErr.HTTPStatusCode))
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("model request: %w: %w", domain.ErrProviderError, err)
	}
	return fmt.Errorf("model request failed: %w", domain.ErrProviderError)
}

func wrapFor(status int) error {
	if status == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return domain.ErrProviderError
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
