package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/domain"
	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	"github.com/momcircle/matchd/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterMatchingMetrics(nil)
	os.Exit(m.Run())
}

func sampleRequest() dommm.Request {
	return dommm.Request{
		Viewer: dommm.Summary{Name: "Maria", Location: "Kifisia, Athens", Interests: []string{"yoga"}, ChildStage: "1 child: 1y"},
		Candidates: []dommm.Summary{
			{Name: "Eleni", Location: "Kifisia, Athens", ChildStage: "1 child: 1y"},
			{Name: "Sofia", Location: "Athens", ChildStage: "unknown"},
		},
	}
}

func toolCallResponse(args string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index": 0,
			"message": map[string]any{
				"role": "assistant",
				"tool_calls": []map[string]any{{
					"id":   "call_1",
					"type": "function",
					"function": map[string]any{
						"name":      "select_match",
						"arguments": args,
					},
				}},
			},
			"finish_reason": "tool_calls",
		}},
		"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 40, "total_tokens": 160},
	}
}

func newTestPicker(t *testing.T, h http.HandlerFunc) *Picker {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewPicker(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})
}

func TestPicker_Pick(t *testing.T) {
	p := newTestPicker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Tools []struct {
				Function struct {
					Name string `json:"name"`
				} `json:"function"`
			} `json:"tools"`
			ToolChoice struct {
				Function struct {
					Name string `json:"name"`
				} `json:"function"`
			} `json:"tool_choice"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Tools) != 1 || req.Tools[0].Function.Name != "select_match" {
			t.Errorf("tools = %+v", req.Tools)
		}
		if req.ToolChoice.Function.Name != "select_match" {
			t.Errorf("tool_choice must force select_match, got %+v", req.ToolChoice)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, `"number":2`) {
			t.Errorf("candidates must be numbered from 1: %+v", req.Messages)
		}

		args := `{"selectedProfileIndex":1,"matchScore":93,"primaryReason":"Your little ones are the same age",` +
			`"secondaryReasons":["You both live in Kifisia"],"matchType":"same_stage"}`
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toolCallResponse(args))
	})

	pick, err := p.Pick(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if pick.SelectedProfileIndex != 1 || pick.MatchScore != 93 || pick.MatchType != dommm.SameStage {
		t.Errorf("unexpected pick: %+v", pick)
	}
	if len(pick.SecondaryReasons) != 1 {
		t.Errorf("secondary reasons = %v", pick.SecondaryReasons)
	}
}

func TestPicker_RateLimited(t *testing.T) {
	p := newTestPicker(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	})

	_, err := p.Pick(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if errors.Is(err, domain.ErrProviderError) {
		t.Error("429 must not also be a provider error")
	}
}

func TestPicker_ServerError(t *testing.T) {
	p := newTestPicker(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"upstream overloaded"}`))
	})

	_, err := p.Pick(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrProviderError) {
		t.Fatalf("expected ErrProviderError, got %v", err)
	}
}

func TestPicker_MalformedArguments(t *testing.T) {
	p := newTestPicker(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toolCallResponse(`{"selectedProfileIndex": "one"`))
	})

	_, err := p.Pick(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrMalformedPick) {
		t.Fatalf("expected ErrMalformedPick, got %v", err)
	}
}

func TestPicker_NoToolCall(t *testing.T) {
	p := newTestPicker(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{"role": "assistant", "content": "I pick Eleni"},
			}},
		})
	})

	_, err := p.Pick(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrMalformedPick) {
		t.Fatalf("expected ErrMalformedPick, got %v", err)
	}
}

func TestPicker_HealthCheck(t *testing.T) {
	p := newTestPicker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})

	if err := p.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}

func TestSystemPrompt_HidesMechanics(t *testing.T) {
	lower := strings.ToLower(systemPrompt)
	for _, word := range []string{"algorithm", "composite", "weight"} {
		if strings.Contains(lower, word) {
			t.Errorf("system prompt mentions %q", word)
		}
	}
}

func TestParseAPIError_Plain(t *testing.T) {
	err := parseAPIError(errors.New("dial tcp: refused"))
	if !errors.Is(err, domain.ErrProviderError) {
		t.Fatalf("expected ErrProviderError, got %v", err)
	}

	err = parseAPIError(context.DeadlineExceeded)
	if !errors.Is(err, domain.ErrProviderError) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("timeouts keep their cause: %v", err)
	}
}
