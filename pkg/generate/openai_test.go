package generate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lectura/mindmap/pkg/cache"
	apperr "github.com/lectura/mindmap/pkg/errors"
)

// fakeCompletions serves /chat/completions with a fixed reply or status.
func fakeCompletions(t *testing.T, status int, reply string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("request body: %v", err)
		}
		if body.Model != "test-model" || len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("unexpected request: %s", data)
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			if status == http.StatusTooManyRequests {
				w.Header().Set("Retry-After", "7")
			}
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"error"}}`)
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestGenerator(t *testing.T, srv *httptest.Server, opts ...Option) *OpenAIGenerator {
	t.Helper()
	g, err := NewOpenAIGenerator(Config{APIKey: "test", BaseURL: srv.URL + "/", Model: "test-model"}, opts...)
	if err != nil {
		t.Fatalf("NewOpenAIGenerator: %v", err)
	}
	return g
}

func TestOpenAIGenerator(t *testing.T) {
	srv, calls := fakeCompletions(t, http.StatusOK,
		"```json\n{\"id\":\"root\",\"text\":\"Cells\",\"children\":[{\"id\":\"n\",\"text\":\"Nucleus\",\"children\":[]}]}\n```")
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	g := newTestGenerator(t, srv, WithCache(c, nil))
	ctx := context.Background()
	req := Request{Title: "Cells", Content: "The nucleus holds DNA."}

	root, err := g.Generate(ctx, req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if root.Text != "Cells" || len(root.Children) != 1 {
		t.Errorf("root = %+v", root)
	}

	again, err := g.Generate(ctx, req)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if again.Children[0].Text != "Nucleus" {
		t.Errorf("cached root = %+v", again)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("API called %d times, want 1 (second call cached)", n)
	}
}

func TestOpenAIGeneratorFallback(t *testing.T) {
	srv, calls := fakeCompletions(t, http.StatusOK, "I cannot do that.")
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	g := newTestGenerator(t, srv, WithCache(c, nil))

	for range 2 {
		root, err := g.Generate(context.Background(), Request{Title: "History", Content: "notes"})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if root.Text != "History" || root.Children[0].ID != "main1" {
			t.Errorf("fallback root = %+v", root)
		}
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("API called %d times, want 2 (fallbacks are not cached)", n)
	}
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   apperr.Code
		retry  time.Duration
	}{
		{"rate limited", http.StatusTooManyRequests, apperr.ErrCodeRateLimited, 7 * time.Second},
		{"server error", http.StatusInternalServerError, apperr.ErrCodeNetwork, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeCompletions(t, tt.status, "")
			g := newTestGenerator(t, srv)
			_, err := g.Generate(context.Background(), Request{Content: "notes"})
			if !apperr.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
			if got := apperr.RetryAfter(err); got != tt.retry {
				t.Errorf("RetryAfter = %v, want %v", got, tt.retry)
			}
		})
	}
}

func TestOpenAIGeneratorRejectsEmptyContent(t *testing.T) {
	srv, calls := fakeCompletions(t, http.StatusOK, "{}")
	g := newTestGenerator(t, srv)
	_, err := g.Generate(context.Background(), Request{Title: "T"})
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	if calls.Load() != 0 {
		t.Error("empty content should not reach the API")
	}
}

func TestNewOpenAIGenerator(t *testing.T) {
	if _, err := NewOpenAIGenerator(Config{}); !apperr.Is(err, apperr.ErrCodeUnsupported) {
		t.Errorf("missing key: err = %v, want UNSUPPORTED", err)
	}
	g, err := NewOpenAIGenerator(Config{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if g.Model() != DefaultModel {
		t.Errorf("Model = %q, want %q", g.Model(), DefaultModel)
	}
}
