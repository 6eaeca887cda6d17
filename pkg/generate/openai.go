package generate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/lectura/mindmap/pkg/cache"
	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/mindmap"
	"github.com/lectura/mindmap/pkg/observability"
)

// Defaults for the OpenAI-compatible endpoint.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "openai/gpt-oss-120b"
	DefaultTimeout = 60 * time.Second
)

// Config holds the chat completion endpoint settings.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// OpenAIGenerator generates trees through an OpenAI-compatible chat
// completion API. Successful generations are cached by model, title and
// content; fallback trees are not.
type OpenAIGenerator struct {
	client  openai.Client
	reqOpts []option.RequestOption
	model   string
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
}

// Option configures an OpenAIGenerator.
type Option func(*OpenAIGenerator)

// WithCache caches generated trees in c. A nil keyer uses the default.
func WithCache(c cache.Cache, keyer cache.Keyer) Option {
	return func(g *OpenAIGenerator) {
		if c != nil {
			g.cache = c
		}
		if keyer != nil {
			g.keyer = keyer
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *OpenAIGenerator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(g *OpenAIGenerator) {
		g.client = openai.NewClient(append(slices.Clone(g.reqOpts), option.WithHTTPClient(c))...)
	}
}

// NewOpenAIGenerator returns a generator for cfg. An API key is required.
// The client does not retry failed requests.
func NewOpenAIGenerator(cfg Config, opts ...Option) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, apperr.New(apperr.ErrCodeUnsupported, "mind map generation needs an API key (set GROQ_API_KEY)")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	g := &OpenAIGenerator{
		model:  cfg.Model,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	g.reqOpts = []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	g.client = openai.NewClient(g.reqOpts...)
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Model returns the configured model name.
func (g *OpenAIGenerator) Model() string { return g.model }

// Generate asks the model for a tree. Empty content is rejected with
// INVALID_INPUT. Transport failures are returned as NETWORK_ERROR,
// TIMEOUT or RATE_LIMITED; a reply that is not a usable tree yields the
// fallback tree and no error.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*mindmap.Node, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := g.keyer.GenerateKey(g.model, cache.Hash([]byte(req.RootTitle()+"\x00"+req.Content)))
	if data, hit, err := g.cache.Get(ctx, key); err == nil && hit {
		if root, err := mindmap.ParseTree(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "generate")
			g.logger.Debug("generated tree from cache", "model", g.model)
			return root, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "generate")

	hooks := observability.Generate()
	hooks.OnGenerateStart(ctx, g.model, len(req.Content))
	start := time.Now()

	reply, err := g.complete(ctx, req)
	if err != nil {
		hooks.OnGenerateComplete(ctx, g.model, false, time.Since(start), err)
		return nil, err
	}
	root, fallback := ParseTree(reply, req.Title)
	hooks.OnGenerateComplete(ctx, g.model, fallback, time.Since(start), nil)

	if fallback {
		g.logger.Warn("model reply is not a mind map, using fallback", "model", g.model, "reply_len", len(reply))
		return root, nil
	}
	g.logger.Info("generated mind map", "model", g.model, "duration", time.Since(start))

	if data, err := json.Marshal(root); err == nil {
		if err := g.cache.Set(ctx, key, data, cache.GenerateTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "generate", len(data))
		}
	}
	return root, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(req)),
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps client errors onto error codes.
func classify(err error) error {
	var apiErr *openai.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.ErrCodeTimeout, err, "mind map generation timed out")
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		return apperr.Wrap(apperr.ErrCodeRateLimited, err, "mind map generation rate limited").
			WithRetryAfter(retryAfter(apiErr.Response))
	}
	return apperr.Wrap(apperr.ErrCodeNetwork, err, "mind map generation failed")
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

var _ Generator = (*OpenAIGenerator)(nil)
