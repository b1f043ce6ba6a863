package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"go.opentelemetry.io/otel"

	"github.com/randalmurphal/contentkit/provider"
)

// ProviderName is the registry name.
const ProviderName = "openai"

// ErrMissingAPIKey is returned by New when no key is configured for the
// public endpoint.
var ErrMissingAPIKey = errors.New("openai: API key is required")

// Client implements provider.Client.
type Client struct {
	api oai.Client
	cfg provider.Config
}

var _ provider.Client = (*Client)(nil)

// New creates a client from cfg. Extra request options are appended after
// the ones derived from cfg, which lets tests inject middleware.
func New(cfg provider.Config, extra ...option.RequestOption) (*Client, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.Tracing {
		opts = append(opts, option.WithMiddleware(NewTracingMiddleware(otel.GetTracerProvider(), TracingConfig{})))
	}
	opts = append(opts, extra...)

	return &Client{
		api: oai.NewClient(opts...),
		cfg: cfg,
	}, nil
}

// Complete sends one chat completion.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Completion, error) {
	messages := make([]oai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemMessage != "" {
		messages = append(messages, oai.SystemMessage(req.SystemMessage))
	}
	messages = append(messages, oai.UserMessage(req.Prompt))

	modelName := req.Model
	if modelName == "" {
		modelName = c.cfg.Model
	}
	params := oai.ChatCompletionNewParams{
		Model:    modelName,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = param.NewOpt(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = param.NewOpt(*req.Temperature)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classify("complete", err)
	}
	if len(resp.Choices) == 0 {
		return nil, provider.NewError(ProviderName, "complete", provider.KindUnexpected, errors.New("response contained no choices"))
	}

	choice := resp.Choices[0]
	return &provider.Completion{
		ID:           resp.ID,
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
		Usage:        provider.NewTokenUsage(int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens)),
	}, nil
}

// Models lists model ids. It is the minimal authenticated call used for
// key validation.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	page, err := c.api.Models.List(ctx)
	if err != nil {
		return nil, classify("models", err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Provider returns ProviderName.
func (c *Client) Provider() string {
	return ProviderName
}

// Close is a no-op; the underlying HTTP client is shared.
func (c *Client) Close() error {
	return nil
}

// classify maps SDK and transport errors onto provider kinds.
func classify(op string, err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		kind := provider.KindServer
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = provider.KindAuthentication
		case http.StatusTooManyRequests:
			kind = provider.KindRateLimit
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			kind = provider.KindTimeout
		}
		e := provider.NewError(ProviderName, op, kind, err)
		e.StatusCode = apiErr.StatusCode
		return e
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return provider.NewError(ProviderName, op, provider.KindTimeout, err)
	case errors.Is(err, context.Canceled):
		return provider.NewError(ProviderName, op, provider.KindUnexpected, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return provider.NewError(ProviderName, op, provider.KindTimeout, err)
		}
		return provider.NewError(ProviderName, op, provider.KindConnection, err)
	}

	return provider.NewError(ProviderName, op, provider.KindUnexpected, fmt.Errorf("unclassified: %w", err))
}
