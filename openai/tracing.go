package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Gen AI semantic convention keys. They are not in the Go semconv package
// yet because the conventions are still experimental.
const (
	GenAISystemKey                = attribute.Key("gen_ai.system")
	GenAIOperationNameKey         = attribute.Key("gen_ai.operation.name")
	GenAIRequestModelKey          = attribute.Key("gen_ai.request.model")
	GenAIRequestTemperatureKey    = attribute.Key("gen_ai.request.temperature")
	GenAIRequestMaxTokensKey      = attribute.Key("gen_ai.request.max_tokens")
	GenAIResponseModelKey         = attribute.Key("gen_ai.response.model")
	GenAIResponseIDKey            = attribute.Key("gen_ai.response.id")
	GenAIResponseFinishReasonsKey = attribute.Key("gen_ai.response.finish_reasons")
	GenAIUsageInputTokensKey      = attribute.Key("gen_ai.usage.input_tokens")
	GenAIUsageOutputTokensKey     = attribute.Key("gen_ai.usage.output_tokens")
)

// TracingConfig configures NewTracingMiddleware.
type TracingConfig struct {
	// SampleRoot starts spans even when the request context carries no
	// parent span.
	SampleRoot bool
}

// chatRequest is the subset of the request body the span needs.
type chatRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int64   `json:"max_tokens"`
}

// NewTracingMiddleware wraps each HTTP call in a client span. Chat
// completion calls are named "chat <model>" and carry gen_ai.* attributes;
// anything else gets only HTTP attributes.
func NewTracingMiddleware(tp trace.TracerProvider, cfg TracingConfig) option.Middleware {
	tracer := tp.Tracer("github.com/randalmurphal/contentkit/openai")

	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		parent := trace.SpanFromContext(req.Context())
		if !cfg.SampleRoot && !parent.SpanContext().IsValid() {
			return next(req)
		}

		isChat := strings.Contains(req.URL.Path, "/chat/completions")
		attrs := []attribute.KeyValue{
			semconv.HTTPRequestMethodKey.String(req.Method),
			semconv.URLFull(req.URL.String()),
		}
		if host := req.URL.Hostname(); host != "" {
			attrs = append(attrs, semconv.ServerAddress(host))
		}

		spanName := fmt.Sprintf("%s %s", req.Method, req.URL.Path)
		if isChat && req.Body != nil {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return next(req)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			var chat chatRequest
			if json.Unmarshal(body, &chat) == nil && chat.Model != "" {
				spanName = "chat " + chat.Model
				attrs = append(attrs,
					GenAISystemKey.String("openai"),
					GenAIOperationNameKey.String("chat"),
					GenAIRequestModelKey.String(chat.Model))
				if chat.Temperature != nil {
					attrs = append(attrs, GenAIRequestTemperatureKey.Float64(*chat.Temperature))
				}
				if chat.MaxTokens != nil {
					attrs = append(attrs, GenAIRequestMaxTokensKey.Int64(*chat.MaxTokens))
				}
			}
		}

		ctx, span := tracer.Start(req.Context(), spanName,
			trace.WithAttributes(attrs...),
			trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		resp, err := next(req.WithContext(ctx))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return resp, err
		}

		span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
		if resp.StatusCode >= 400 {
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
			span.SetAttributes(semconv.ErrorTypeKey.String(fmt.Sprintf("%d", resp.StatusCode)))
			return resp, nil
		}
		if isChat && resp.Body != nil {
			hydrateChatResponse(span, resp)
		}
		return resp, nil
	}
}

func hydrateChatResponse(span trace.Span, resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	var completion oai.ChatCompletion
	if json.Unmarshal(body, &completion) != nil {
		return
	}
	if completion.Model != "" {
		span.SetAttributes(GenAIResponseModelKey.String(completion.Model))
	}
	if completion.ID != "" {
		span.SetAttributes(GenAIResponseIDKey.String(completion.ID))
	}
	span.SetAttributes(
		GenAIUsageInputTokensKey.Int64(completion.Usage.PromptTokens),
		GenAIUsageOutputTokensKey.Int64(completion.Usage.CompletionTokens))

	reasons := make([]string, 0, len(completion.Choices))
	for _, c := range completion.Choices {
		if c.FinishReason != "" {
			reasons = append(reasons, c.FinishReason)
		}
	}
	if len(reasons) > 0 {
		span.SetAttributes(GenAIResponseFinishReasonsKey.StringSlice(reasons))
	}
}
