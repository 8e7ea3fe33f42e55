package inference

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const gatewaySystemPrompt = "You are Aanum, a knowledgeable and professional AI assistant. " +
	"Provide detailed, well-structured responses with expertise and precision."

// Canned replies for backend exhaustion. The user always gets a
// conversational answer; the machine-readable tag rides along in Response.Err.
const (
	rateLimitReply = "I apologize, but I'm receiving too many requests right now. Please wait a moment and try again."
	rateLimitErr   = "Rate limit exceeded. Please try again in a moment."

	paymentReply = "The AI service requires additional credits. Please contact support."
	paymentErr   = "Payment required. Please add credits to your workspace."

	genericReply = "I apologize, but I encountered an error processing your request. Please try again."
)

// Gateway calls an OpenAI-compatible chat completions upstream. Upstream
// failures never propagate as hard errors: rate-limit and payment responses
// map to their canned replies, anything else maps to the generic apology.
type Gateway struct {
	client openai.Client
	model  string
}

func NewGateway(baseURL, apiKey, model string) *Gateway {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Gateway{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (g *Gateway) Reply(ctx context.Context, req Request) (Response, error) {
	res, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(gatewaySystemPrompt),
			openai.UserMessage(req.Text),
		},
		Model: g.model,
	})
	if err != nil {
		return softFailure(err), nil
	}

	if len(res.Choices) == 0 {
		slog.Error("gateway returned no choices", "model", g.model)
		return Response{Text: genericReply, Err: "empty completion"}, nil
	}

	return Response{Text: res.Choices[0].Message.Content}, nil
}

func softFailure(err error) Response {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusTooManyRequests:
			slog.Warn("gateway rate limited")
			return Response{Text: rateLimitReply, Err: rateLimitErr}
		case http.StatusPaymentRequired:
			slog.Warn("gateway payment required")
			return Response{Text: paymentReply, Err: paymentErr}
		}
	}

	slog.Error("gateway request failed", "error", err)
	return Response{Text: genericReply, Err: err.Error()}
}
