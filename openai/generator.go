// Package openai implements text generation with OpenAI-compatible chat
// completion APIs.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/postforge"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// DefaultModel is used when neither the generator nor the call names a model.
const DefaultModel = "gpt-4o-mini"

// Ensure Generator implements postforge.TextGenerator at compile time.
var _ postforge.TextGenerator = (*Generator)(nil)

// Generator implements postforge.TextGenerator using the OpenAI SDK.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
// SDK retries are disabled; callers apply their own retry policy.
func NewGenerator(model string, opts ...option.RequestOption) *Generator {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithMaxRetries(0)}, opts...)
	return &Generator{client: openai.NewClient(opts...), model: model}
}

// GenerateText sends prompt as a chat completion and returns the reply.
func (g *Generator) GenerateText(ctx context.Context, prompt postforge.Prompt, opts postforge.GenerateOptions) (string, error) {
	if strings.TrimSpace(prompt.User) == "" {
		return "", postforge.Errorf(postforge.EINVALID, "prompt required")
	}

	resp, err := g.client.Chat.Completions.New(ctx, BuildParams(g.model, prompt, opts))
	if err != nil {
		return "", mapError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", postforge.TemporaryErrorf(postforge.EGENERATION, "openai returned no choices")
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", postforge.Errorf(postforge.EGENERATION, "openai filtered the response")
	}
	if choice.Message.Refusal != "" {
		return "", postforge.Errorf(postforge.EGENERATION, "openai refused: %s", choice.Message.Refusal)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", postforge.TemporaryErrorf(postforge.EGENERATION, "openai returned an empty response")
	}
	return choice.Message.Content, nil
}

// BuildParams returns the chat completion request for a call.
func BuildParams(model string, prompt postforge.Prompt, opts postforge.GenerateOptions) openai.ChatCompletionNewParams {
	if opts.Model != "" {
		model = opts.Model
	}

	var msgs []openai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		msgs = append(msgs, openai.SystemMessage(prompt.System))
	}
	msgs = append(msgs, openai.UserMessage(prompt.User))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(float64(*opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return params
}

// mapError translates SDK errors into application errors.
func mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return postforge.Errorf(postforge.ETIMEOUT, "openai request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return postforge.TemporaryErrorf(postforge.EGENERATION, "openai request failed: %v", err)
	}

	code := apiErr.StatusCode
	switch {
	case code == http.StatusTooManyRequests || code >= 500:
		return postforge.TemporaryErrorf(postforge.EGENERATION, "openai error %d: %s", code, apiErr.Message)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return postforge.Errorf(postforge.EGENERATION, "openai rejected the credentials: %s", apiErr.Message)
	default:
		return postforge.Errorf(postforge.EGENERATION, "openai error %d: %s", code, apiErr.Message)
	}
}
