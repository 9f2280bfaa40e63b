package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/postforge"
	"google.golang.org/genai"
)

// DefaultModel is used when neither the generator nor the call names a model.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements postforge.TextGenerator at compile time.
var _ postforge.TextGenerator = (*Generator)(nil)

// Generator implements postforge.TextGenerator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// GenerateText sends prompt to Gemini and returns the reply text.
func (g *Generator) GenerateText(ctx context.Context, prompt postforge.Prompt, opts postforge.GenerateOptions) (string, error) {
	if strings.TrimSpace(prompt.User) == "" {
		return "", postforge.Errorf(postforge.EINVALID, "prompt required")
	}

	model := g.model
	if opts.Model != "" {
		model = opts.Model
	}

	result, err := g.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(prompt.User, "user")},
		BuildConfig(prompt.System, opts),
	)
	if err != nil {
		return "", mapError(ctx, err)
	}
	if result == nil {
		return "", postforge.Errorf(postforge.EGENERATION, "gemini returned nil result")
	}
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", postforge.Errorf(postforge.EGENERATION, "gemini blocked the prompt: %s", fb.BlockReason)
	}
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", postforge.Errorf(postforge.EGENERATION, "gemini stopped for safety reasons")
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", postforge.TemporaryErrorf(postforge.EGENERATION, "gemini returned an empty response")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for a call.
func BuildConfig(system string, opts postforge.GenerateOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: opts.Temperature,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.JSON {
		config.ResponseMIMEType = "application/json"
	}
	return config
}

// mapError translates client errors into application errors. Rate limits,
// server faults and transport failures are temporary.
func mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return postforge.Errorf(postforge.ETIMEOUT, "gemini request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	code, msg, ok := apiError(err)
	if !ok {
		return postforge.TemporaryErrorf(postforge.EGENERATION, "gemini request failed: %v", err)
	}

	switch {
	case code == http.StatusTooManyRequests || code >= 500:
		return postforge.TemporaryErrorf(postforge.EGENERATION, "gemini error %d: %s", code, msg)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return postforge.Errorf(postforge.EGENERATION, "gemini rejected the credentials: %s", msg)
	default:
		return postforge.Errorf(postforge.EGENERATION, "gemini error %d: %s", code, msg)
	}
}

func apiError(err error) (int, string, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v.Code, v.Message, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return p.Code, p.Message, true
	}
	return 0, "", false
}
