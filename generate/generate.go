// Package generate runs the blog-post pipeline: extract an article, prompt
// a text-generation model with a template, validate its reply and store the
// result. It also revises templates from feedback.
package generate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/postforge"
)

// DefaultCallTimeout bounds a single text-generation call.
const DefaultCallTimeout = 90 * time.Second

var _ postforge.Generator = (*Pipeline)(nil)

// Pipeline implements postforge.Generator.
type Pipeline struct {
	Extractor postforge.ContentExtractor
	Templates postforge.TemplateService
	Posts     postforge.PostService
	Feedback  postforge.FeedbackService
	Model     postforge.TextGenerator
	Agents    postforge.Agents

	// Tokens, if set, counts prompt tokens into post metadata.
	Tokens postforge.TokenCounter

	// Retry governs model call retries. The zero value means one attempt.
	Retry postforge.RetryPolicy

	// CallTimeout bounds each model call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration

	// OnStage, if set, receives every stage transition.
	OnStage postforge.StageFunc
}

// Generate runs the full pipeline for req.URL and returns the stored draft.
// The template is resolved before extraction, so an unknown template fails
// with ENOTFOUND and no stage.
func (p *Pipeline) Generate(ctx context.Context, req postforge.GenerateRequest) (*postforge.BlogPost, error) {
	ev := postforge.StageEvent{URL: req.URL}
	p.emit(ev, postforge.StagePending, nil)

	tags := postforge.NormalizeTags(req.Tags)
	if len(tags) > postforge.MaxTags {
		return nil, postforge.Errorf(postforge.EINVALID, "at most %d tags allowed", postforge.MaxTags)
	}

	templateID := req.TemplateID
	if templateID == "" {
		templateID = postforge.DefaultTemplateID
	}
	tmpl, err := p.Templates.FindTemplateByID(ctx, templateID)
	if err != nil {
		p.emit(ev, postforge.StageErrored, err)
		return nil, err
	}

	p.emit(ev, postforge.StageExtracting, nil)
	article, err := p.Extractor.Extract(ctx, req.URL)
	if err != nil {
		return nil, p.fail(ev, postforge.StageExtracting, err)
	}
	if strings.TrimSpace(article.BodyText) == "" {
		return nil, p.fail(ev, postforge.StageExtracting, postforge.Errorf(postforge.EEXTRACTION, "no content extracted from %s", req.URL))
	}
	p.emit(ev, postforge.StageExtracted, nil)

	p.emit(ev, postforge.StagePrompting, nil)
	agent := p.Agents.Writer
	prompt := BuildPostPrompt(agent, tmpl, article, req.CustomInstructions)
	raw, err := p.call(ctx, agent, prompt)
	if err != nil {
		return nil, p.fail(ev, postforge.StagePrompting, err)
	}
	p.emit(ev, postforge.StageGeneratedRaw, nil)

	out, err := ParseOutput(raw, tmpl)
	if err != nil {
		return nil, p.fail(ev, postforge.StageGeneratedRaw, err)
	}
	body, err := Body(out, tmpl)
	if err != nil {
		return nil, p.fail(ev, postforge.StageGeneratedRaw, err)
	}
	p.emit(ev, postforge.StageValidated, nil)

	post := &postforge.BlogPost{
		SourceURL:       article.URL,
		Title:           out.Title,
		Body:            body,
		Sections:        out.Sections,
		TemplateID:      tmpl.ID,
		TemplateVersion: tmpl.Version,
		Status:          postforge.PostDraft,
		Tags:            mergeTags(tags, out.Tags),
		Metadata:        p.metadata(ctx, article, prompt),
	}
	if err := p.Posts.CreatePost(ctx, post); err != nil {
		return nil, p.fail(ev, postforge.StageValidated, err)
	}

	ev.PostID = post.ID
	p.emit(ev, postforge.StagePersisted, p.Templates.IncrementTemplateUsage(ctx, tmpl.ID))
	return post, nil
}

// Improve rewrites a stored post from feedback using the post's template at
// its current version. The feedback is appended to the feedback log.
func (p *Pipeline) Improve(ctx context.Context, postID, feedback string) (*postforge.BlogPost, error) {
	if feedback == "" {
		return nil, postforge.Errorf(postforge.EINVALID, "feedback required")
	}

	post, err := p.Posts.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	tmpl, err := p.Templates.FindTemplateByID(ctx, post.TemplateID)
	if err != nil {
		return nil, err
	}

	ev := postforge.StageEvent{URL: post.SourceURL, PostID: post.ID}
	p.emit(ev, postforge.StagePrompting, nil)
	agent := p.Agents.Editor
	raw, err := p.call(ctx, agent, BuildImprovePrompt(agent, tmpl, post, feedback))
	if err != nil {
		return nil, p.fail(ev, postforge.StagePrompting, err)
	}
	p.emit(ev, postforge.StageGeneratedRaw, nil)

	out, err := ParseOutput(raw, tmpl)
	if err != nil {
		return nil, p.fail(ev, postforge.StageGeneratedRaw, err)
	}
	body, err := Body(out, tmpl)
	if err != nil {
		return nil, p.fail(ev, postforge.StageGeneratedRaw, err)
	}
	p.emit(ev, postforge.StageValidated, nil)

	tags := mergeTags(post.Tags, out.Tags)
	updated, err := p.Posts.UpdatePost(ctx, post.ID, postforge.PostUpdate{
		Title:           &out.Title,
		Body:            &body,
		Sections:        out.Sections,
		TemplateVersion: &tmpl.Version,
		Tags:            &tags,
	})
	if err != nil {
		return nil, p.fail(ev, postforge.StageValidated, err)
	}

	err = p.Feedback.CreateFeedback(ctx, &postforge.Feedback{
		Target:   postforge.FeedbackPost,
		TargetID: post.ID,
		Content:  feedback,
	})
	p.emit(ev, postforge.StagePersisted, err)
	return updated, nil
}

// call runs one model call under its own timeout, retrying temporary errors.
func (p *Pipeline) call(ctx context.Context, agent postforge.Agent, prompt postforge.Prompt) (string, error) {
	return callModel(ctx, p.Model, p.Retry, p.callTimeout(), agent, prompt)
}

func callModel(ctx context.Context, model postforge.TextGenerator, policy postforge.RetryPolicy, timeout time.Duration, agent postforge.Agent, prompt postforge.Prompt) (string, error) {
	text, err := postforge.Retry(ctx, policy, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		text, err := model.GenerateText(ctx, prompt, agent.Options())
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && postforge.ErrorCode(err) == postforge.EINTERNAL {
			return "", postforge.Errorf(postforge.ETIMEOUT, "model call timed out after %s", timeout)
		}
		return text, err
	})
	if err != nil && errors.Is(err, context.DeadlineExceeded) && postforge.ErrorCode(err) == postforge.EINTERNAL {
		return "", postforge.Errorf(postforge.ETIMEOUT, "deadline exceeded waiting to retry model call")
	}
	return text, err
}

func (p *Pipeline) callTimeout() time.Duration {
	if p.CallTimeout > 0 {
		return p.CallTimeout
	}
	return DefaultCallTimeout
}

// metadata collects the article details stored alongside a post.
func (p *Pipeline) metadata(ctx context.Context, article *postforge.Article, prompt postforge.Prompt) map[string]string {
	m := make(map[string]string)
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("author", article.Author)
	set("site_name", article.SiteName)
	set("description", article.Description)
	set("source_title", article.Title)
	if article.PublishedAt != nil {
		m["published_at"] = article.PublishedAt.UTC().Format(time.RFC3339)
	}
	if p.Tokens != nil {
		// Token counting is informational; failures leave the key unset.
		if n, err := p.Tokens.CountTokens(ctx, prompt.System+prompt.User); err == nil {
			m["prompt_tokens"] = strconv.Itoa(n)
		}
	}
	return m
}

// mergeTags appends model-suggested tags to the given ones, keeping at most
// MaxTags.
func mergeTags(given, suggested []string) []string {
	tags := postforge.NormalizeTags(append(append([]string{}, given...), suggested...))
	if len(tags) > postforge.MaxTags {
		tags = tags[:postforge.MaxTags]
	}
	return tags
}

func (p *Pipeline) emit(ev postforge.StageEvent, stage postforge.Stage, err error) {
	if p.OnStage == nil {
		return
	}
	ev.Stage = stage
	ev.Err = err
	p.OnStage(ev)
}

// fail records the stage a failure happened in and reports it.
func (p *Pipeline) fail(ev postforge.StageEvent, stage postforge.Stage, err error) error {
	err = postforge.WithStage(err, stage)
	p.emit(ev, postforge.StageErrored, err)
	return err
}
