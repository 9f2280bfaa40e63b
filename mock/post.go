package mock

import (
	"context"

	"github.com/fwojciec/postforge"
)

var (
	_ postforge.PostService = (*PostService)(nil)
	_ postforge.Generator   = (*Generator)(nil)
)

// PostService is a mock implementation of postforge.PostService.
type PostService struct {
	CreatePostFn   func(ctx context.Context, post *postforge.BlogPost) error
	FindPostByIDFn func(ctx context.Context, id string) (*postforge.BlogPost, error)
	FindPostsFn    func(ctx context.Context, filter postforge.PostFilter) ([]*postforge.BlogPost, int, error)
	UpdatePostFn   func(ctx context.Context, id string, upd postforge.PostUpdate) (*postforge.BlogPost, error)
}

func (s *PostService) CreatePost(ctx context.Context, post *postforge.BlogPost) error {
	return s.CreatePostFn(ctx, post)
}

func (s *PostService) FindPostByID(ctx context.Context, id string) (*postforge.BlogPost, error) {
	return s.FindPostByIDFn(ctx, id)
}

func (s *PostService) FindPosts(ctx context.Context, filter postforge.PostFilter) ([]*postforge.BlogPost, int, error) {
	return s.FindPostsFn(ctx, filter)
}

func (s *PostService) UpdatePost(ctx context.Context, id string, upd postforge.PostUpdate) (*postforge.BlogPost, error) {
	return s.UpdatePostFn(ctx, id, upd)
}

// Generator is a mock implementation of postforge.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, req postforge.GenerateRequest) (*postforge.BlogPost, error)
	ImproveFn  func(ctx context.Context, postID, feedback string) (*postforge.BlogPost, error)
}

func (g *Generator) Generate(ctx context.Context, req postforge.GenerateRequest) (*postforge.BlogPost, error) {
	return g.GenerateFn(ctx, req)
}

func (g *Generator) Improve(ctx context.Context, postID, feedback string) (*postforge.BlogPost, error) {
	return g.ImproveFn(ctx, postID, feedback)
}

var _ postforge.PostExporter = (*PostExporter)(nil)

// PostExporter is a mock implementation of postforge.PostExporter.
type PostExporter struct {
	SaveFn   func(ctx context.Context, post *postforge.BlogPost) error
	CommitFn func() error
	AbortFn  func() error
}

func (e *PostExporter) Save(ctx context.Context, post *postforge.BlogPost) error {
	return e.SaveFn(ctx, post)
}

func (e *PostExporter) Commit() error {
	return e.CommitFn()
}

func (e *PostExporter) Abort() error {
	return e.AbortFn()
}
