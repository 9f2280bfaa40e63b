package main

import (
	"fmt"

	pfhttp "github.com/fwojciec/postforge/http"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := pfhttp.NewServer()
	s.Addr = c.Addr
	if deps.Logger != nil {
		s.Logger = deps.Logger
	}
	s.Generator = deps.Generator
	s.Reviser = deps.Reviser
	s.PostService = deps.Posts
	s.TemplateService = deps.Templates
	s.FeedbackService = deps.Feedback

	if err := s.Open(); err != nil {
		printError(deps.Stderr, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()

	return s.Close()
}
