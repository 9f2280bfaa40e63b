package main

import (
	"fmt"

	"github.com/fwojciec/postforge"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	post, err := deps.Generator.Generate(deps.Ctx, postforge.GenerateRequest{
		URL:                c.URL,
		TemplateID:         c.Template,
		CustomInstructions: c.Instructions,
		Tags:               c.Tags,
	})
	if err != nil {
		printError(deps.Stderr, err)
		if stage := postforge.ErrorStage(err); stage != "" {
			fmt.Fprintf(deps.Stderr, "failed during %s\n", stage.Phase())
		}
		return err
	}

	printPost(deps, post)
	return nil
}

// Run executes the improve command.
func (c *ImproveCmd) Run(deps *Dependencies) error {
	post, err := deps.Generator.Improve(deps.Ctx, c.ID, c.Feedback)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	printPost(deps, post)
	return nil
}

func printPost(deps *Dependencies, post *postforge.BlogPost) {
	fmt.Fprintf(deps.Stdout, "Saved post %s (%d words, %d min read)\n", post.ID, post.WordCount, post.ReadingTime)
	fmt.Fprintf(deps.Stdout, "\n# %s\n\n%s\n", post.Title, post.Body)
}
