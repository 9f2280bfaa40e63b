package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/postforge"
)

// Run executes the posts command.
func (c *PostsCmd) Run(deps *Dependencies) error {
	filter := postforge.PostFilter{Limit: c.Limit}
	if c.Status != "" {
		status := postforge.PostStatus(c.Status)
		filter.Status = &status
	}
	if c.Tag != "" {
		filter.Tag = &c.Tag
	}
	if c.Query != "" {
		filter.Query = &c.Query
	}

	posts, total, err := deps.Posts.FindPosts(deps.Ctx, filter)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(deps.Stdout, "No posts found. Use 'postforge generate' to create one.")
		return nil
	}

	for _, p := range posts {
		line := fmt.Sprintf("%s  %s  %-9s  %s", p.ID, p.CreatedAt.Format("2006-01-02"), p.Status, p.Title)
		if len(p.Tags) > 0 {
			line += "  [" + strings.Join(p.Tags, ", ") + "]"
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	if total > len(posts) {
		fmt.Fprintf(deps.Stdout, "(%d of %d posts)\n", len(posts), total)
	}

	return nil
}
