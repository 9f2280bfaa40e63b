package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/postforge"
)

// exportPageSize is the number of posts read per query during export.
const exportPageSize = 100

// Run executes the export command. Nothing is written to the target
// directory unless every post is saved.
func (c *ExportCmd) Run(deps *Dependencies) error {
	n, err := c.export(deps)
	if err != nil {
		if abortErr := deps.Exporter.Abort(); abortErr != nil {
			err = errors.Join(err, abortErr)
		}
		printError(deps.Stderr, err)
		return err
	}

	if err := deps.Exporter.Commit(); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d posts to %s\n", n, c.Dir)
	return nil
}

func (c *ExportCmd) export(deps *Dependencies) (int, error) {
	filter := postforge.PostFilter{Order: postforge.OldestFirst, Limit: exportPageSize}
	if c.Status != "" {
		status := postforge.PostStatus(c.Status)
		filter.Status = &status
	}

	var n int
	for {
		posts, total, err := deps.Posts.FindPosts(deps.Ctx, filter)
		if err != nil {
			return n, err
		}
		for _, p := range posts {
			if err := deps.Exporter.Save(deps.Ctx, p); err != nil {
				return n, err
			}
			n++
		}
		filter.Offset += len(posts)
		if len(posts) == 0 || filter.Offset >= total {
			return n, nil
		}
	}
}
