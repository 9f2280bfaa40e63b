package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/postforge"
)

// Run executes the templates command.
func (c *TemplatesCmd) Run(deps *Dependencies) error {
	tmpls, err := deps.Templates.FindTemplates(deps.Ctx, postforge.TemplateFilter{})
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if len(tmpls) == 0 {
		fmt.Fprintln(deps.Stdout, "No templates found.")
		return nil
	}

	for _, t := range tmpls {
		fmt.Fprintf(deps.Stdout, "%s  v%d  %s  (%s)\n", t.ID, t.Version, t.Name, strings.Join(t.SectionNames(), ", "))
	}

	return nil
}

// Run executes the revise command.
func (c *ReviseCmd) Run(deps *Dependencies) error {
	tmpl, err := deps.Reviser.Revise(deps.Ctx, c.Template, c.Feedback)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Revised template %s to version %d\n", tmpl.ID, tmpl.Version)
	for _, s := range tmpl.Sections {
		fmt.Fprintf(deps.Stdout, "  %s: %s\n", s.Name, s.Instruction)
	}

	return nil
}
