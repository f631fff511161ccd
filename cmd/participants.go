package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Participants lists study participants, or one participant's recorded tasks
// when a subject id argument is given.
func (r *Runner) Participants(ctx context.Context, cmd *cli.Command) error {
	subject := cmd.StringArg("subject")
	useJSON := cmd.Bool("json")

	if subject != "" {
		names, err := r.engine.SubjectTasks(ctx, subject)
		if err != nil {
			return err
		}

		if useJSON {
			return r.writeJSON(map[string]any{"subject": subject, "tasks": names}, true)
		}

		r.writePlainHeader(subject)
		for _, name := range names {
			r.writePlain("  • %s\n", name)
		}
		return nil
	}

	subjects, err := r.engine.Subjects(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(map[string]any{"subjects": subjects}, true)
	}

	r.writePlainHeader("Participants")
	for _, s := range subjects {
		r.writePlain("  • %s\n", s)
	}
	return r.writePlain("\n%d participants\n", len(subjects))
}
