package main

import (
	"context"
	"errors"

	"github.com/haldane/eegx/internal/formatter"
	"github.com/haldane/eegx/internal/forms"
	"github.com/haldane/eegx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SchemaShow fetches and displays a section schema, or lists all sections when
// no argument is given. The section may be a display name or an endpoint name.
func (r *Runner) SchemaShow(ctx context.Context, cmd *cli.Command) error {
	section := cmd.StringArg("section")
	useJSON := cmd.Bool("json")

	if section == "" {
		r.writePlainHeader("Sections")
		for _, endpoint := range forms.SectionEndpoints() {
			name, _ := forms.SectionName(endpoint)
			r.writePlain("%-12s %s\n", endpoint, name)
		}
		return nil
	}

	endpoint, err := forms.SectionEndpoint(section)
	if errors.Is(err, shared.ErrUnknownSection) {
		// maybe it's already an endpoint name
		if _, nameErr := forms.SectionName(section); nameErr == nil {
			endpoint, err = section, nil
		}
	}
	if err != nil {
		return err
	}

	schema, err := r.catalog.Fetch(ctx, endpoint)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(schema, true)
	}

	data, err := formatter.SchemaToMarkdown(schema)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}
