package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/haldane/eegx/internal/formatter"
	"github.com/haldane/eegx/internal/forms"
	"github.com/haldane/eegx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SessionShow loads (or creates) the backend session and prints the saved settings.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	format := cmd.String("format")
	exportBase := cmd.String("export")

	doc, err := r.store.Load(ctx)
	if err != nil {
		return err
	}

	sid := r.store.CachedID()
	r.logger.Info("session loaded", "session", sid, "sections", len(doc))

	if exportBase != "" {
		result, err := formatter.WriteSessionExport(doc, sid, exportBase)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %s and %s\n", result.ValuesFile, result.DocumentFile)
	}

	if useJSON {
		return r.writeJSON(doc, pretty)
	}

	var data []byte
	switch format {
	case "markdown", "md":
		data, err = formatter.ExportSessionToMarkdown(doc, sid)
	case "csv":
		data, err = formatter.ExportSessionToCSV(doc)
	case "text", "":
		data, err = formatter.ExportSessionToText(doc)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Session %s", sid))
	return r.writePlain("%s", data)
}

// SessionCreate creates a fresh backend session and caches its id.
func (r *Runner) SessionCreate(ctx context.Context, cmd *cli.Command) error {
	id, err := r.store.Create(ctx)
	if err != nil {
		return err
	}

	return r.writePlainln("✓ Session created: %s", id)
}

// SessionReset drops the cached session id and creates a fresh session.
//
// The old server-side session is left to expire on its own, matching how the
// backend handles abandoned sessions.
func (r *Runner) SessionReset(ctx context.Context, cmd *cli.Command) error {
	old := r.store.CachedID()

	if clearer, ok := r.ids.(interface{ Clear() error }); ok {
		if err := clearer.Clear(); err != nil {
			return fmt.Errorf("failed to clear cached session id: %w", err)
		}
	}

	id, err := r.store.Create(ctx)
	if err != nil {
		return err
	}

	if old != "" {
		r.logger.Info("session replaced", "old", old, "new", id)
	}
	return r.writePlainln("✓ Session reset: %s", id)
}

// SessionSet writes one field of one section and patches it immediately.
//
// The CLI path is one-shot, so there is no debounce: hydrate the section,
// apply the edit, send the snapshot.
func (r *Runner) SessionSet(ctx context.Context, cmd *cli.Command) error {
	section := cmd.StringArg("section")
	fieldName := cmd.StringArg("field")
	raw := cmd.StringArg("value")

	if section == "" || fieldName == "" {
		return fmt.Errorf("%w: section and field are required", shared.ErrMissingArgument)
	}

	endpoint, err := forms.SectionEndpoint(section)
	if errors.Is(err, shared.ErrUnknownSection) {
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

	field, ok := schema.Field(fieldName)
	if !ok {
		return fmt.Errorf("%w: section %q has no field %q", shared.ErrInvalidArgument, endpoint, fieldName)
	}
	if !field.Kind.Valid() {
		return fmt.Errorf("%w: field %q in section %q is not editable", shared.ErrInvalidArgument, fieldName, endpoint)
	}

	value, err := parseFieldArg(field, raw)
	if err != nil {
		return err
	}

	saved, err := r.store.Section(ctx, endpoint)
	if err != nil {
		return err
	}

	cache := forms.NewValueCache(endpoint)
	cache.ReplaceAll(saved)
	cache.SetField(fieldName, value)

	if err := r.store.Patch(ctx, endpoint, cache.Snapshot()); err != nil {
		return err
	}

	r.logger.Info("field patched", "section", endpoint, "field", fieldName)
	return r.writePlainln("✓ %s.%s = %s", endpoint, fieldName, raw)
}

// parseFieldArg converts a CLI value argument to the wire type for the field.
// An empty value clears the field.
func parseFieldArg(field forms.Field, raw string) (any, error) {
	if raw == "" {
		return "", nil
	}

	switch field.Kind {
	case forms.FieldCheckbox:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false", shared.ErrInvalidArgument, field.Name)
		}
		return b, nil
	case forms.FieldInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects an integer", shared.ErrInvalidArgument, field.Name)
		}
		return n, nil
	case forms.FieldNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a number", shared.ErrInvalidArgument, field.Name)
		}
		return f, nil
	case forms.FieldList:
		for _, opt := range field.Options {
			if opt == raw {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%w: %s expects one of %v", shared.ErrInvalidArgument, field.Name, field.Options)
	default:
		return raw, nil
	}
}
