// package formatter provides functions to export session settings and schema
// references to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/haldane/eegx/internal/forms"
	"github.com/haldane/eegx/internal/services"
)

// ExportSessionToCSV converts a session document to CSV format with columns:
// Section, Field, Value. Rows are ordered by section endpoint then field name.
func ExportSessionToCSV(doc services.SessionDocument) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Section", "Field", "Value"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, endpoint := range sortedSections(doc) {
		values := doc[endpoint]
		for _, name := range sortedFields(values) {
			record := []string{endpoint, name, formatValue(values[name])}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportSessionToMarkdown converts a session document to Markdown format, one
// section heading per configured section.
func ExportSessionToMarkdown(doc services.SessionDocument, sessionID string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Pipeline Session\n\n")
	if sessionID != "" {
		buf.WriteString(fmt.Sprintf("**Session**: `%s`\n", sessionID))
	}
	buf.WriteString(fmt.Sprintf("**Sections**: %d\n\n", len(doc)))

	for _, endpoint := range sortedSections(doc) {
		title := endpoint
		if name, err := forms.SectionName(endpoint); err == nil {
			title = name
		}
		buf.WriteString(fmt.Sprintf("## %s\n\n", title))

		values := doc[endpoint]
		if len(values) == 0 {
			buf.WriteString("_no saved values_\n\n")
			continue
		}

		buf.WriteString("| Field | Value |\n|---|---|\n")
		for _, name := range sortedFields(values) {
			buf.WriteString(fmt.Sprintf("| %s | %s |\n", name, formatValue(values[name])))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportSessionToText converts a session document to plain text format.
func ExportSessionToText(doc services.SessionDocument) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Sections: %d\n\n", len(doc)))
	for _, endpoint := range sortedSections(doc) {
		buf.WriteString(fmt.Sprintf("[%s]\n", endpoint))
		values := doc[endpoint]
		for _, name := range sortedFields(values) {
			buf.WriteString(fmt.Sprintf("  %s = %s\n", name, formatValue(values[name])))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// SchemaToMarkdown renders a section schema as a Markdown field reference,
// keeping the server's field order.
func SchemaToMarkdown(schema *forms.Schema) ([]byte, error) {
	var buf bytes.Buffer

	title := schema.Title
	if title == "" {
		title = schema.Section
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString("| Field | Kind | Default | Unit | Options |\n|---|---|---|---|---|\n")

	for _, field := range schema.Fields {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			field.Name,
			field.Kind,
			formatValue(field.Default),
			field.Unit,
			strings.Join(field.Options, ", "),
		))
	}

	return buf.Bytes(), nil
}

// SessionExportResult contains the paths of files created by WriteSessionExport
type SessionExportResult struct {
	ValuesFile   string
	DocumentFile string
}

// WriteSessionExport exports a session document to CSV with an accompanying
// raw JSON file.
//
// Defaults to the session id as the base filename & creates {base}_values.csv
// and {base}_session.json
func WriteSessionExport(doc services.SessionDocument, sessionID, baseFilepath string) (*SessionExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = sessionID
	}
	if baseFilepath == "" {
		baseFilepath = "session"
	}

	csvData, err := ExportSessionToCSV(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	valuesFile := baseFilepath + "_values.csv"
	if err := os.WriteFile(valuesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to generate session JSON: %w", err)
	}

	documentFile := baseFilepath + "_session.json"
	if err := os.WriteFile(documentFile, docJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write session file: %w", err)
	}

	return &SessionExportResult{
		ValuesFile:   valuesFile,
		DocumentFile: documentFile,
	}, nil
}

func sortedSections(doc services.SessionDocument) []string {
	out := make([]string, 0, len(doc))
	for endpoint := range doc {
		out = append(out, endpoint)
	}
	sort.Strings(out)
	return out
}

func sortedFields(values map[string]any) []string {
	out := make([]string, 0, len(values))
	for name := range values {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
