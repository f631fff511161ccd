package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/haldane/eegx/internal/forms"
	"github.com/haldane/eegx/internal/services"
	th "github.com/haldane/eegx/internal/testing"
)

func sampleDoc() services.SessionDocument {
	return services.SessionDocument{
		"filter": {
			"l_freq":  1.5,
			"h_freq":  40.0,
			"notch":   true,
			"montage": nil,
		},
		"epochs": {
			"tmin": -0.2,
			"tmax": 0.8,
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportSessionToCSV", func(t *testing.T) {
		data, err := ExportSessionToCSV(sampleDoc())
		if err != nil {
			t.Fatalf("ExportSessionToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Section,Field,Value") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "filter,l_freq,1.5") {
			t.Errorf("CSV missing filter row, got: %s", output)
		}
		if !strings.Contains(output, "epochs,tmin,-0.2") {
			t.Errorf("CSV missing epochs row, got: %s", output)
		}

		// epochs sorts before filter
		if strings.Index(output, "epochs,") > strings.Index(output, "filter,") {
			t.Errorf("CSV rows not ordered by section, got: %s", output)
		}
	})

	t.Run("ExportSessionToMarkdown", func(t *testing.T) {
		data, err := ExportSessionToMarkdown(sampleDoc(), "s-0001")
		if err != nil {
			t.Fatalf("ExportSessionToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Pipeline Session") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Session**: `s-0001`") {
			t.Errorf("Markdown missing session id")
		}
		if !strings.Contains(output, "## Filtering and Cleaning") {
			t.Errorf("Markdown missing section display name, got: %s", output)
		}
		if !strings.Contains(output, "| l_freq | 1.5 |") {
			t.Errorf("Markdown missing field row, got: %s", output)
		}
	})

	t.Run("ExportSessionToText", func(t *testing.T) {
		data, err := ExportSessionToText(sampleDoc())
		if err != nil {
			t.Fatalf("ExportSessionToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Sections: 2") {
			t.Errorf("Text missing section count")
		}
		if !strings.Contains(output, "[filter]") {
			t.Errorf("Text missing section header")
		}
		if !strings.Contains(output, "  notch = true") {
			t.Errorf("Text missing field line, got: %s", output)
		}
	})

	t.Run("SchemaToMarkdown", func(t *testing.T) {
		schema := &forms.Schema{
			Section: "filter",
			Title:   "Filtering and Cleaning",
			Fields: []forms.Field{
				{Name: "l_freq", Kind: forms.FieldNumber, Default: 1.0, Unit: "Hz"},
				{Name: "method", Kind: forms.FieldList, Options: []string{"fir", "iir"}},
			},
		}

		data, err := SchemaToMarkdown(schema)
		if err != nil {
			t.Fatalf("SchemaToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Filtering and Cleaning") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "| l_freq | number | 1 | Hz |") {
			t.Errorf("Markdown missing field row, got: %s", output)
		}
		if !strings.Contains(output, "fir, iir") {
			t.Errorf("Markdown missing options, got: %s", output)
		}
	})
}

func TestWriteSessionExport(t *testing.T) {
	t.Run("WithDefaultBase", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "s-0001")

		result, err := WriteSessionExport(sampleDoc(), "s-0001", base)
		if err != nil {
			t.Fatalf("WriteSessionExport failed: %v", err)
		}

		if result.ValuesFile != base+"_values.csv" {
			t.Errorf("unexpected values file %q", result.ValuesFile)
		}
		if result.DocumentFile != base+"_session.json" {
			t.Errorf("unexpected document file %q", result.DocumentFile)
		}

		th.AssertFileExists(t, result.ValuesFile)
		th.AssertFileExists(t, result.DocumentFile)

		csvContent := th.MustReadFile(t, result.ValuesFile)
		if !strings.Contains(csvContent, "Section,Field,Value") {
			t.Errorf("CSV missing headers")
		}

		docContent := th.MustReadFile(t, result.DocumentFile)
		if !strings.Contains(docContent, `"l_freq"`) {
			t.Errorf("JSON missing field data")
		}
	})

	t.Run("FallsBackToSessionName", func(t *testing.T) {
		dir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, dir)
		defer th.MustChdir(t, originalDir)

		result, err := WriteSessionExport(sampleDoc(), "", "")
		if err != nil {
			t.Fatalf("WriteSessionExport failed: %v", err)
		}

		if result.ValuesFile != "session_values.csv" {
			t.Errorf("expected session_values.csv, got %q", result.ValuesFile)
		}
		th.AssertFileExists(t, result.ValuesFile)
	})
}
