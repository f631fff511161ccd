package forms

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/haldane/eegx/internal/shared"
)

func TestActionResolver(t *testing.T) {
	t.Run("Epoch Plot Dependencies", func(t *testing.T) {
		sections := RequiredSections("Epoch Plot")

		want := []string{"Filtering and Cleaning", "Epochs"}
		if diff := cmp.Diff(want, sections); diff != "" {
			t.Errorf("section list mismatch (-want +got):\n%s", diff)
		}

		head, ok := DefaultSection("Epoch Plot")
		if !ok || head != "Filtering and Cleaning" {
			t.Errorf("expected Filtering and Cleaning as default, got %q", head)
		}
	})

	t.Run("Unknown Action Yields Empty List", func(t *testing.T) {
		if got := RequiredSections("Telepathy"); len(got) != 0 {
			t.Errorf("expected empty list, got %v", got)
		}
		if _, ok := DefaultSection("Telepathy"); ok {
			t.Error("expected no default section for unknown action")
		}
		if KnownAction("Telepathy") {
			t.Error("expected Telepathy to be unknown")
		}
	})

	t.Run("Empty Requirement List Is Legal", func(t *testing.T) {
		if !KnownAction("Metadata") {
			t.Fatal("expected Metadata to be a known action")
		}
		if got := RequiredSections("Metadata"); len(got) != 0 {
			t.Errorf("expected no sections for Metadata, got %v", got)
		}
	})

	t.Run("Returned Slice Is A Copy", func(t *testing.T) {
		first := RequiredSections("Epoch Plot")
		first[0] = "mutated"

		second := RequiredSections("Epoch Plot")
		if second[0] != "Filtering and Cleaning" {
			t.Error("mutating a returned list leaked into the table")
		}
	})

	t.Run("Every Listed Section Has An Endpoint", func(t *testing.T) {
		for _, action := range Actions() {
			for _, section := range RequiredSections(action) {
				if _, err := SectionEndpoint(section); err != nil {
					t.Errorf("action %q references section %q with no endpoint: %v", action, section, err)
				}
			}
		}
	})

	t.Run("Endpoint Round Trip", func(t *testing.T) {
		ep, err := SectionEndpoint(SectionFiltering)
		if err != nil {
			t.Fatalf("expected endpoint, got %v", err)
		}
		if ep != "filter" {
			t.Errorf("expected filter, got %s", ep)
		}

		name, err := SectionName("filter")
		if err != nil {
			t.Fatalf("expected name, got %v", err)
		}
		if name != SectionFiltering {
			t.Errorf("expected %s, got %s", SectionFiltering, name)
		}

		if _, err := SectionEndpoint("Nope"); !errors.Is(err, shared.ErrUnknownSection) {
			t.Errorf("expected ErrUnknownSection, got %v", err)
		}
	})
}
