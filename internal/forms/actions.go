package forms

import (
	"fmt"
	"sort"

	"github.com/haldane/eegx/internal/shared"
)

// Section display names, as shown in the form surface's tab bar.
const (
	SectionFiltering  = "Filtering and Cleaning"
	SectionTimeDomain = "Time Domain"
	SectionEpochs     = "Epochs"
	SectionPSD        = "PSD"
	SectionEvoked     = "Evoked Display"
	SectionTopomap    = "Topomap"
	SectionTables     = "Tables"
	SectionModels     = "Models"
	SectionTraining   = "Training"
	SectionPrediction = "Prediction"
)

// actionSections maps a pipeline action to the ordered sections that must be
// configured before it can run. An empty list means the action needs no
// configuration surface at all.
var actionSections = map[string][]string{
	"Sensor Layout":        {SectionFiltering},
	"Time Domain Plot":     {SectionFiltering, SectionTimeDomain},
	"Frequency Domain":     {SectionFiltering, SectionEpochs, SectionPSD},
	"Epoch Plot":           {SectionFiltering, SectionEpochs},
	"Evoked Plot":          {SectionFiltering, SectionEpochs, SectionEvoked},
	"Evoked Topo Plot":     {SectionFiltering, SectionEvoked, SectionTopomap},
	"Evoked Plot Joint":    {SectionFiltering, SectionEpochs, SectionTopomap, SectionEvoked},
	"Evoked per Condition": {SectionFiltering, SectionEpochs, SectionEvoked},
	"SNR Spectrum":         {SectionFiltering, SectionEpochs, SectionPSD},

	"PSD Grid":    {SectionFiltering, SectionEpochs, SectionPSD},
	"SNR Grid":    {SectionFiltering, SectionEpochs, SectionPSD},
	"Evoked Grid": {SectionFiltering, SectionEpochs, SectionEvoked},

	"EEG Table":    {SectionFiltering, SectionTables},
	"Epochs Table": {SectionFiltering, SectionEpochs},
	"Metadata":     {},

	"Models":        {},
	"Build Dataset": {SectionFiltering, SectionEpochs, SectionModels, SectionTraining},
	"Train":         {SectionFiltering, SectionEpochs, SectionModels, SectionTraining},
	"Predict":       {SectionFiltering, SectionEpochs, SectionModels, SectionPrediction},
}

// sectionEndpoints maps section display names to backend endpoint names,
// used in /schemas/{section} and /session/{id}/{section} paths.
var sectionEndpoints = map[string]string{
	SectionFiltering:  "filter",
	SectionTimeDomain: "time",
	SectionEpochs:     "epochs",
	SectionPSD:        "psd",
	SectionEvoked:     "evoked",
	SectionTopomap:    "topomap",
	SectionTables:     "tables",
	SectionModels:     "models",
	SectionTraining:   "training",
	SectionPrediction: "prediction",
}

// RequiredSections returns the ordered section list for the action.
//
// Unknown actions yield an empty list: no configuration surface. The returned
// slice is a copy the caller may keep.
func RequiredSections(action string) []string {
	return append([]string(nil), actionSections[action]...)
}

// DefaultSection returns the first required section for the action, the
// active tab whenever the action is (re)selected.
func DefaultSection(action string) (string, bool) {
	sections := actionSections[action]
	if len(sections) == 0 {
		return "", false
	}
	return sections[0], true
}

// KnownAction reports whether the action exists in the dependency table.
func KnownAction(action string) bool {
	_, ok := actionSections[action]
	return ok
}

// Actions returns all known action names, sorted for stable display.
func Actions() []string {
	out := make([]string, 0, len(actionSections))
	for name := range actionSections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SectionEndpoint translates a section display name to its backend endpoint name.
func SectionEndpoint(section string) (string, error) {
	ep, ok := sectionEndpoints[section]
	if !ok {
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownSection, section)
	}
	return ep, nil
}

// SectionName translates a backend endpoint name back to its display name.
func SectionName(endpoint string) (string, error) {
	for name, ep := range sectionEndpoints {
		if ep == endpoint {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnknownSection, endpoint)
}

// SectionEndpoints returns all endpoint names, sorted.
func SectionEndpoints() []string {
	out := make([]string, 0, len(sectionEndpoints))
	for _, ep := range sectionEndpoints {
		out = append(out, ep)
	}
	sort.Strings(out)
	return out
}
