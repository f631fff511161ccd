package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSubjects Phase = iota
	FetchTasks
	TrainModel
	RunPrediction
	RenderPlot
	WriteOutput
)

func (p Phase) String() string {
	switch p {
	case FetchSubjects:
		return "fetch_subjects"
	case FetchTasks:
		return "fetch_tasks"
	case TrainModel:
		return "train_model"
	case RunPrediction:
		return "run_prediction"
	case RenderPlot:
		return "render_plot"
	case WriteOutput:
		return "write_output"
	default:
		return ""
	}
}

func trainStartedUpdate(model, dataset string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrainModel,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Training %s on %s...", model, dataset),
	}
}

func predictStartedUpdate(model string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunPrediction,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Running prediction with %s...", model),
	}
}

func renderPlotUpdate(step, total int, subject, view string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenderPlot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Rendering %s for %s...", step, total, view, subject),
	}
}

func plotWrittenUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteOutput,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, path),
	}
}

func plotFailedUpdate(step, total int, subject string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenderPlot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, subject, err),
	}
}
