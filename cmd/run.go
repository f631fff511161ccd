package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/haldane/eegx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RunTrain starts a training job on the backend and prints its acknowledgement.
func (r *Runner) RunTrain(ctx context.Context, cmd *cli.Command) error {
	req := tasks.TrainRequest{
		ModelName:   cmd.String("model"),
		DatasetName: cmd.String("dataset"),
		Epochs:      cmd.Int("epochs"),
		KFolds:      cmd.Int("kfolds"),
	}

	prog, done := r.printProgress()
	result, err := r.engine.Train(ctx, prog, req)
	close(prog)
	<-done
	if err != nil {
		return err
	}

	return r.writePlainln("✓ %s", result.Message)
}

// RunPredict runs a prediction job and prints the backend's output.
func (r *Runner) RunPredict(ctx context.Context, cmd *cli.Command) error {
	req := tasks.PredictRequest{
		ModelName:   cmd.String("model"),
		DatasetName: cmd.String("dataset"),
	}

	prog, done := r.printProgress()
	result, err := r.engine.Predict(ctx, prog, req)
	close(prog)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainln("✓ %s", result.Message)
	if result.Data != nil {
		return r.writeJSON(result.Data, true)
	}
	return nil
}

// RunPlot renders one plot view server-side and writes the PNG to disk.
func (r *Runner) RunPlot(ctx context.Context, cmd *cli.Command) error {
	view := cmd.String("view")
	subject := cmd.String("subject")
	output := cmd.String("output")

	if output == "" {
		output = view + ".png"
	}

	png, err := r.engine.FetchPlot(ctx, view, subject)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, png, 0644); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}

	r.logger.Info("plot written", "view", view, "path", output, "bytes", len(png))
	return r.writePlainln("✓ %s", output)
}

// RunCohort renders one plot view for every participant.
func (r *Runner) RunCohort(ctx context.Context, cmd *cli.Command) error {
	subjects, err := r.engine.Subjects(ctx)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		return r.writePlainln("No participants found")
	}

	opts := tasks.CohortOpts{
		View:       cmd.String("view"),
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	r.writePlainHeader(fmt.Sprintf("Rendering %s for %d subjects", opts.View, len(subjects)))

	prog, done := r.printProgress()
	result, err := r.engine.RenderCohort(ctx, prog, subjects, opts)
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("✓ %d/%d plots written to %s", result.SuccessCount, result.TotalSubjects, result.OutputDirectory)
	if result.FailedCount > 0 {
		r.writePlain("Failed subjects:\n")
		for _, sr := range result.Results {
			if !sr.Success {
				r.writePlain("  • %s: %v\n", sr.Subject, sr.Error)
			}
		}
	}
	return nil
}

// printProgress drains progress updates to the output writer until the
// returned channel is closed.
func (r *Runner) printProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	var once sync.Once
	go func() {
		defer once.Do(func() { close(done) })
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	return prog, done
}
