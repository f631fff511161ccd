package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CohortOpts contains configuration for cohort-wide plot rendering.
type CohortOpts struct {
	View       string  // Plot view to render (e.g. "sensor_layout")
	OutputDir  string  // Base output directory (default: eegx_plots_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Requests per second (default: 4)
}

// SubjectPlotResult is the outcome of rendering one subject's plot.
type SubjectPlotResult struct {
	Subject string
	Path    string
	Success bool
	Error   error
}

// CohortResult summarizes a cohort rendering run.
type CohortResult struct {
	TotalSubjects   int
	SuccessCount    int
	FailedCount     int
	OutputDirectory string
	Results         []SubjectPlotResult
}

type cohortJob struct {
	index   int
	subject string
}

// RenderCohort renders one plot view for every subject, writing PNGs to disk.
//
// A worker pool drains the subject list while a shared rate limiter keeps the
// request rate below the backend's comfort level. Per-subject failures are
// collected, not fatal.
func (e *PipelineEngine) RenderCohort(ctx context.Context, prog chan<- ProgressUpdate, subjects []string, opts CohortOpts) (*CohortResult, error) {
	if opts.View == "" {
		return nil, fmt.Errorf("plot view is required")
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("eegx_plots_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan cohortJob, len(subjects))
	results := make(chan SubjectPlotResult, len(subjects))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- e.renderSubject(ctx, prog, limiter, job, len(subjects), opts)
			}
		}()
	}

	for i, subject := range subjects {
		jobs <- cohortJob{index: i, subject: subject}
	}
	close(jobs)

	wg.Wait()
	close(results)

	result := &CohortResult{
		TotalSubjects:   len(subjects),
		OutputDirectory: opts.OutputDir,
		Results:         make([]SubjectPlotResult, 0, len(subjects)),
	}
	for r := range results {
		result.Results = append(result.Results, r)
		if r.Success {
			result.SuccessCount++
		} else {
			result.FailedCount++
		}
	}

	e.logger.Info("cohort render finished",
		"total", result.TotalSubjects,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"dir", result.OutputDirectory)

	return result, nil
}

// renderSubject fetches and writes one subject's plot.
func (e *PipelineEngine) renderSubject(ctx context.Context, prog chan<- ProgressUpdate, limiter *rate.Limiter, job cohortJob, total int, opts CohortOpts) SubjectPlotResult {
	step := job.index + 1

	if err := limiter.Wait(ctx); err != nil {
		return SubjectPlotResult{Subject: job.subject, Error: err}
	}

	e.sendProgress(prog, renderPlotUpdate(step, total, job.subject, opts.View))

	png, err := e.FetchPlot(ctx, opts.View, job.subject)
	if err != nil {
		e.sendProgress(prog, plotFailedUpdate(step, total, job.subject, err))
		return SubjectPlotResult{Subject: job.subject, Error: err}
	}

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_%s.png", job.subject, opts.View))
	if err := os.WriteFile(path, png, 0644); err != nil {
		e.sendProgress(prog, plotFailedUpdate(step, total, job.subject, err))
		return SubjectPlotResult{Subject: job.subject, Error: fmt.Errorf("failed to write plot: %w", err)}
	}

	e.sendProgress(prog, plotWrittenUpdate(step, total, path))
	return SubjectPlotResult{Subject: job.subject, Path: path, Success: true}
}
