// Package tasks implements remote pipeline action execution.
//
// The core abstraction is [PipelineEngine], which triggers training,
// prediction, and plot rendering jobs on the backend once their sections are
// configured, and fetches participant metadata. Long-running operations emit
// [ProgressUpdate] values over channels for non-blocking status reporting to
// the CLI/TUI layers. [PipelineEngine.RenderCohort] fans plot rendering out
// over many subjects with a worker pool and a rate limiter.
package tasks
