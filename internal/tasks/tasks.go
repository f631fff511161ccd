package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/haldane/eegx/internal/services"
	"github.com/haldane/eegx/internal/shared"
)

// PipelineEngine triggers remote pipeline jobs and fetches participant metadata.
type PipelineEngine struct {
	api    *services.APIClient
	store  *services.SessionStore
	logger *log.Logger
}

// NewPipelineEngine creates an engine bound to one backend and session.
func NewPipelineEngine(api *services.APIClient, store *services.SessionStore, logger *log.Logger) *PipelineEngine {
	return &PipelineEngine{api: api, store: store, logger: logger}
}

// TrainRequest describes a training job.
type TrainRequest struct {
	ModelName   string `json:"model_name"`
	DatasetName string `json:"dataset_name"`
	Epochs      int    `json:"epochs"`
	KFolds      int    `json:"kfolds"`
}

// TrainResult carries the backend's acknowledgement of a started training job.
type TrainResult struct {
	Message string `json:"message"`
}

// Train starts a training job on the backend.
func (e *PipelineEngine) Train(ctx context.Context, prog chan<- ProgressUpdate, req TrainRequest) (*TrainResult, error) {
	if req.ModelName == "" || req.DatasetName == "" {
		return nil, fmt.Errorf("%w: model and dataset are required", shared.ErrMissingArgument)
	}

	e.sendProgress(prog, trainStartedUpdate(req.ModelName, req.DatasetName))
	e.logger.Info("starting training job", "model", req.ModelName, "dataset", req.DatasetName)

	resp, err := e.api.Post(ctx, "/train", req)
	if err != nil {
		return nil, fmt.Errorf("%w: train: %v", shared.ErrRemoteUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("train returned %d: %s", resp.StatusCode, resp.Body)
	}

	var result TrainResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode train response: %w", err)
	}
	return &result, nil
}

// PredictRequest describes a prediction job.
type PredictRequest struct {
	ModelName   string `json:"model_name"`
	DatasetName string `json:"dataset_name"`
}

// PredictResult carries the backend's prediction output.
type PredictResult struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Predict runs a prediction job on the backend.
func (e *PipelineEngine) Predict(ctx context.Context, prog chan<- ProgressUpdate, req PredictRequest) (*PredictResult, error) {
	if req.ModelName == "" {
		return nil, fmt.Errorf("%w: model is required", shared.ErrMissingArgument)
	}

	e.sendProgress(prog, predictStartedUpdate(req.ModelName))
	e.logger.Info("starting prediction", "model", req.ModelName)

	resp, err := e.api.Post(ctx, "/predict", req)
	if err != nil {
		return nil, fmt.Errorf("%w: predict: %v", shared.ErrRemoteUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("predict returned %d: %s", resp.StatusCode, resp.Body)
	}

	var result PredictResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode predict response: %w", err)
	}
	return &result, nil
}

// FetchPlot renders one plot view server-side and returns the PNG bytes.
//
// The backend renders against the current session document, so the session is
// created on demand when none is cached yet.
func (e *PipelineEngine) FetchPlot(ctx context.Context, view, subject string) ([]byte, error) {
	sid, err := e.store.ID(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{"view": {view}}
	if subject != "" {
		query.Set("subject", subject)
	}

	resp, err := e.api.Get(ctx, "/plot/"+sid+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: plot %s: %v", shared.ErrRemoteUnavailable, view, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("plot %s returned %d", view, resp.StatusCode)
	}

	return resp.Body, nil
}

// Subjects lists the participant ids known to the backend.
func (e *PipelineEngine) Subjects(ctx context.Context) ([]string, error) {
	resp, err := e.api.Get(ctx, "/participants/")
	if err != nil {
		return nil, fmt.Errorf("%w: participants: %v", shared.ErrRemoteUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("participants returned %d", resp.StatusCode)
	}

	var body struct {
		Subjects []string `json:"subjects"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode participants response: %w", err)
	}
	return body.Subjects, nil
}

// SubjectTasks lists the recorded task names for one subject.
func (e *PipelineEngine) SubjectTasks(ctx context.Context, subject string) ([]string, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject id", shared.ErrMissingArgument)
	}

	resp, err := e.api.Get(ctx, "/participants/"+subject+"/tasks")
	if err != nil {
		return nil, fmt.Errorf("%w: subject tasks: %v", shared.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode == 404 {
		return nil, fmt.Errorf("%w: %s", shared.ErrSubjectNotFound, subject)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("subject tasks returned %d", resp.StatusCode)
	}

	var body struct {
		Subject string   `json:"subject"`
		Tasks   []string `json:"tasks"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode tasks response: %w", err)
	}
	return body.Tasks, nil
}

// sendProgress delivers an update without blocking when nobody is listening.
func (e *PipelineEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
