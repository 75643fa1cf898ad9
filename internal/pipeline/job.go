package pipeline

import (
	"context"

	"github.com/Belphemur/ShowCleaner/internal/models"
)

// Job runs the pipeline with fixed options, for use with the scheduler.
type Job struct {
	Options Options
	// OnComplete, when set, receives the outcome of every run.
	OnComplete func(result *models.RunResult, err error)
}

// Name identifies the job in scheduler logs.
func (j *Job) Name() string {
	return "clean-dataset"
}

// Run executes one cleaning run.
func (j *Job) Run(ctx context.Context) error {
	result, err := Run(ctx, j.Options)
	if j.OnComplete != nil {
		j.OnComplete(result, err)
	}
	return err
}
