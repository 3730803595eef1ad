package jobflow

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

const (
	WorkflowName = "notification_job"
	ActivityRun  = "notification_job_run"
)

// Workflow executes one notification job as a single activity. Retries are
// handled by the activity retry policy; a job either completes or fails the
// whole unit of work.
func Workflow(ctx workflow.Context, job jobs.Job) error {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})
	return workflow.ExecuteActivity(ctx, ActivityRun, job).Get(ctx, nil)
}

type Activities struct {
	Log      *logger.Logger
	Registry *jobs.Registry
}

func (a *Activities) Run(ctx context.Context, job jobs.Job) error {
	if a.Log != nil {
		a.Log.Debug("running notification job", "job_kind", job.Kind)
	}
	return a.Registry.Dispatch(ctx, job)
}
