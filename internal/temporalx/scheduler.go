package temporalx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/temporalx/jobflow"
)

type scheduler struct {
	log       *logger.Logger
	tc        temporalsdkclient.Client
	taskQueue string
}

// NewScheduler implements jobs.Scheduler on top of Temporal workflows.
// Deferred jobs use a workflow start delay, so a scheduled reminder survives
// process restarts.
func NewScheduler(log *logger.Logger, tc temporalsdkclient.Client) (jobs.Scheduler, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client required")
	}
	cfg := LoadConfig()
	return &scheduler{
		log:       log.With("service", "TemporalScheduler"),
		tc:        tc,
		taskQueue: cfg.TaskQueue,
	}, nil
}

func (s *scheduler) EnqueueNow(ctx context.Context, job jobs.Job) error {
	return s.start(ctx, job, 0)
}

func (s *scheduler) ScheduleAt(ctx context.Context, job jobs.Job, at time.Time) error {
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	return s.start(ctx, job, delay)
}

func (s *scheduler) start(ctx context.Context, job jobs.Job, delay time.Duration) error {
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:         fmt.Sprintf("%s-%s", job.Kind, uuid.NewString()),
		TaskQueue:  s.taskQueue,
		StartDelay: delay,
	}
	_, err := s.tc.ExecuteWorkflow(ctx, opts, jobflow.WorkflowName, job)
	if err != nil {
		return fmt.Errorf("start workflow for %s: %w", job.Kind, err)
	}
	s.log.Debug("job enqueued", "job_kind", job.Kind, "delay", delay.String())
	return nil
}
