package temporalworker

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/temporalx"
	"github.com/crewdesk/crewdesk-backend/internal/temporalx/jobflow"
	"github.com/crewdesk/crewdesk-backend/internal/utils"
)

// Runner hosts the Temporal worker polling the notification task queue.
type Runner struct {
	log      *logger.Logger
	tc       temporalsdkclient.Client
	registry *jobs.Registry
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, registry *jobs.Registry) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if registry == nil {
		return nil, fmt.Errorf("job registry required")
	}
	return &Runner{log: log, tc: tc, registry: registry}, nil
}

func (r *Runner) Start(ctx context.Context) error {
	cfg := temporalx.LoadConfig()
	r.log.Info("Starting Temporal worker", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)

	maxWait := durationSecondsFromEnv("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)
	backoff := 250 * time.Millisecond
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		w := r.newWorker(cfg)
		startErr := w.Start()
		if startErr == nil {
			if ctx != nil {
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
			}
			r.log.Info("Temporal worker started", "task_queue", cfg.TaskQueue, "attempts", attempt)
			return nil
		}
		w.Stop()

		if maxWait <= 0 || time.Now().After(deadline) {
			return startErr
		}
		r.log.Warn("Temporal worker failed to start; retrying", "task_queue", cfg.TaskQueue, "attempt", attempt, "error", startErr)

		time.Sleep(backoff)
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
}

func (r *Runner) newWorker(cfg temporalx.Config) worker.Worker {
	concurrency := utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, r.log)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	acts := &jobflow.Activities{Log: r.log, Registry: r.registry}
	w.RegisterWorkflowWithOptions(jobflow.Workflow, workflow.RegisterOptions{Name: jobflow.WorkflowName})
	w.RegisterActivityWithOptions(acts.Run, activity.RegisterOptions{Name: jobflow.ActivityRun})
	return w
}

func durationSecondsFromEnv(key string, defSeconds int) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return time.Duration(defSeconds) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return time.Duration(defSeconds) * time.Second
	}
	return time.Duration(n) * time.Second
}
