package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Job kinds dispatched through the scheduler. Each kind maps to exactly one
// registered Handler.
const (
	KindChatAiReply         = "chat.ai_reply"
	KindItemCreated         = "item.created"
	KindItemUpdated         = "item.updated"
	KindTaskCreated         = "task.created"
	KindTaskUpdated         = "task.updated"
	KindCommentHelpWanted   = "comment.help_wanted"
	KindCommentNeedReply    = "comment.need_reply"
	KindReminderSchedule    = "reminder.schedule"
	KindReminderFire        = "reminder.fire"
	KindLoginWelcome        = "login.welcome"
	KindTaskSuggestAssignee = "task.suggest_assignee"
)

// Job is the durable unit of work handed to the scheduler.
type Job struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// NewJob marshals payload into a Job envelope.
func NewJob(kind string, payload any) (Job, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return Job{}, fmt.Errorf("job kind required")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return Job{Kind: kind, Payload: raw}, nil
}

// Scheduler enqueues jobs for durable asynchronous execution.
type Scheduler interface {
	// EnqueueNow runs the job as soon as a worker picks it up.
	EnqueueNow(ctx context.Context, job Job) error
	// ScheduleAt runs the job no earlier than the given time.
	ScheduleAt(ctx context.Context, job Job, at time.Time) error
}
