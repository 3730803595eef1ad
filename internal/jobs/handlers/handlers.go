package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/services"
)

// Services bundles everything the job handlers delegate to.
type Services struct {
	ChatReply  services.ChatReplyService
	Items      services.ItemNotifier
	Tasks      services.TaskNotifier
	HelpWanted services.HelpWantedNotifier
	NeedReply  services.NeedReplyNotifier
	Login      services.LoginNotifier
	Suggest    services.SuggestionService
	Reminders  services.ReminderService
}

type handler struct {
	kind string
	run  func(ctx context.Context, payload []byte) error
}

func (h handler) Kind() string { return h.kind }
func (h handler) Run(ctx context.Context, payload []byte) error { return h.run(ctx, payload) }

func decode[T any](kind string, raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return v, nil
}

// RegisterAll binds every job kind to its service. Each run gets a fresh
// database context; repositories fall back to the base connection.
func RegisterAll(reg *jobs.Registry, s Services) error {
	all := []jobs.Handler{
		handler{jobs.KindChatAiReply, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.ChatAiReplyPayload](jobs.KindChatAiReply, raw)
			if err != nil {
				return err
			}
			return s.ChatReply.SendAiChatReply(dbctx.New(ctx), p)
		}},
		handler{jobs.KindItemCreated, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.ItemEventPayload](jobs.KindItemCreated, raw)
			if err != nil {
				return err
			}
			return s.Items.NotifyItemCreated(dbctx.New(ctx), p.ItemID)
		}},
		handler{jobs.KindItemUpdated, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.ItemEventPayload](jobs.KindItemUpdated, raw)
			if err != nil {
				return err
			}
			return s.Items.NotifyItemUpdated(dbctx.New(ctx), p.ItemID)
		}},
		handler{jobs.KindTaskCreated, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.TaskEventPayload](jobs.KindTaskCreated, raw)
			if err != nil {
				return err
			}
			return s.Tasks.NotifyTaskCreated(dbctx.New(ctx), p.TaskID)
		}},
		handler{jobs.KindTaskUpdated, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.TaskEventPayload](jobs.KindTaskUpdated, raw)
			if err != nil {
				return err
			}
			return s.Tasks.NotifyTaskUpdated(dbctx.New(ctx), p.TaskID)
		}},
		handler{jobs.KindCommentHelpWanted, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.CommentEventPayload](jobs.KindCommentHelpWanted, raw)
			if err != nil {
				return err
			}
			return s.HelpWanted.SendHelpWantedNotification(dbctx.New(ctx), p.CommentID)
		}},
		handler{jobs.KindCommentNeedReply, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.CommentEventPayload](jobs.KindCommentNeedReply, raw)
			if err != nil {
				return err
			}
			return s.NeedReply.SendNeedReplyNotification(dbctx.New(ctx), p.CommentID)
		}},
		handler{jobs.KindReminderSchedule, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.CommentEventPayload](jobs.KindReminderSchedule, raw)
			if err != nil {
				return err
			}
			return s.Reminders.ScheduleReminder(dbctx.New(ctx), p.CommentID)
		}},
		handler{jobs.KindReminderFire, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.ReminderFirePayload](jobs.KindReminderFire, raw)
			if err != nil {
				return err
			}
			return s.Reminders.FireReminder(dbctx.New(ctx), p)
		}},
		handler{jobs.KindLoginWelcome, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.LoginWelcomePayload](jobs.KindLoginWelcome, raw)
			if err != nil {
				return err
			}
			return s.Login.SendLoginWelcome(dbctx.New(ctx), p)
		}},
		handler{jobs.KindTaskSuggestAssignee, func(ctx context.Context, raw []byte) error {
			p, err := decode[jobs.TaskSuggestAssigneePayload](jobs.KindTaskSuggestAssignee, raw)
			if err != nil {
				return err
			}
			return s.Suggest.SuggestSimilarTaskAssignee(dbctx.New(ctx), p.TaskID)
		}},
	}

	for _, h := range all {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}
