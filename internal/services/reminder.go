package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/platform/openai"
)

// reminderFireHour is the local wall-clock hour reminders fire at.
const reminderFireHour = 8

// ReminderService turns a reminder-type task comment into a one-shot
// deferred DM. Scheduling extracts a calendar date from the comment text via
// AI; the fire handler trusts the date decided at scheduling time.
type ReminderService interface {
	ScheduleReminder(dbc dbctx.Context, commentID uuid.UUID) error
	FireReminder(dbc dbctx.Context, p jobs.ReminderFirePayload) error
}

type reminderService struct {
	log        *logger.Logger
	comments   repos.TaskCommentRepo
	tasks      repos.WorkspaceTaskRepo
	items      repos.WorkspaceItemRepo
	workspaces repos.WorkspaceRepo
	bots       BotService
	resolver   RoomResolver
	aiClients  AIClients
	scheduler  jobs.Scheduler
	dispatcher Dispatcher

	// loc is the fixed scheduling timezone, injected so tests can use
	// alternate zones.
	loc *time.Location
	now func() time.Time
}

func NewReminderService(
	log *logger.Logger,
	comments repos.TaskCommentRepo,
	tasks repos.WorkspaceTaskRepo,
	items repos.WorkspaceItemRepo,
	workspaces repos.WorkspaceRepo,
	bots BotService,
	resolver RoomResolver,
	aiClients AIClients,
	scheduler jobs.Scheduler,
	dispatcher Dispatcher,
	loc *time.Location,
) ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &reminderService{
		log:        log.With("service", "ReminderService"),
		comments:   comments,
		tasks:      tasks,
		items:      items,
		workspaces: workspaces,
		bots:       bots,
		resolver:   resolver,
		aiClients:  aiClients,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *reminderService) ScheduleReminder(dbc dbctx.Context, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(dbc, commentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.Kind != domain.CommentKindReminder {
		return nil
	}

	task, err := s.tasks.GetByID(dbc, comment.TaskID)
	if err != nil {
		return err
	}
	if task == nil {
		s.log.Warn("task not found; skipping reminder", "task_id", comment.TaskID)
		return nil
	}

	ws, err := s.workspaces.GetByID(dbc, task.WorkspaceID)
	if err != nil {
		return err
	}
	if ws == nil {
		s.log.Warn("workspace not found; skipping reminder", "workspace_id", task.WorkspaceID)
		return nil
	}

	// Reminders have no manual date field; without AI there is nothing to
	// extract.
	ai, err := s.aiClients.ForOrg(dbc, ws.OrgID)
	if err != nil {
		return err
	}
	if ai == nil {
		return nil
	}

	extracted, err := extractReminderDate(dbc, ai, comment.Content)
	if err != nil {
		s.log.Warn("reminder date extraction failed; skipping", "comment_id", comment.ID, "error", err)
		return nil
	}

	fireAt, ok := resolveReminderFireTime(extracted, s.now(), s.loc)
	if !ok {
		s.log.Info("no schedulable reminder date", "comment_id", comment.ID)
		return nil
	}

	job, err := jobs.NewJob(jobs.KindReminderFire, jobs.ReminderFirePayload{
		CommentID: comment.ID,
		Month:     int(fireAt.In(s.loc).Month()),
		Day:       fireAt.In(s.loc).Day(),
	})
	if err != nil {
		return err
	}
	if err := s.scheduler.ScheduleAt(dbc.Ctx, job, fireAt.UTC()); err != nil {
		return err
	}

	s.log.Info("reminder scheduled", "comment_id", comment.ID, "fire_at", fireAt.UTC())
	return nil
}

func (s *reminderService) FireReminder(dbc dbctx.Context, p jobs.ReminderFirePayload) error {
	comment, err := s.comments.GetByID(dbc, p.CommentID)
	if err != nil {
		return err
	}
	if comment == nil {
		s.log.Warn("comment not found; skipping reminder fire", "comment_id", p.CommentID)
		return nil
	}

	task, err := s.tasks.GetByID(dbc, comment.TaskID)
	if err != nil {
		return err
	}
	if task == nil || task.AssignedUserID == nil {
		s.log.Warn("task missing or unassigned; skipping reminder fire", "task_id", comment.TaskID)
		return nil
	}

	item, err := s.items.GetByID(dbc, task.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		s.log.Warn("item not found; skipping reminder fire", "item_id", task.ItemID)
		return nil
	}

	ws, err := s.workspaces.GetByID(dbc, task.WorkspaceID)
	if err != nil {
		return err
	}
	if ws == nil {
		s.log.Warn("workspace not found; skipping reminder fire", "workspace_id", task.WorkspaceID)
		return nil
	}

	bot, err := s.bots.GetBot(dbc, ws.OrgID, domain.BotKindSystem)
	if err != nil {
		return err
	}
	if bot == nil {
		s.log.Warn("system bot not found; skipping reminder fire", "org_id", ws.OrgID)
		return nil
	}

	room, err := s.resolver.GetOrCreateDmRoom(dbc, ws.OrgID, *task.AssignedUserID, bot)
	if err != nil {
		return err
	}
	if room == nil {
		return nil
	}

	content := fmt.Sprintf("Reminder for %d/%d: task %q on item %s.", p.Month, p.Day, task.Title, item.Code)
	_, err = s.dispatcher.SendBotMessage(dbc, room, bot, content, nil)
	return err
}

// reminderDate is the AI extraction result. Relative expressions
// ("tomorrow") yield nil fields; the model is told not to do relative-date
// math.
type reminderDate struct {
	Year  *int
	Month *int
	Day   *int
}

const reminderExtractionPrompt = "You extract an explicit calendar date from a reminder note. " +
	"Return year, month and day as integers when the note states them literally. " +
	"Use null for every part the note does not state explicitly. " +
	"Never compute dates from relative expressions such as \"tomorrow\" or \"next week\"; return nulls for those."

func extractReminderDate(dbc dbctx.Context, ai openai.Client, content string) (reminderDate, error) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"year":  map[string]any{"type": []string{"integer", "null"}},
			"month": map[string]any{"type": []string{"integer", "null"}},
			"day":   map[string]any{"type": []string{"integer", "null"}},
		},
		"required":             []string{"year", "month", "day"},
		"additionalProperties": false,
	}

	out, err := ai.GenerateJSON(dbc.Ctx, reminderExtractionPrompt, content, "reminder_date", schema)
	if err != nil {
		return reminderDate{}, err
	}
	return reminderDate{
		Year:  optionalInt(out["year"]),
		Month: optionalInt(out["month"]),
		Day:   optionalInt(out["day"]),
	}, nil
}

func optionalInt(v any) *int {
	switch val := v.(type) {
	case float64:
		i := int(val)
		return &i
	case int:
		return &val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			out := int(i)
			return &out
		}
	}
	return nil
}

// resolveReminderFireTime turns an extracted date into the absolute fire
// time (08:00 in loc). Rules: month/day required; a missing year assumes the
// current year and rolls forward to next year when the candidate is
// today-or-earlier; invalid calendar dates and non-future dates are
// rejected.
func resolveReminderFireTime(d reminderDate, now time.Time, loc *time.Location) (time.Time, bool) {
	if d.Month == nil || d.Day == nil {
		return time.Time{}, false
	}

	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)

	build := func(year int) (time.Time, bool) {
		candidate := time.Date(year, time.Month(*d.Month), *d.Day, 0, 0, 0, 0, loc)
		if candidate.Year() != year || int(candidate.Month()) != *d.Month || candidate.Day() != *d.Day {
			return time.Time{}, false
		}
		return candidate, true
	}

	var date time.Time
	if d.Year != nil {
		candidate, ok := build(*d.Year)
		if !ok {
			return time.Time{}, false
		}
		date = candidate
	} else {
		candidate, ok := build(today.Year())
		if !ok || !candidate.After(today) {
			// Feb 29 may only exist next year; roll forward either way.
			next, okNext := build(today.Year() + 1)
			if !okNext {
				return time.Time{}, false
			}
			candidate = next
		}
		date = candidate
	}

	if !date.After(today) {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), reminderFireHour, 0, 0, 0, loc), true
}
