package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// TaskNotifier posts task lifecycle notifications into the workspace's
// group room as the system bot.
type TaskNotifier interface {
	NotifyTaskCreated(dbc dbctx.Context, taskID uuid.UUID) error
	NotifyTaskUpdated(dbc dbctx.Context, taskID uuid.UUID) error
}

type taskNotifier struct {
	log        *logger.Logger
	tasks      repos.WorkspaceTaskRepo
	items      repos.WorkspaceItemRepo
	users      repos.UserRepo
	rooms      repos.ChatRoomRepo
	bots       BotService
	membership MembershipService
	dispatcher Dispatcher
}

func NewTaskNotifier(
	log *logger.Logger,
	tasks repos.WorkspaceTaskRepo,
	items repos.WorkspaceItemRepo,
	users repos.UserRepo,
	rooms repos.ChatRoomRepo,
	bots BotService,
	membership MembershipService,
	dispatcher Dispatcher,
) TaskNotifier {
	return &taskNotifier{
		log:        log.With("service", "TaskNotifier"),
		tasks:      tasks,
		items:      items,
		users:      users,
		rooms:      rooms,
		bots:       bots,
		membership: membership,
		dispatcher: dispatcher,
	}
}

func (s *taskNotifier) NotifyTaskCreated(dbc dbctx.Context, taskID uuid.UUID) error {
	return s.notify(dbc, taskID, "created")
}

func (s *taskNotifier) NotifyTaskUpdated(dbc dbctx.Context, taskID uuid.UUID) error {
	return s.notify(dbc, taskID, "updated")
}

func (s *taskNotifier) notify(dbc dbctx.Context, taskID uuid.UUID, verb string) error {
	task, err := s.tasks.GetByID(dbc, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		s.log.Warn("task not found; skipping notification", "task_id", taskID)
		return nil
	}

	item, err := s.items.GetByID(dbc, task.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		s.log.Warn("item not found; skipping notification", "item_id", task.ItemID)
		return nil
	}

	room, err := s.rooms.GetGroupRoomByWorkspace(dbc, task.WorkspaceID)
	if err != nil {
		return err
	}
	if room == nil {
		s.log.Warn("workspace has no group room; skipping notification", "workspace_id", task.WorkspaceID)
		return nil
	}

	bot, err := s.bots.GetBot(dbc, room.OrgID, domain.BotKindSystem)
	if err != nil {
		return err
	}
	if bot == nil {
		s.log.Warn("system bot not found; skipping notification", "org_id", room.OrgID)
		return nil
	}

	if err := s.membership.EnsureMember(dbc, room.ID, *bot.ActorID); err != nil {
		return err
	}

	actor := displayName(dbc, s.users, task.LastActedUserID)
	content := fmt.Sprintf("%s %s task %q on item %s", actor, verb, task.Title, item.Code)

	_, err = s.dispatcher.SendBotMessage(dbc, room, bot, content, nil)
	return err
}
