package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// NeedReplyNotifier DMs the people who owe a reply on a task comment.
type NeedReplyNotifier interface {
	SendNeedReplyNotification(dbc dbctx.Context, commentID uuid.UUID) error
}

type needReplyNotifier struct {
	log        *logger.Logger
	comments   repos.TaskCommentRepo
	tasks      repos.WorkspaceTaskRepo
	items      repos.WorkspaceItemRepo
	workspaces repos.WorkspaceRepo
	users      repos.UserRepo
	bots       BotService
	resolver   RoomResolver
	dispatcher Dispatcher
}

func NewNeedReplyNotifier(
	log *logger.Logger,
	comments repos.TaskCommentRepo,
	tasks repos.WorkspaceTaskRepo,
	items repos.WorkspaceItemRepo,
	workspaces repos.WorkspaceRepo,
	users repos.UserRepo,
	bots BotService,
	resolver RoomResolver,
	dispatcher Dispatcher,
) NeedReplyNotifier {
	return &needReplyNotifier{
		log:        log.With("service", "NeedReplyNotifier"),
		comments:   comments,
		tasks:      tasks,
		items:      items,
		workspaces: workspaces,
		users:      users,
		bots:       bots,
		resolver:   resolver,
		dispatcher: dispatcher,
	}
}

// needReplyRecipients reproduces the recipient rule: when the commenter is
// the task's assignee, the item's owner, assignee and committer get the DM
// (deduplicated, commenter excluded); otherwise only the task's assignee
// does.
func needReplyRecipients(comment *domain.TaskComment, task *domain.WorkspaceTask, item *domain.WorkspaceItem) []uuid.UUID {
	commenterIsAssignee := task.AssignedUserID != nil && *task.AssignedUserID == comment.UserID

	var out []uuid.UUID
	seen := map[uuid.UUID]bool{comment.UserID: true}
	add := func(id *uuid.UUID) {
		if id == nil || seen[*id] {
			return
		}
		seen[*id] = true
		out = append(out, *id)
	}

	if commenterIsAssignee {
		add(item.OwnerUserID)
		add(item.AssigneeUserID)
		add(item.CommitterUserID)
	} else {
		add(task.AssignedUserID)
	}
	return out
}

func (s *needReplyNotifier) SendNeedReplyNotification(dbc dbctx.Context, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(dbc, commentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.Kind != domain.CommentKindNeedReply {
		return nil
	}

	task, err := s.tasks.GetByID(dbc, comment.TaskID)
	if err != nil {
		return err
	}
	if task == nil {
		s.log.Warn("task not found; skipping need-reply notification", "task_id", comment.TaskID)
		return nil
	}

	item, err := s.items.GetByID(dbc, task.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		s.log.Warn("item not found; skipping need-reply notification", "item_id", task.ItemID)
		return nil
	}

	recipients := needReplyRecipients(comment, task, item)
	if len(recipients) == 0 {
		return nil
	}

	ws, err := s.workspaces.GetByID(dbc, task.WorkspaceID)
	if err != nil {
		return err
	}
	if ws == nil {
		s.log.Warn("workspace not found; skipping need-reply notification", "workspace_id", task.WorkspaceID)
		return nil
	}

	bot, err := s.bots.GetBot(dbc, ws.OrgID, domain.BotKindSystem)
	if err != nil {
		return err
	}
	if bot == nil {
		s.log.Warn("system bot not found; skipping need-reply notification", "org_id", ws.OrgID)
		return nil
	}

	commenter := displayName(dbc, s.users, &comment.UserID)
	content := fmt.Sprintf("%s needs your reply on task %q (item %s): %s",
		commenter, task.Title, item.Code, truncateRunes(comment.Content, 200))

	for _, userID := range recipients {
		room, err := s.resolver.GetOrCreateDmRoom(dbc, ws.OrgID, userID, bot)
		if err != nil {
			return err
		}
		if room == nil {
			continue
		}
		if _, err := s.dispatcher.SendBotMessage(dbc, room, bot, content, nil); err != nil {
			return err
		}
	}
	return nil
}
