package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

const helpWantedMaxRunes = 100

// HelpWantedNotifier broadcasts a help-wanted task comment into the
// workspace's group room as the system bot.
type HelpWantedNotifier interface {
	SendHelpWantedNotification(dbc dbctx.Context, commentID uuid.UUID) error
}

type helpWantedNotifier struct {
	log        *logger.Logger
	comments   repos.TaskCommentRepo
	tasks      repos.WorkspaceTaskRepo
	users      repos.UserRepo
	rooms      repos.ChatRoomRepo
	bots       BotService
	membership MembershipService
	aiClients  AIClients
	dispatcher Dispatcher
}

func NewHelpWantedNotifier(
	log *logger.Logger,
	comments repos.TaskCommentRepo,
	tasks repos.WorkspaceTaskRepo,
	users repos.UserRepo,
	rooms repos.ChatRoomRepo,
	bots BotService,
	membership MembershipService,
	aiClients AIClients,
	dispatcher Dispatcher,
) HelpWantedNotifier {
	return &helpWantedNotifier{
		log:        log.With("service", "HelpWantedNotifier"),
		comments:   comments,
		tasks:      tasks,
		users:      users,
		rooms:      rooms,
		bots:       bots,
		membership: membership,
		aiClients:  aiClients,
		dispatcher: dispatcher,
	}
}

func (s *helpWantedNotifier) SendHelpWantedNotification(dbc dbctx.Context, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(dbc, commentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.Kind != domain.CommentKindHelpWanted {
		return nil
	}

	task, err := s.tasks.GetByID(dbc, comment.TaskID)
	if err != nil {
		return err
	}
	if task == nil {
		s.log.Warn("task not found; skipping help-wanted notification", "task_id", comment.TaskID)
		return nil
	}

	room, err := s.rooms.GetGroupRoomByWorkspace(dbc, task.WorkspaceID)
	if err != nil {
		return err
	}
	if room == nil {
		s.log.Warn("workspace has no group room; skipping help-wanted notification", "workspace_id", task.WorkspaceID)
		return nil
	}

	bot, err := s.bots.GetBot(dbc, room.OrgID, domain.BotKindSystem)
	if err != nil {
		return err
	}
	if bot == nil {
		s.log.Warn("system bot not found; skipping help-wanted notification", "org_id", room.OrgID)
		return nil
	}

	if err := s.membership.EnsureMember(dbc, room.ID, *bot.ActorID); err != nil {
		return err
	}

	commenter := displayName(dbc, s.users, &comment.UserID)
	content := s.buildMessage(dbc, room.OrgID, commenter, task, comment)

	_, err = s.dispatcher.SendBotMessage(dbc, room, bot, content, nil)
	return err
}

// buildMessage prefers a short AI rewrite and falls back to the truncated
// comment text when AI is unconfigured or fails.
func (s *helpWantedNotifier) buildMessage(dbc dbctx.Context, orgID uuid.UUID, commenter string, task *domain.WorkspaceTask, comment *domain.TaskComment) string {
	fallback := fmt.Sprintf("%s is asking for help on %q: %s", commenter, task.Title, truncateRunes(comment.Content, helpWantedMaxRunes))

	ai, err := s.aiClients.ForOrg(dbc, orgID)
	if err != nil || ai == nil {
		if err != nil {
			s.log.Warn("ai client unavailable; using fallback help-wanted text", "org_id", orgID, "error", err)
		}
		return fallback
	}

	system := fmt.Sprintf(
		"You announce a help request to a team chat. Be supportive and concise, use at most one emoji, and keep the announcement within %d characters.",
		helpWantedMaxRunes,
	)
	user := fmt.Sprintf("%s asked for help on task %q: %s", commenter, task.Title, comment.Content)

	out, err := ai.GenerateText(dbc.Ctx, system, user)
	if err != nil || strings.TrimSpace(out) == "" {
		s.log.Warn("ai help-wanted text failed; using fallback", "org_id", orgID, "error", err)
		return fallback
	}
	return truncateRunes(out, helpWantedMaxRunes)
}
