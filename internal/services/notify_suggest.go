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

// SuggestionService DMs a task's assignee with a pointer to a similar task
// completed by somebody else. Every failure of the similarity search is a
// silent no-op.
type SuggestionService interface {
	SuggestSimilarTaskAssignee(dbc dbctx.Context, taskID uuid.UUID) error
}

type suggestionService struct {
	log        *logger.Logger
	tasks      repos.WorkspaceTaskRepo
	workspaces repos.WorkspaceRepo
	users      repos.UserRepo
	bots       BotService
	resolver   RoomResolver
	aiClients  AIClients
	dispatcher Dispatcher
}

func NewSuggestionService(
	log *logger.Logger,
	tasks repos.WorkspaceTaskRepo,
	workspaces repos.WorkspaceRepo,
	users repos.UserRepo,
	bots BotService,
	resolver RoomResolver,
	aiClients AIClients,
	dispatcher Dispatcher,
) SuggestionService {
	return &suggestionService{
		log:        log.With("service", "SuggestionService"),
		tasks:      tasks,
		workspaces: workspaces,
		users:      users,
		bots:       bots,
		resolver:   resolver,
		aiClients:  aiClients,
		dispatcher: dispatcher,
	}
}

func (s *suggestionService) SuggestSimilarTaskAssignee(dbc dbctx.Context, taskID uuid.UUID) error {
	task, err := s.tasks.GetByID(dbc, taskID)
	if err != nil || task == nil || task.AssignedUserID == nil {
		return nil
	}

	ws, err := s.workspaces.GetByID(dbc, task.WorkspaceID)
	if err != nil || ws == nil {
		return nil
	}

	similar := s.findSimilarCompletedTask(dbc, ws.OrgID, task)
	if similar == nil || similar.AssignedUserID == nil {
		return nil
	}
	if *similar.AssignedUserID == *task.AssignedUserID {
		return nil
	}

	bot, err := s.bots.GetBot(dbc, ws.OrgID, domain.BotKindSystem)
	if err != nil || bot == nil {
		return nil
	}

	room, err := s.resolver.GetOrCreateDmRoom(dbc, ws.OrgID, *task.AssignedUserID, bot)
	if err != nil {
		return err
	}
	if room == nil {
		return nil
	}

	helper := displayName(dbc, s.users, similar.AssignedUserID)
	content := fmt.Sprintf("%s previously completed a similar task, %q. It might help with %q.",
		helper, similar.Title, task.Title)

	_, err = s.dispatcher.SendBotMessage(dbc, room, bot, content, nil)
	return err
}

// findSimilarCompletedTask ranks the workspace's recently completed tasks
// against the given task via AI. Any failure yields nil.
func (s *suggestionService) findSimilarCompletedTask(dbc dbctx.Context, orgID uuid.UUID, task *domain.WorkspaceTask) *domain.WorkspaceTask {
	ai, err := s.aiClients.ForOrg(dbc, orgID)
	if err != nil || ai == nil {
		return nil
	}

	completed, err := s.tasks.ListRecentCompletedByWorkspace(dbc, task.WorkspaceID, 50)
	if err != nil || len(completed) == 0 {
		return nil
	}

	byID := make(map[string]*domain.WorkspaceTask, len(completed))
	var lines []string
	for _, t := range completed {
		if t.ID == task.ID {
			continue
		}
		byID[t.ID.String()] = t
		lines = append(lines, fmt.Sprintf("- %s: %s", t.ID, t.Title))
	}
	if len(lines) == 0 {
		return nil
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_id": map[string]any{"type": []string{"string", "null"}},
		},
		"required":             []string{"task_id"},
		"additionalProperties": false,
	}
	system := "You match a new task against previously completed tasks. " +
		"Return the id of the single most similar completed task, or null when none is comparable."
	user := fmt.Sprintf("New task: %s\nCompleted tasks:\n%s", task.Title, strings.Join(lines, "\n"))

	out, err := ai.GenerateJSON(dbc.Ctx, system, user, "similar_task", schema)
	if err != nil {
		s.log.Debug("similarity search failed", "task_id", task.ID, "error", err)
		return nil
	}
	id, _ := out["task_id"].(string)
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return byID[strings.TrimSpace(id)]
}
