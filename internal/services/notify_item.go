package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// ItemNotifier posts item lifecycle notifications into the workspace's
// group room as the system bot.
type ItemNotifier interface {
	NotifyItemCreated(dbc dbctx.Context, itemID uuid.UUID) error
	NotifyItemUpdated(dbc dbctx.Context, itemID uuid.UUID) error
}

type itemNotifier struct {
	log        *logger.Logger
	items      repos.WorkspaceItemRepo
	users      repos.UserRepo
	rooms      repos.ChatRoomRepo
	bots       BotService
	membership MembershipService
	dispatcher Dispatcher
}

func NewItemNotifier(
	log *logger.Logger,
	items repos.WorkspaceItemRepo,
	users repos.UserRepo,
	rooms repos.ChatRoomRepo,
	bots BotService,
	membership MembershipService,
	dispatcher Dispatcher,
) ItemNotifier {
	return &itemNotifier{
		log:        log.With("service", "ItemNotifier"),
		items:      items,
		users:      users,
		rooms:      rooms,
		bots:       bots,
		membership: membership,
		dispatcher: dispatcher,
	}
}

func (s *itemNotifier) NotifyItemCreated(dbc dbctx.Context, itemID uuid.UUID) error {
	return s.notify(dbc, itemID, "created")
}

func (s *itemNotifier) NotifyItemUpdated(dbc dbctx.Context, itemID uuid.UUID) error {
	return s.notify(dbc, itemID, "updated")
}

func (s *itemNotifier) notify(dbc dbctx.Context, itemID uuid.UUID, verb string) error {
	item, err := s.items.GetByID(dbc, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		s.log.Warn("item not found; skipping notification", "item_id", itemID)
		return nil
	}

	room, err := s.rooms.GetGroupRoomByWorkspace(dbc, item.WorkspaceID)
	if err != nil {
		return err
	}
	if room == nil {
		s.log.Warn("workspace has no group room; skipping notification", "workspace_id", item.WorkspaceID)
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

	actor := displayName(dbc, s.users, item.LastActedUserID)
	content := fmt.Sprintf("%s %s item %s: %s", actor, verb, item.Code, item.Title)

	_, err = s.dispatcher.SendBotMessage(dbc, room, bot, content, nil)
	return err
}
