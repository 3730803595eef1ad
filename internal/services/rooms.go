package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// RoomResolver finds or creates the 1:1 ai room between a user and a bot.
type RoomResolver interface {
	// GetOrCreateDmRoom returns (nil, nil) when the target user has no actor
	// identity; callers skip the notification. Two concurrent calls for the
	// same user may create duplicate rooms in rare races; later calls
	// converge on the oldest one.
	GetOrCreateDmRoom(dbc dbctx.Context, orgID uuid.UUID, targetUserID uuid.UUID, bot *domain.Bot) (*domain.ChatRoom, error)
}

type roomResolver struct {
	log     *logger.Logger
	rooms   repos.ChatRoomRepo
	actors  repos.ActorRepo
	members repos.ChatRoomMemberRepo
}

func NewRoomResolver(log *logger.Logger, rooms repos.ChatRoomRepo, actors repos.ActorRepo, members repos.ChatRoomMemberRepo) RoomResolver {
	return &roomResolver{
		log:     log.With("service", "RoomResolver"),
		rooms:   rooms,
		actors:  actors,
		members: members,
	}
}

func (s *roomResolver) GetOrCreateDmRoom(dbc dbctx.Context, orgID uuid.UUID, targetUserID uuid.UUID, bot *domain.Bot) (*domain.ChatRoom, error) {
	if bot == nil || bot.ActorID == nil {
		return nil, fmt.Errorf("bot with actor identity required")
	}

	userActor, err := s.actors.GetByUser(dbc, orgID, targetUserID)
	if err != nil {
		return nil, err
	}
	if userActor == nil {
		s.log.Warn("user has no actor identity; skipping dm room", "org_id", orgID, "user_id", targetUserID)
		return nil, nil
	}

	room, err := s.rooms.FindAiRoomWithMember(dbc, orgID, userActor.ID)
	if err != nil {
		return nil, err
	}
	if room != nil {
		// Rooms may predate this bot.
		if _, err := s.members.CreateIfAbsent(dbc, room.ID, *bot.ActorID, domain.RoomMemberRoleMember); err != nil {
			return nil, err
		}
		return room, nil
	}

	room, err = s.rooms.Create(dbc, &domain.ChatRoom{
		OrgID:       orgID,
		Kind:        domain.RoomKindAi,
		OwnerUserID: &targetUserID,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.members.CreateIfAbsent(dbc, room.ID, userActor.ID, domain.RoomMemberRoleOwner); err != nil {
		return nil, err
	}
	if _, err := s.members.CreateIfAbsent(dbc, room.ID, *bot.ActorID, domain.RoomMemberRoleMember); err != nil {
		return nil, err
	}
	return room, nil
}
