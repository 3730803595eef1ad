package services

import (
	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// MembershipService makes an actor a member of a room exactly once.
type MembershipService interface {
	// EnsureMember is idempotent: concurrent calls for the same (room, actor)
	// pair leave a single membership row and never fail on the race.
	EnsureMember(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID) error
}

type membershipService struct {
	log     *logger.Logger
	members repos.ChatRoomMemberRepo
}

func NewMembershipService(log *logger.Logger, members repos.ChatRoomMemberRepo) MembershipService {
	return &membershipService{
		log:     log.With("service", "MembershipService"),
		members: members,
	}
}

func (s *membershipService) EnsureMember(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID) error {
	exists, err := s.members.Exists(dbc, roomID, actorID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	created, err := s.members.CreateIfAbsent(dbc, roomID, actorID, domain.RoomMemberRoleMember)
	if err != nil {
		return err
	}
	if created {
		s.log.Debug("added room member", "room_id", roomID, "actor_id", actorID)
	}
	return nil
}
