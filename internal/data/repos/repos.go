package repos

import (
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos/chat"
	"github.com/crewdesk/crewdesk-backend/internal/data/repos/org"
	"github.com/crewdesk/crewdesk-backend/internal/data/repos/workspace"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

type ActorRepo = chat.ActorRepo
type BotRepo = chat.BotRepo
type ChatRoomRepo = chat.ChatRoomRepo
type ChatRoomMemberRepo = chat.ChatRoomMemberRepo
type ChatMessageRepo = chat.ChatMessageRepo

type UserRepo = org.UserRepo
type OrganizationSettingRepo = org.OrganizationSettingRepo

type WorkspaceRepo = workspace.WorkspaceRepo
type WorkspaceItemRepo = workspace.WorkspaceItemRepo
type WorkspaceTaskRepo = workspace.WorkspaceTaskRepo
type TaskCommentRepo = workspace.TaskCommentRepo

func NewActorRepo(db *gorm.DB, baseLog *logger.Logger) ActorRepo {
	return chat.NewActorRepo(db, baseLog)
}
func NewBotRepo(db *gorm.DB, baseLog *logger.Logger) BotRepo {
	return chat.NewBotRepo(db, baseLog)
}
func NewChatRoomRepo(db *gorm.DB, baseLog *logger.Logger) ChatRoomRepo {
	return chat.NewChatRoomRepo(db, baseLog)
}
func NewChatRoomMemberRepo(db *gorm.DB, baseLog *logger.Logger) ChatRoomMemberRepo {
	return chat.NewChatRoomMemberRepo(db, baseLog)
}
func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return chat.NewChatMessageRepo(db, baseLog)
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return org.NewUserRepo(db, baseLog)
}
func NewOrganizationSettingRepo(db *gorm.DB, baseLog *logger.Logger) OrganizationSettingRepo {
	return org.NewOrganizationSettingRepo(db, baseLog)
}

func NewWorkspaceRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceRepo {
	return workspace.NewWorkspaceRepo(db, baseLog)
}
func NewWorkspaceItemRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceItemRepo {
	return workspace.NewWorkspaceItemRepo(db, baseLog)
}
func NewWorkspaceTaskRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceTaskRepo {
	return workspace.NewWorkspaceTaskRepo(db, baseLog)
}
func NewTaskCommentRepo(db *gorm.DB, baseLog *logger.Logger) TaskCommentRepo {
	return workspace.NewTaskCommentRepo(db, baseLog)
}
