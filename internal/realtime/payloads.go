package realtime

import (
	"time"

	"github.com/google/uuid"
)

// TypingClientTimeout is the client-side safety net: UIs clear a stuck
// typing indicator after this long regardless of server signals.
const TypingClientTimeout = 60 * time.Second

const (
	AvatarTypeUser = "user"
	AvatarTypeBot  = "bot"
)

// SenderDescriptor is always fully populated for bot senders so clients
// never have to branch on null fields.
type SenderDescriptor struct {
	ID              uuid.UUID  `json:"id"`
	ActorType       string     `json:"actor_type"`
	UserID          *uuid.UUID `json:"user_id"`
	BotID           *uuid.UUID `json:"bot_id"`
	DisplayName     string     `json:"display_name"`
	AvatarType      string     `json:"avatar_type"`
	AvatarURL       string     `json:"avatar_url"`
	IdentityIconURL string     `json:"identity_icon_url"`
	IsActive        bool       `json:"is_active"`
}

type MessagePayload struct {
	ID               uuid.UUID        `json:"id"`
	SenderActorID    uuid.UUID        `json:"sender_actor_id"`
	MessageType      string           `json:"message_type"`
	Content          string           `json:"content"`
	ReplyToMessageID *uuid.UUID       `json:"reply_to_message_id"`
	CreatedAt        time.Time        `json:"created_at"`
	Sender           SenderDescriptor `json:"sender"`
}

type MessageReceivedPayload struct {
	RoomID   uuid.UUID      `json:"room_id"`
	RoomType string         `json:"room_type"`
	Message  MessagePayload `json:"message"`
}

type UnreadUpdatedPayload struct {
	RoomID        uuid.UUID `json:"room_id"`
	RoomType      string    `json:"room_type"`
	SenderActorID uuid.UUID `json:"sender_actor_id"`
}

type BotTypingPayload struct {
	IsTyping bool      `json:"is_typing"`
	BotID    uuid.UUID `json:"bot_id"`
	BotName  string    `json:"bot_name"`
}

type BotErrorPayload struct {
	RoomID  uuid.UUID `json:"room_id"`
	Message string    `json:"message"`
}
