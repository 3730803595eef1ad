package realtime

import "github.com/google/uuid"

type Event string

const (
	EventChatMessageReceived Event = "chat:message_received"
	EventChatUnreadUpdated   Event = "chat:unread_updated"
	EventBotTyping           Event = "chat:bot_typing"
	EventBotError            Event = "chat:bot_error"
)

// Message is the envelope fanned out to every live subscriber of a group.
// Origin identifies the publishing instance so the redis forwarder can skip
// messages it already delivered locally.
type Message struct {
	Group  string `json:"group"`
	Event  Event  `json:"event"`
	Data   any    `json:"data,omitempty"`
	Origin string `json:"origin,omitempty"`
}

func RoomGroup(roomID uuid.UUID) string { return "room:" + roomID.String() }

func OrgGroup(orgID uuid.UUID) string { return "organization:" + orgID.String() }
