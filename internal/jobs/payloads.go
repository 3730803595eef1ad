package jobs

import "github.com/google/uuid"

type ChatAiReplyPayload struct {
	OrgID        uuid.UUID `json:"org_id"`
	RoomID       uuid.UUID `json:"room_id"`
	MessageID    uuid.UUID `json:"message_id"`
	SenderUserID uuid.UUID `json:"sender_user_id"`
}

type ItemEventPayload struct {
	ItemID uuid.UUID `json:"item_id"`
}

type TaskEventPayload struct {
	TaskID uuid.UUID `json:"task_id"`
}

// CommentEventPayload covers the comment-triggered kinds: help_wanted,
// need_reply and reminder.schedule.
type CommentEventPayload struct {
	CommentID uuid.UUID `json:"comment_id"`
}

type ReminderFirePayload struct {
	CommentID uuid.UUID `json:"comment_id"`
	Month     int       `json:"month"`
	Day       int       `json:"day"`
}

type LoginWelcomePayload struct {
	OrgID    uuid.UUID `json:"org_id"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

type TaskSuggestAssigneePayload struct {
	TaskID uuid.UUID `json:"task_id"`
}
