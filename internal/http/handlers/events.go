package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// EventHandler turns domain events into background jobs. Every endpoint
// answers 202 once the job is durably enqueued; the notification work itself
// happens on the worker.
type EventHandler struct {
	log       *logger.Logger
	scheduler jobs.Scheduler
}

func NewEventHandler(log *logger.Logger, scheduler jobs.Scheduler) *EventHandler {
	return &EventHandler{
		log:       log.With("handler", "EventHandler"),
		scheduler: scheduler,
	}
}

func (h *EventHandler) enqueue(c *gin.Context, kind string, payload any) {
	job, err := jobs.NewJob(kind, payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "failed to build job"}})
		return
	}
	if err := h.scheduler.EnqueueNow(c.Request.Context(), job); err != nil {
		h.log.Error("failed to enqueue job", "job_kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "failed to enqueue job"}})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "job_kind": kind})
}

type chatMessageEventRequest struct {
	OrgID        uuid.UUID `json:"org_id" binding:"required"`
	RoomID       uuid.UUID `json:"room_id" binding:"required"`
	MessageID    uuid.UUID `json:"message_id" binding:"required"`
	SenderUserID uuid.UUID `json:"sender_user_id" binding:"required"`
}

func (h *EventHandler) ChatMessageCreated(c *gin.Context) {
	var req chatMessageEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	h.enqueue(c, jobs.KindChatAiReply, jobs.ChatAiReplyPayload{
		OrgID:        req.OrgID,
		RoomID:       req.RoomID,
		MessageID:    req.MessageID,
		SenderUserID: req.SenderUserID,
	})
}

type itemEventRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

func (h *EventHandler) ItemCreated(c *gin.Context) {
	var req itemEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	h.enqueue(c, jobs.KindItemCreated, jobs.ItemEventPayload{ItemID: req.ItemID})
}

func (h *EventHandler) ItemUpdated(c *gin.Context) {
	var req itemEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	h.enqueue(c, jobs.KindItemUpdated, jobs.ItemEventPayload{ItemID: req.ItemID})
}

type taskEventRequest struct {
	TaskID uuid.UUID `json:"task_id" binding:"required"`
}

func (h *EventHandler) TaskCreated(c *gin.Context) {
	var req taskEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	h.enqueue(c, jobs.KindTaskCreated, jobs.TaskEventPayload{TaskID: req.TaskID})
}

func (h *EventHandler) TaskUpdated(c *gin.Context) {
	var req taskEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	h.enqueue(c, jobs.KindTaskUpdated, jobs.TaskEventPayload{TaskID: req.TaskID})
}

func (h *EventHandler) TaskAssigned(c *gin.Context) {
	var req taskEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	h.enqueue(c, jobs.KindTaskSuggestAssignee, jobs.TaskSuggestAssigneePayload{TaskID: req.TaskID})
}

type commentEventRequest struct {
	CommentID   uuid.UUID `json:"comment_id" binding:"required"`
	CommentKind string    `json:"comment_kind" binding:"required"`
}

// CommentCreated routes a new task comment to the notifier strategy for its
// kind. Normal comments produce no job.
func (h *EventHandler) CommentCreated(c *gin.Context) {
	var req commentEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}

	var kind string
	switch req.CommentKind {
	case domain.CommentKindHelpWanted:
		kind = jobs.KindCommentHelpWanted
	case domain.CommentKindNeedReply:
		kind = jobs.KindCommentNeedReply
	case domain.CommentKindReminder:
		kind = jobs.KindReminderSchedule
	default:
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}
	h.enqueue(c, kind, jobs.CommentEventPayload{CommentID: req.CommentID})
}

type loginEventRequest struct {
	OrgID    uuid.UUID `json:"org_id" binding:"required"`
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Username string    `json:"username"`
}

func (h *EventHandler) UserLoggedIn(c *gin.Context) {
	var req loginEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	h.enqueue(c, jobs.KindLoginWelcome, jobs.LoginWelcomePayload{
		OrgID:    req.OrgID,
		UserID:   req.UserID,
		Username: req.Username,
	})
}
