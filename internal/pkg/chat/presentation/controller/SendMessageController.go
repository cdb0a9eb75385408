package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	queueport "ucoa-chat/internal/infrastructure/queue/port"
	"ucoa-chat/internal/pkg/chat/application/task"
	"ucoa-chat/internal/pkg/chat/presentation/middleware"

	"github.com/gin-gonic/gin"
)

// SendMessageController handles the send-message endpoint. Messages are persisted by the
// chat:send_message worker, which re-checks membership.
type SendMessageController struct {
	Q queueport.Client
}

func NewSendMessageController(client queueport.Client) *SendMessageController {
	return &SendMessageController{Q: client}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Body           *string `json:"body"`
	MsgType        *int16  `json:"msg_type"`
	AttachmentURL  *string `json:"attachment_url"`
	AttachmentMeta *string `json:"attachment_meta"`
	DedupeKey      *string `json:"dedupe_key"`
}

// Handle returns a gin handler that enqueues a background task to send a message
func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Q == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "message queue is not configured"})
			return
		}
		senderID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Body == nil && req.AttachmentURL == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body or attachment_url is required"})
			return
		}

		msgType := int16(0) // text
		if req.MsgType != nil {
			msgType = *req.MsgType
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		id, err := task.EnqueueSendMessage(ctx, h.Q, task.SendMessageTaskPayload{
			ChatID:         chatID,
			SenderID:       senderID,
			Body:           req.Body,
			MsgType:        msgType,
			AttachmentURL:  req.AttachmentURL,
			AttachmentMeta: req.AttachmentMeta,
			DedupeKey:      req.DedupeKey,
		})
		if errors.Is(err, queueport.ErrDuplicateTask) {
			c.JSON(http.StatusAccepted, gin.H{"status": "duplicate", "task_id": id, "chat_id": chatID})
			return
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue message"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":    "queued",
			"task_id":   id,
			"chat_id":   chatID,
			"sender_id": senderID,
		})
	}
}
