package controller

import (
	"context"
	"net/http"
	"time"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/usecase"
	"ucoa-chat/internal/pkg/chat/presentation/middleware"
	"ucoa-chat/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

// CreateChatController handles the chat creation endpoint.
type CreateChatController struct {
	Action  usecase.ChatCreator
	Log     *logger.Logger
	Timeout time.Duration
}

func NewCreateChatController(action usecase.ChatCreator, log *logger.Logger) *CreateChatController {
	return &CreateChatController{Action: action, Log: log, Timeout: 5 * time.Second}
}

type createChatRequest struct {
	Kind      string  `json:"kind" binding:"required"`
	ContextID int64   `json:"context_id" binding:"required"`
	Title     *string `json:"title"`
	Invitees  []int64 `json:"invitees"`
}

type createChatResponse struct {
	Chat    *chat.Chat    `json:"chat"`
	State   usecase.State `json:"state"`
	Created bool          `json:"created"`
}

// Handle answers 201 when the chat was created and 200 when it already existed.
func (h *CreateChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		var req createChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
			return
		}

		in := chat.NewChatCreationRequest(chat.ContextKind(req.Kind), req.ContextID, userID, req.Title, req.Invitees...)
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()

		res, err := h.Action.Execute(ctx, in)
		if err != nil {
			status, code := errorStatus(err)
			if status >= http.StatusInternalServerError {
				h.Log.Error("create chat failed", "dedup_key", in.DedupKey(), "user_id", userID, "error", err)
			}
			c.JSON(status, gin.H{"error": err.Error(), "code": code})
			return
		}

		status := http.StatusOK
		if res.Created() {
			status = http.StatusCreated
		}
		c.JSON(status, createChatResponse{Chat: res.Chat, State: res.State, Created: res.Created()})
	}
}
