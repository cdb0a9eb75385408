package http

import (
	"time"

	qport "ucoa-chat/internal/infrastructure/queue/port"
	"ucoa-chat/internal/infrastructure/realtime"
	"ucoa-chat/internal/pkg/chat/application/usecase"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"
	"ucoa-chat/internal/pkg/chat/presentation/controller"
	"ucoa-chat/internal/pkg/chat/presentation/middleware"
	"ucoa-chat/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the chat endpoints are built from.
type Dependencies struct {
	CreateChat     usecase.ChatCreator
	Repo           repository.ChatRepository
	Queue          qport.Client
	Realtime       *realtime.Router
	JWTSecret      string
	RequestTimeout time.Duration
	Log            *logger.Logger
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router group.
// Every route requires a bearer token whose subject is the acting user id.
func RegisterRoutes(g *gin.RouterGroup, d Dependencies) {
	createCtl := controller.NewCreateChatController(d.CreateChat, d.Log)
	if d.RequestTimeout > 0 {
		createCtl.Timeout = d.RequestTimeout
	}
	sendMsgCtl := controller.NewSendMessageController(d.Queue)
	getMsgCtl := controller.NewGetMessageController(usecase.NewGetMessageUseCase(d.Repo))
	socketCtl := controller.NewChatSocketController(
		d.Realtime,
		usecase.NewSendMessageUseCase(d.Repo),
		usecase.NewJoinChatUseCase(d.Repo),
		usecase.NewListParticipantsUseCase(d.Repo),
		d.Log,
	)

	authed := g.Group("", middleware.RequireUser(d.JWTSecret))

	// POST /api/v1/chat -> create (or fetch) the chat of a context
	authed.POST("/chat", createCtl.Handle())

	// GET /api/v1/chat/ws -> websocket endpoint for realtime chat
	authed.GET("/chat/ws", socketCtl.Handle())

	// POST /api/v1/chat/:chatId -> send a message into a chat
	authed.POST("/chat/:chatId", sendMsgCtl.Handle())

	// GET /api/v1/chat/:chatId/messages -> fetch messages by chat id
	authed.GET("/chat/:chatId/messages", getMsgCtl.Handle())
}
