package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ucoa-chat/internal/infrastructure/realtime"
	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/usecase"
	"ucoa-chat/internal/pkg/chat/presentation/middleware"
	"ucoa-chat/internal/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ChatSocketController handles the websocket endpoint for realtime chat traffic.
type ChatSocketController struct {
	router          *realtime.Router
	sendMessageUC   *usecase.SendMessageUseCase
	joinRoomUC      *usecase.JoinChatUseCase
	listMembersUC   *usecase.ListParticipantsUseCase
	log             *logger.Logger
	inflightTimeout time.Duration
}

func NewChatSocketController(
	router *realtime.Router,
	send *usecase.SendMessageUseCase,
	join *usecase.JoinChatUseCase,
	list *usecase.ListParticipantsUseCase,
	log *logger.Logger,
) *ChatSocketController {
	return &ChatSocketController{
		router:          router,
		sendMessageUC:   send,
		joinRoomUC:      join,
		listMembersUC:   list,
		log:             log,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Sessions are authenticated by token, not by cookie.
		return true
	},
}

type inboundFrame struct {
	Type           string  `json:"type"`
	ChatID         string  `json:"chat_id,omitempty"`
	Body           *string `json:"body,omitempty"`
	MsgType        *int16  `json:"msg_type,omitempty"`
	AttachmentURL  *string `json:"attachment_url,omitempty"`
	AttachmentMeta *string `json:"attachment_meta,omitempty"`
	DedupeKey      *string `json:"dedupe_key,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id,omitempty"`
}

type outboundMessage struct {
	Type    string       `json:"type"`
	ChatID  string       `json:"chat_id"`
	Message chat.Message `json:"message"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			ctl.log.Debug("websocket upgrade failed", "user_id", userID, "error", err)
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.reply(conn, ackFrame{Type: "connected"})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}
			if frame.ChatID == "" {
				ctl.replyError(conn, "bad_request", "chat_id is required")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(c, conn, frame)
			case "leave":
				ctl.router.Leave(frame.ChatID, conn)
				ctl.reply(conn, ackFrame{Type: "left", ChatID: frame.ChatID})
			case "message":
				ctl.handleMessage(c, conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.joinRoomUC.Execute(ctx, usecase.JoinChatInput{ChatID: frame.ChatID, UserID: conn.UserID}); err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	ctl.router.Join(frame.ChatID, conn)
	ctl.reply(conn, ackFrame{Type: "joined", ChatID: frame.ChatID})
}

func (ctl *ChatSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	msgType := chat.MessageTypeText
	if frame.MsgType != nil {
		msgType = chat.MessageType(*frame.MsgType)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ChatID:         frame.ChatID,
		SenderID:       conn.UserID,
		Body:           frame.Body,
		MsgType:        msgType,
		AttachmentURL:  frame.AttachmentURL,
		AttachmentMeta: frame.AttachmentMeta,
		DedupeKey:      frame.DedupeKey,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	payload, err := json.Marshal(outboundMessage{Type: "message", ChatID: frame.ChatID, Message: *msg})
	if err != nil {
		ctl.replyError(conn, "internal_error", "failed to encode message")
		return
	}

	delivered := ctl.router.Broadcast(frame.ChatID, payload, conn.UserID)
	_ = conn.Send(payload)

	// Members online but not joined to the room still get the message on their session.
	participants, err := ctl.listMembersUC.Execute(ctx, usecase.ListParticipantsInput{ChatID: frame.ChatID})
	if err != nil {
		ctl.log.Warn("list participants failed", "chat_id", frame.ChatID, "error", err)
		return
	}
	if delivered < len(participants)-1 {
		ctl.notifyOutsideRoom(frame.ChatID, participants, conn.UserID, payload)
	}
}

func (ctl *ChatSocketController) notifyOutsideRoom(chatID string, participants []int64, senderID int64, payload []byte) {
	others := make([]int64, 0, len(participants))
	for _, id := range participants {
		if id != senderID && !ctl.router.InRoom(chatID, id) {
			others = append(others, id)
		}
	}
	ctl.router.NotifyUsers(others, payload)
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		ctl.log.Error("socket use case failed", "user_id", conn.UserID, "error", err)
		msg = "unexpected error"
	}
	ctl.replyError(conn, code, msg)
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	ctl.reply(conn, errorFrame{Type: "error", Code: code, Error: message})
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, frame any) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
