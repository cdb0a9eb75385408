package controller

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	qport "ucoa-chat/internal/infrastructure/queue/port"
	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/task"
	"ucoa-chat/internal/pkg/chat/application/usecase"
	"ucoa-chat/internal/pkg/chat/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// asUser stands in for the auth middleware.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

type stubQueue struct {
	tasks []qport.Task
	err   error
}

func (q *stubQueue) Enqueue(_ context.Context, t qport.Task, _ ...qport.EnqueueOption) (string, error) {
	q.tasks = append(q.tasks, t)
	return "t1", q.err
}

func (q *stubQueue) Close() error { return nil }

func serveSend(q qport.Client, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat/:chatId", asUser(7), NewSendMessageController(q).Handle())
	req := httptest.NewRequest(http.MethodPost, "/chat/c1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_SendMessage_Enqueues(t *testing.T) {
	req := require.New(t)
	q := &stubQueue{}

	w := serveSend(q, `{"body":"hello","dedupe_key":"k1"}`)
	req.Equal(http.StatusAccepted, w.Code)
	req.Contains(w.Body.String(), `"status":"queued"`)
	req.Len(q.tasks, 1)
	req.Equal(task.SendMessageTaskType, q.tasks[0].Type)
	req.Contains(string(q.tasks[0].Payload), `"senderId":7`)

	q.err = qport.ErrDuplicateTask
	w = serveSend(q, `{"body":"hello","dedupe_key":"k1"}`)
	req.Equal(http.StatusAccepted, w.Code)
	req.Contains(w.Body.String(), `"status":"duplicate"`)

	w = serveSend(q, `{}`)
	req.Equal(http.StatusBadRequest, w.Code)

	w = serveSend(nil, `{"body":"hello"}`)
	req.Equal(http.StatusServiceUnavailable, w.Code)
}

func Test_GetMessages(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/chat/:chatId/messages", asUser(7), NewGetMessageController(usecase.NewGetMessageUseCase(repo)).Handle())

	repo.EXPECT().IsParticipant(gomock.Any(), "c1", int64(7)).Return(true, nil)
	repo.EXPECT().GetMessagesByChat(gomock.Any(), "c1", 10, 0).Return(nil, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/c1/messages?limit=10", nil))
	req.Equal(http.StatusOK, w.Code)
	req.Contains(w.Body.String(), `"messages":[]`)

	repo.EXPECT().IsParticipant(gomock.Any(), "c2", int64(7)).Return(false, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/c2/messages", nil))
	req.Equal(http.StatusForbidden, w.Code)
	req.Contains(w.Body.String(), chat.ErrNotParticipant.Error())
}
