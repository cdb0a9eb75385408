package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type fakeSocket struct {
	mu       sync.Mutex
	messages []string
	closed   bool
	code     int
}

func (s *fakeSocket) SetWriteDeadline(time.Time) error { return nil }

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if messageType == websocket.TextMessage {
		s.messages = append(s.messages, string(data))
	}
	return nil
}

func (s *fakeSocket) WriteControl(messageType int, data []byte, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if messageType == websocket.CloseMessage && len(data) >= 2 {
		s.code = int(data[0])<<8 | int(data[1])
	}
	return nil
}

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSocket) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *fakeSocket) closeCode() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code, s.closed
}

func attach(r *Router, userID int64) (*Connection, *fakeSocket) {
	ws := &fakeSocket{}
	conn := NewConnection(userID, ws)
	r.Attach(conn)
	return conn, ws
}

func Test_Broadcast_Reaches_Room_Members_Except_Sender(t *testing.T) {
	req := require.New(t)
	r := NewRouter()
	t.Cleanup(r.Close)

	alice, aliceWS := attach(r, 1)
	bob, bobWS := attach(r, 2)
	_, carolWS := attach(r, 3)
	r.Join("c1", alice)
	r.Join("c1", bob)

	req.True(r.InRoom("c1", 1))
	req.False(r.InRoom("c1", 3))
	req.Equal(1, r.Broadcast("c1", []byte("hi"), 1))

	req.Eventually(func() bool { return len(bobWS.received()) == 1 }, time.Second, 5*time.Millisecond)
	req.Empty(aliceWS.received())
	req.Empty(carolWS.received())

	r.Leave("c1", bob)
	req.Zero(r.Broadcast("c1", []byte("again"), 1))
	req.Zero(r.Broadcast("unknown", []byte("x"), 0))
}

func Test_NotifyUsers_Counts_Online_Users_Once(t *testing.T) {
	req := require.New(t)
	r := NewRouter()
	t.Cleanup(r.Close)

	_, ws := attach(r, 1)
	attach(r, 2)

	req.Equal(2, r.NotifyUsers([]int64{1, 1, 2, 3}, []byte("created")))
	req.Eventually(func() bool { return len(ws.received()) == 1 }, time.Second, 5*time.Millisecond)
}

func Test_Attach_Replaces_Previous_Session(t *testing.T) {
	req := require.New(t)
	r := NewRouter()
	t.Cleanup(r.Close)

	first, firstWS := attach(r, 1)
	r.Join("c1", first)
	second, _ := attach(r, 1)

	code, closed := firstWS.closeCode()
	req.True(closed)
	req.Equal(4001, code)
	req.False(r.InRoom("c1", 1))
	req.ErrorIs(first.Send([]byte("late")), ErrConnectionClosed)

	r.Detach(second)
	req.False(r.NotifyUser(1, []byte("gone")))
}

func Test_JoinUsers_Joins_Online_Participants_Of_A_New_Chat(t *testing.T) {
	req := require.New(t)
	r := NewRouter()
	t.Cleanup(r.Close)

	_, aliceWS := attach(r, 1)
	bob, bobWS := attach(r, 2)

	req.Equal(2, r.JoinUsers("c9", []int64{1, 2, 2, 3}))
	req.True(r.InRoom("c9", 1))
	req.True(r.InRoom("c9", 2))
	req.False(r.InRoom("c9", 3))

	req.Equal(1, r.Broadcast("c9", []byte("hello"), 1))
	req.Eventually(func() bool { return len(bobWS.received()) == 1 }, time.Second, 5*time.Millisecond)
	req.Empty(aliceWS.received())

	r.Detach(bob)
	req.False(r.InRoom("c9", 2))
	req.Zero(r.JoinUsers("c10", []int64{2}))
}
