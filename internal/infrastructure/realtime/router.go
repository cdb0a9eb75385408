package realtime

import (
	"sync"

	"github.com/samber/lo"
)

// Router tracks one live session per user and the chat rooms those sessions are joined to.
// A room exists only while at least one session is joined.
type Router struct {
	mu       sync.RWMutex
	sessions map[string]*Connection            // session id -> connection
	byUser   map[int64]string                  // user id -> live session id
	rooms    map[string]map[string]*Connection // chat id -> session id -> connection
	joined   map[string]map[string]struct{}    // session id -> chat ids
}

func NewRouter() *Router {
	return &Router{
		sessions: make(map[string]*Connection),
		byUser:   make(map[int64]string),
		rooms:    make(map[string]map[string]*Connection),
		joined:   make(map[string]map[string]struct{}),
	}
}

// Attach makes conn the user's live session. An older session of the same user leaves all of
// its rooms and is closed with code 4001.
func (r *Router) Attach(conn *Connection) {
	r.mu.Lock()
	replaced := r.sessions[r.byUser[conn.UserID]]
	if replaced != nil {
		r.dropLocked(replaced.ID)
	}
	r.sessions[conn.ID] = conn
	r.byUser[conn.UserID] = conn.ID
	r.mu.Unlock()

	conn.Start()
	if replaced != nil {
		replaced.Close(4001, "session replaced")
	}
}

func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.dropLocked(conn.ID)
	r.mu.Unlock()
}

// Join puts conn in the chat's room. Membership of the chat is checked by the caller.
func (r *Router) Join(chatID string, conn *Connection) {
	r.mu.Lock()
	if _, ok := r.sessions[conn.ID]; ok {
		r.joinLocked(chatID, conn)
	}
	r.mu.Unlock()
}

// JoinUsers puts the live session of each listed user in the chat's room and returns how many
// sessions joined. Used when a chat is created so its online participants get messages at once.
func (r *Router) JoinUsers(chatID string, userIDs []int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range lo.Uniq(userIDs) {
		conn := r.sessions[r.byUser[id]]
		if conn == nil {
			continue
		}
		r.joinLocked(chatID, conn)
		n++
	}
	return n
}

func (r *Router) Leave(chatID string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(chatID, conn.ID)
	r.mu.Unlock()
}

// Broadcast sends payload to every session in the chat's room except the one of excludeUserID
// (ignored when not positive) and returns the number of sessions that accepted it.
func (r *Router) Broadcast(chatID string, payload []byte, excludeUserID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	delivered := 0
	for _, conn := range r.rooms[chatID] {
		if excludeUserID > 0 && conn.UserID == excludeUserID {
			continue
		}
		if conn.Send(payload) == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser sends payload to the user's live session, joined to the chat or not.
func (r *Router) NotifyUser(userID int64, payload []byte) bool {
	r.mu.RLock()
	conn := r.sessions[r.byUser[userID]]
	r.mu.RUnlock()
	return conn != nil && conn.Send(payload) == nil
}

// NotifyUsers sends payload once per distinct online user and returns how many accepted it.
func (r *Router) NotifyUsers(userIDs []int64, payload []byte) int {
	return lo.CountBy(lo.Uniq(userIDs), func(id int64) bool {
		return r.NotifyUser(id, payload)
	})
}

// InRoom reports whether the user's live session is joined to the chat.
func (r *Router) InRoom(chatID string, userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessionID, ok := r.byUser[userID]
	if !ok {
		return false
	}
	_, in := r.rooms[chatID][sessionID]
	return in
}

// Close closes every session with 1001 and forgets all rooms.
func (r *Router) Close() {
	r.mu.Lock()
	conns := lo.Values(r.sessions)
	r.sessions = make(map[string]*Connection)
	r.byUser = make(map[int64]string)
	r.rooms = make(map[string]map[string]*Connection)
	r.joined = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) joinLocked(chatID string, conn *Connection) {
	room := r.rooms[chatID]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[chatID] = room
	}
	room[conn.ID] = conn

	chats := r.joined[conn.ID]
	if chats == nil {
		chats = make(map[string]struct{})
		r.joined[conn.ID] = chats
	}
	chats[chatID] = struct{}{}
}

// dropLocked forgets a session and removes it from every room it joined.
func (r *Router) dropLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)
	if r.byUser[conn.UserID] == sessionID {
		delete(r.byUser, conn.UserID)
	}
	for chatID := range r.joined[sessionID] {
		r.leaveLocked(chatID, sessionID)
	}
	delete(r.joined, sessionID)
}

func (r *Router) leaveLocked(chatID, sessionID string) {
	room := r.rooms[chatID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, chatID)
	}
	if chats := r.joined[sessionID]; chats != nil {
		delete(chats, chatID)
		if len(chats) == 0 {
			delete(r.joined, sessionID)
		}
	}
}
