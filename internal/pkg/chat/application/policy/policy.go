//go:generate go run go.uber.org/mock/mockgen -source=policy.go -destination=../../mocks/mock_policy.go -package=mocks
package policy

import (
	"context"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/repository/port"
)

// Policy decides whether a user may ask for the chat of a context.
// A (false, nil) answer is a denial; an error means the decision could not be made.
type Policy interface {
	CanCreateChat(ctx context.Context, userID int64, ref chat.ContextRef) (bool, error)
}

// DirectoryPolicy allows active users. StaffOnly lists kinds reserved to staff accounts.
type DirectoryPolicy struct {
	Users     repository.UserRepository
	StaffOnly map[chat.ContextKind]bool
}

func NewDirectoryPolicy(users repository.UserRepository, staffOnly ...chat.ContextKind) *DirectoryPolicy {
	m := make(map[chat.ContextKind]bool, len(staffOnly))
	for _, k := range staffOnly {
		m[k] = true
	}
	return &DirectoryPolicy{Users: users, StaffOnly: m}
}

func (p *DirectoryPolicy) CanCreateChat(ctx context.Context, userID int64, ref chat.ContextRef) (bool, error) {
	users, err := p.Users.FindByIDs(ctx, []int64{userID})
	if err != nil {
		return false, err
	}
	u, ok := users[userID]
	if !ok || !u.Active {
		return false, nil
	}
	if p.StaffOnly[ref.Kind] && !u.Staff {
		return false, nil
	}
	return true, nil
}
