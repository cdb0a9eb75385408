//go:generate go run go.uber.org/mock/mockgen -source=UserRepository.go -destination=../../pkg/chat/mocks/mock_user_repository.go -package=mocks
package repository

import (
	"context"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
)

// User is the slice of the account the chat subsystem cares about.
type User struct {
	ID             int64
	OrganizationID int64
	Active         bool
	Staff          bool
}

// UserRepository is the read-only user directory consumed by participant resolution.
// Unknown ids are simply absent from the returned map.
type UserRepository interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]User, error)
	BlocksAmong(ctx context.Context, ids []int64) ([]chat.Block, error)
}
