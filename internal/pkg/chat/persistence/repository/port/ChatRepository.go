//go:generate go run go.uber.org/mock/mockgen -source=ChatRepository.go -destination=../../../mocks/mock_chat_repository.go -package=mocks
package repository

import (
	"context"
	"errors"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
)

// ErrDuplicateDedupKey reports that another chat already owns the dedup key.
// The creation flow turns it into the AlreadyExists outcome; it never reaches callers.
var ErrDuplicateDedupKey = errors.New("repository: duplicate dedup key")

// ChatGateway is the narrow transactional contract the creation flow depends on.
//
// FindByDedupKey returns (nil, nil) on a miss.
// CommitNewChat writes the chat and all of its participants in one transaction: either every
// row is committed or none is. It fails with ErrDuplicateDedupKey when the unique dedup key is
// taken, and with chat.ErrStorageUnavailable for transient storage failures.
type ChatGateway interface {
	FindByDedupKey(ctx context.Context, key chat.DedupKey) (*chat.Chat, error)
	CommitNewChat(ctx context.Context, a *chat.ChatAggregate) (*chat.Chat, error)
}

// ChatRepository is the full persistence surface of the chat module.
type ChatRepository interface {
	ChatGateway
	IsParticipant(ctx context.Context, chatID string, userID int64) (bool, error)
	ListParticipantIDs(ctx context.Context, chatID string) ([]int64, error)
	SaveMessage(ctx context.Context, m chat.Message) (string, error)
	GetMessagesByChat(ctx context.Context, chatID string, limit int, offset int) ([]chat.Message, error)
}
