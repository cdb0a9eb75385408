package usecase

import (
	"context"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"
)

// GetMessageInput carries parameters to fetch messages of a chat.
// ReaderID must be a participant.
type GetMessageInput struct {
	ChatID   string
	ReaderID int64
	Limit    int
	Offset   int
}

// GetMessageUseCase fetches messages for a given chat, newest first.
type GetMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) ([]chat.Message, error) {
	if in.ChatID == "" || in.ReaderID <= 0 {
		return nil, ErrMissingID
	}
	ok, err := uc.Repo.IsParticipant(ctx, in.ChatID, in.ReaderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}
	msgs, err := uc.Repo.GetMessagesByChat(ctx, in.ChatID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return msgs, nil
}
