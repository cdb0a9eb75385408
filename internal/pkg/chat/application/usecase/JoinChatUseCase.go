package usecase

import (
	"context"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"
)

// JoinChatInput validates a request to attach a user session to a chat.
type JoinChatInput struct {
	ChatID string
	UserID int64
}

// JoinChatUseCase ensures the user belongs to the chat before joining the realtime room.
type JoinChatUseCase struct {
	Repo repository.ChatRepository
}

func NewJoinChatUseCase(repo repository.ChatRepository) *JoinChatUseCase {
	return &JoinChatUseCase{Repo: repo}
}

func (uc *JoinChatUseCase) Execute(ctx context.Context, in JoinChatInput) error {
	if in.ChatID == "" || in.UserID <= 0 {
		return ErrMissingID
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ChatID, in.UserID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !ok {
		return chat.ErrNotParticipant
	}
	return nil
}
