package usecase

import (
	"context"
	"fmt"

	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"
)

// ListParticipantsInput wraps the chat identifier to fetch its participants.
type ListParticipantsInput struct {
	ChatID string
}

// ListParticipantsUseCase returns user IDs for all participants in the chat, in stored order.
type ListParticipantsUseCase struct {
	Repo repository.ChatRepository
}

func NewListParticipantsUseCase(repo repository.ChatRepository) *ListParticipantsUseCase {
	return &ListParticipantsUseCase{Repo: repo}
}

func (uc *ListParticipantsUseCase) Execute(ctx context.Context, in ListParticipantsInput) ([]int64, error) {
	if in.ChatID == "" {
		return nil, ErrMissingID
	}

	ids, err := uc.Repo.ListParticipantIDs(ctx, in.ChatID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return ids, nil
}
