package usecase

import (
	"context"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message.
// Body/attachment rules live in chat.NewMessage.
type SendMessageInput struct {
	ChatID         string
	SenderID       int64
	Body           *string
	MsgType        chat.MessageType
	AttachmentURL  *string
	AttachmentMeta *string
	DedupeKey      *string
}

// SendMessageUseCase persists a message from a chat participant.
type SendMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewSendMessageUseCase(repo repository.ChatRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(chat.Message{
		ChatID:         in.ChatID,
		SenderID:       in.SenderID,
		Body:           in.Body,
		MsgType:        in.MsgType,
		AttachmentURL:  in.AttachmentURL,
		AttachmentMeta: in.AttachmentMeta,
		DedupeKey:      in.DedupeKey,
	})
	if err != nil {
		return nil, err
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, msg.ChatID, msg.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !isParticipant {
		return nil, chat.ErrNotParticipant
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	msg.ID = id
	return msg, nil
}
