package usecase

import (
	"context"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/policy"
)

// ChatCreator is satisfied by *CreateChatUseCase.
type ChatCreator interface {
	Execute(ctx context.Context, req chat.ChatCreationRequest) (*CreateChatResult, error)
}

// CreateChatAction is the entry point used by transports: it authorizes, then runs the flow.
type CreateChatAction struct {
	Policy policy.Policy
	Flow   ChatCreator
}

func NewCreateChatAction(p policy.Policy, flow ChatCreator) *CreateChatAction {
	return &CreateChatAction{Policy: p, Flow: flow}
}

func (a *CreateChatAction) Execute(ctx context.Context, req chat.ChatCreationRequest) (*CreateChatResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ok, err := a.Policy.CanCreateChat(ctx, req.RequestedBy, req.Context())
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %d on %s", chat.ErrForbidden, req.RequestedBy, req.Context())
	}
	return a.Flow.Execute(ctx, req)
}
