package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/event"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"
	"ucoa-chat/internal/platform/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is a step of the creation flow. Committed, AlreadyExists and Rejected are terminal.
type State string

const (
	StateRequested            State = "requested"
	StateContextResolved      State = "context_resolved"
	StateParticipantsResolved State = "participants_resolved"
	StateValidated            State = "validated"
	StateCommitted            State = "committed"
	StateAlreadyExists        State = "already_exists"
	StateRejected             State = "rejected"
)

// CreateChatResult is returned for both successful outcomes. AlreadyExists is not an error.
type CreateChatResult struct {
	Chat  *chat.Chat
	State State
}

func (r *CreateChatResult) Created() bool { return r != nil && r.State == StateCommitted }

// ContextResolver is satisfied by *resolver.Registry.
type ContextResolver interface {
	Resolve(ctx context.Context, ref chat.ContextRef, requestedBy int64) (chat.ResolvedContext, error)
}

// ParticipantResolver is satisfied by *participant.Resolver.
type ParticipantResolver interface {
	Resolve(ctx context.Context, resolved chat.ResolvedContext, requestedBy int64, invitees []int64) ([]chat.ParticipantDescriptor, error)
}

// AggregateValidator is satisfied by *rule.Engine.
type AggregateValidator interface {
	Validate(a *chat.ChatAggregate) error
}

// CreateChatUseCase creates the single chat of a business context.
//
// The storage uniqueness constraint on the dedup key is the only thing that serializes
// concurrent creators; the pre-check just saves work on the common path. Either way two
// requests for one context end up with the same chat.
type CreateChatUseCase struct {
	Contexts     ContextResolver
	Participants ParticipantResolver
	Rules        AggregateValidator
	Gateway      repository.ChatGateway
	Events       event.Dispatcher
	Log          *logger.Logger

	tracer trace.Tracer
}

func NewCreateChatUseCase(
	contexts ContextResolver,
	participants ParticipantResolver,
	rules AggregateValidator,
	gateway repository.ChatGateway,
	events event.Dispatcher,
	log *logger.Logger,
) *CreateChatUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &CreateChatUseCase{
		Contexts:     contexts,
		Participants: participants,
		Rules:        rules,
		Gateway:      gateway,
		Events:       events,
		Log:          log,
		tracer:       otel.Tracer("ucoa-chat/chat"),
	}
}

// Execute runs the flow. Any returned error means the request was rejected and nothing was written.
func (uc *CreateChatUseCase) Execute(ctx context.Context, req chat.ChatCreationRequest) (res *CreateChatResult, err error) {
	ctx, span := uc.tracer.Start(ctx, "chat.create", trace.WithAttributes(
		attribute.String("chat.context_kind", string(req.Kind)),
		attribute.Int64("chat.context_id", req.ContextID),
		attribute.Int64("chat.requested_by", req.RequestedBy),
	))
	state := StateRequested
	defer func() {
		if err != nil {
			state = StateRejected
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			uc.Log.Info("chat creation rejected", "dedup_key", req.DedupKey(), "requested_by", req.RequestedBy, "error", err)
		}
		span.SetAttributes(attribute.String("chat.state", string(state)))
		span.End()
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	key := req.DedupKey()

	existing, err := uc.Gateway.FindByDedupKey(ctx, key)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if existing != nil {
		state = StateAlreadyExists
		return &CreateChatResult{Chat: existing, State: state}, nil
	}

	resolved, err := uc.Contexts.Resolve(ctx, req.Context(), req.RequestedBy)
	if err != nil {
		return nil, stageError(ctx, chat.ErrContextResolution, err)
	}
	state = StateContextResolved

	participants, err := uc.Participants.Resolve(ctx, resolved, req.RequestedBy, req.Invitees)
	if err != nil {
		return nil, stageError(ctx, chat.ErrParticipantResolution, err)
	}
	state = StateParticipantsResolved

	aggregate, err := chat.NewChatAggregate(resolved, participants, req.Title)
	if err != nil {
		return nil, err
	}
	if err := uc.Rules.Validate(aggregate); err != nil {
		return nil, err
	}
	state = StateValidated

	// Last point where cancellation is honored; the write itself is all-or-nothing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created, err := uc.commit(ctx, aggregate)
	if errors.Is(err, repository.ErrDuplicateDedupKey) {
		winner, err := uc.Gateway.FindByDedupKey(ctx, key)
		if err != nil {
			return nil, storageError(ctx, err)
		}
		if winner == nil {
			return nil, fmt.Errorf("%w: %s reported duplicate but is missing", chat.ErrStorageUnavailable, key)
		}
		state = StateAlreadyExists
		return &CreateChatResult{Chat: winner, State: state}, nil
	}
	if err != nil {
		return nil, storageError(ctx, err)
	}
	state = StateCommitted
	span.SetAttributes(attribute.String("chat.id", created.ID))

	uc.publish(ctx, created)
	uc.Log.Info("chat created",
		"chat_id", created.ID,
		"dedup_key", created.DedupKey,
		"type", created.Type,
		"participants", len(created.Participants),
	)
	return &CreateChatResult{Chat: created, State: state}, nil
}

func (uc *CreateChatUseCase) commit(ctx context.Context, a *chat.ChatAggregate) (*chat.Chat, error) {
	ctx, span := uc.tracer.Start(ctx, "chat.commit", trace.WithAttributes(
		attribute.String("chat.dedup_key", string(a.DedupKey)),
		attribute.Int("chat.participants", len(a.Participants)),
	))
	defer span.End()

	c, err := uc.Gateway.CommitNewChat(ctx, a)
	if err != nil && !errors.Is(err, repository.ErrDuplicateDedupKey) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return c, err
}

// publish hands the event off exactly once. The chat is committed whatever happens here.
func (uc *CreateChatUseCase) publish(ctx context.Context, c *chat.Chat) {
	if uc.Events == nil {
		return
	}
	evt := event.NewChatCreated(c)
	if err := uc.Events.Publish(context.WithoutCancel(ctx), evt); err != nil {
		uc.Log.Error("chat created event not dispatched", "chat_id", c.ID, "event_id", evt.ID, "error", err)
	}
}

// stageError wraps err in the stage error unless it already carries it.
func stageError(ctx context.Context, stage, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	if errors.Is(err, stage) {
		return err
	}
	return fmt.Errorf("%w: %w", stage, err)
}

// storageError marks gateway failures as retryable; cancellation passes through untouched.
func storageError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	if errors.Is(err, chat.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", chat.ErrStorageUnavailable, err)
}
