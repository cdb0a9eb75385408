package chat

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContextKind tags the business entity a chat is created for.
type ContextKind string

const (
	ContextKindIssue        ContextKind = "issue"
	ContextKindHouse        ContextKind = "house"
	ContextKindHouseComplex ContextKind = "house_complex"
	ContextKindMarket       ContextKind = "market"
)

// ContextRef points at one business entity.
type ContextRef struct {
	Kind ContextKind
	ID   int64
}

// DedupKey identifies "the chat of this context". It is unique at the storage boundary.
type DedupKey string

// NewDedupKey renders the key as "<kind>:<id>", e.g. "issue:42".
func NewDedupKey(kind ContextKind, id int64) DedupKey {
	return DedupKey(fmt.Sprintf("%s:%d", strings.ToLower(string(kind)), id))
}

func (r ContextRef) DedupKey() DedupKey { return NewDedupKey(r.Kind, r.ID) }

func (r ContextRef) String() string { return string(r.DedupKey()) }

var validate = validator.New()

// ChatCreationRequest asks for the chat of one context. It carries no persistence identifiers.
type ChatCreationRequest struct {
	Kind        ContextKind `validate:"required,max=64"`
	ContextID   int64       `validate:"gt=0"`
	RequestedBy int64       `validate:"gt=0"`
	Title       *string     `validate:"omitempty,max=255"`
	Invitees    []int64     `validate:"max=500,dive,gt=0"`
}

func NewChatCreationRequest(kind ContextKind, contextID, requestedBy int64, title *string, invitees ...int64) ChatCreationRequest {
	var t *string
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed != "" {
			t = &trimmed
		}
	}
	return ChatCreationRequest{
		Kind:        kind,
		ContextID:   contextID,
		RequestedBy: requestedBy,
		Title:       t,
		Invitees:    append([]int64(nil), invitees...),
	}
}

// Validate checks the request shape; it does not check that the context exists.
func (r ChatCreationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func (r ChatCreationRequest) Context() ContextRef {
	return ContextRef{Kind: r.Kind, ID: r.ContextID}
}

func (r ChatCreationRequest) DedupKey() DedupKey { return r.Context().DedupKey() }

// ResolvedContext is what a context resolver derives from the current state of the entity.
// A nil Title means "derive later" (the request override or a type default is used).
type ResolvedContext struct {
	Type         ChatType
	Title        *string
	Participants []ParticipantDescriptor
	DedupKey     DedupKey
}
