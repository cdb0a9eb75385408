package resolver

import (
	"context"
	"errors"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
)

// IssueResolver opens a support chat between the reporter and the assigned staff member.
type IssueResolver struct {
	Issues IssueReader
}

func NewIssueResolver(issues IssueReader) *IssueResolver {
	return &IssueResolver{Issues: issues}
}

func (r *IssueResolver) Kind() chat.ContextKind { return chat.ContextKindIssue }

func (r *IssueResolver) Resolve(ctx context.Context, ref chat.ContextRef, _ int64) (chat.ResolvedContext, error) {
	issue, err := r.Issues.IssueByID(ctx, ref.ID)
	if err != nil {
		return chat.ResolvedContext{}, mapReadError(ref, err)
	}
	if issue.Status == IssueStatusClosed {
		return chat.ResolvedContext{}, fmt.Errorf("%w: %s is closed", chat.ErrContextNotFound, ref)
	}

	participants := []chat.ParticipantDescriptor{
		{UserID: issue.ReporterID, Role: chat.ParticipantRoleOwner},
	}
	if issue.AssigneeID != nil && *issue.AssigneeID != issue.ReporterID {
		participants = append(participants, chat.ParticipantDescriptor{UserID: *issue.AssigneeID, Role: chat.ParticipantRoleAdmin})
	}

	return chat.ResolvedContext{
		Type:         chat.ChatTypeSupport,
		Title:        titlePtr("Issue #%d: %s", issue.ID, issue.Subject),
		Participants: participants,
	}, nil
}

func mapReadError(ref chat.ContextRef, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", chat.ErrContextNotFound, ref)
	}
	return err
}
