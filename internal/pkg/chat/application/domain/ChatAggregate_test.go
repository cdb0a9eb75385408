package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func resolvedIssue() ResolvedContext {
	title := "Issue #42: Broken heating"
	return ResolvedContext{
		Type:     ChatTypeSupport,
		Title:    &title,
		DedupKey: NewDedupKey(ContextKindIssue, 42),
		Participants: []ParticipantDescriptor{
			{UserID: 7, Role: ParticipantRoleOwner},
			{UserID: 8, Role: ParticipantRoleAdmin},
		},
	}
}

func Test_NewChatAggregate_Keeps_Resolved_Title_Unless_Overridden(t *testing.T) {
	req := require.New(t)
	resolved := resolvedIssue()

	a, err := NewChatAggregate(resolved, resolved.Participants, nil)
	req.NoError(err)
	req.Equal("Issue #42: Broken heating", *a.Title)
	req.Equal(ChatTypeSupport, a.Type)
	req.Equal(resolved.DedupKey, a.DedupKey)
	req.True(a.CreatedAt.IsZero())

	override := "Heating"
	a, err = NewChatAggregate(resolved, resolved.Participants, &override)
	req.NoError(err)
	req.Equal("Heating", *a.Title)
}

func Test_NewChatAggregate_Rejects_Broken_Participant_Lists(t *testing.T) {
	req := require.New(t)
	resolved := resolvedIssue()

	_, err := NewChatAggregate(resolved, nil, nil)
	req.ErrorIs(err, ErrParticipantResolution)

	_, err = NewChatAggregate(resolved, []ParticipantDescriptor{
		{UserID: 7, Role: ParticipantRoleOwner},
		{UserID: 7, Role: ParticipantRoleMember},
	}, nil)
	req.ErrorIs(err, ErrParticipantResolution)

	// owner count belongs to the rule engine
	a, err := NewChatAggregate(resolved, []ParticipantDescriptor{
		{UserID: 7, Role: ParticipantRoleOwner},
		{UserID: 8, Role: ParticipantRoleOwner},
	}, nil)
	req.NoError(err)
	req.Equal(2, a.CountRole(ParticipantRoleOwner))
}

func Test_Materialize_Assigns_Positions_And_Commit_Time(t *testing.T) {
	req := require.New(t)
	resolved := resolvedIssue()
	a, err := NewChatAggregate(resolved, resolved.Participants, nil)
	req.NoError(err)

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	c := a.Materialize("chat-1", at)

	req.Equal("chat-1", c.ID)
	req.Equal(at.UTC(), c.CreatedAt)
	req.Equal(c.CreatedAt, c.UpdatedAt)
	req.Equal(at.UTC(), a.CreatedAt)
	req.Equal([]int64{7, 8}, c.ParticipantIDs())
	for i, p := range c.Participants {
		req.Equal(i, p.Position)
		req.Equal("chat-1", p.ChatID)
	}
	req.True(c.HasParticipant(8))
	req.False(c.HasParticipant(9))
}
