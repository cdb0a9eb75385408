package resolver_test

import (
	"context"
	"errors"
	"testing"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/resolver"
	"ucoa-chat/internal/pkg/chat/application/resolver/resolvertest"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seeded() *resolvertest.Store {
	s := resolvertest.NewStore()
	s.Issues[42] = resolver.Issue{ID: 42, Subject: "Broken heating", ReporterID: 7, AssigneeID: ptr(int64(100)), Status: resolver.IssueStatusOpen}
	s.Issues[43] = resolver.Issue{ID: 43, Subject: "Noise", ReporterID: 7, Status: resolver.IssueStatusClosed}
	s.Issues[44] = resolver.Issue{ID: 44, Subject: "Leak", ReporterID: 8, Status: resolver.IssueStatusInProgress}

	s.Houses[5] = resolver.House{ID: 5, Number: "12B", Address: "Elm Street", ManagerID: 50}
	s.Houses[6] = resolver.House{ID: 6, Number: "14", Address: "Elm Street", ManagerID: 50, Archived: true}
	s.Occupants[5] = []int64{51, 52, 50}
	s.Occupants[6] = []int64{61}

	s.Complexes[3] = resolver.HouseComplex{ID: 3, Name: "Elm Park", ManagerID: 30}
	s.ComplexOf[5] = 3
	s.ComplexOf[6] = 3

	s.Listings[9] = resolver.MarketListing{ID: 9, Title: "Bike", SellerID: 90, Status: resolver.ListingStatusActive}
	s.Listings[10] = resolver.MarketListing{ID: 10, Title: "Sofa", SellerID: 90, Status: resolver.ListingStatusSold}
	s.Subscribers[9] = []int64{91, 92}
	return s
}

func Test_Registry_Dispatches_On_Kind(t *testing.T) {
	ctx := context.Background()
	registry := seeded().Registry()

	tests := []struct {
		name         string
		ref          chat.ContextRef
		requestedBy  int64
		wantType     chat.ChatType
		wantTitle    string
		wantPeople   []chat.ParticipantDescriptor
		wantDedupKey chat.DedupKey
	}{
		{
			name: "issue", ref: chat.ContextRef{Kind: chat.ContextKindIssue, ID: 42}, requestedBy: 7,
			wantType: chat.ChatTypeSupport, wantTitle: "Issue #42: Broken heating",
			wantPeople: []chat.ParticipantDescriptor{
				{UserID: 7, Role: chat.ParticipantRoleOwner},
				{UserID: 100, Role: chat.ParticipantRoleAdmin},
			},
			wantDedupKey: "issue:42",
		},
		{
			name: "unassigned issue", ref: chat.ContextRef{Kind: chat.ContextKindIssue, ID: 44}, requestedBy: 8,
			wantType: chat.ChatTypeSupport, wantTitle: "Issue #44: Leak",
			wantPeople:   []chat.ParticipantDescriptor{{UserID: 8, Role: chat.ParticipantRoleOwner}},
			wantDedupKey: "issue:44",
		},
		{
			name: "house", ref: chat.ContextRef{Kind: chat.ContextKindHouse, ID: 5}, requestedBy: 51,
			wantType: chat.ChatTypeHouse, wantTitle: "House 12B, Elm Street",
			wantPeople: []chat.ParticipantDescriptor{
				{UserID: 50, Role: chat.ParticipantRoleOwner},
				{UserID: 51, Role: chat.ParticipantRoleMember},
				{UserID: 52, Role: chat.ParticipantRoleMember},
			},
			wantDedupKey: "house:5",
		},
		{
			name: "house complex skips archived houses", ref: chat.ContextRef{Kind: chat.ContextKindHouseComplex, ID: 3}, requestedBy: 30,
			wantType: chat.ChatTypeHouseComplex, wantTitle: "Complex Elm Park",
			wantPeople: []chat.ParticipantDescriptor{
				{UserID: 30, Role: chat.ParticipantRoleOwner},
				{UserID: 51, Role: chat.ParticipantRoleMember},
				{UserID: 52, Role: chat.ParticipantRoleMember},
				{UserID: 50, Role: chat.ParticipantRoleMember},
			},
			wantDedupKey: "house_complex:3",
		},
		{
			name: "market adds the requester", ref: chat.ContextRef{Kind: chat.ContextKindMarket, ID: 9}, requestedBy: 3,
			wantType: chat.ChatTypeMarket, wantTitle: "Market: Bike",
			wantPeople: []chat.ParticipantDescriptor{
				{UserID: 90, Role: chat.ParticipantRoleOwner},
				{UserID: 91, Role: chat.ParticipantRoleMember},
				{UserID: 92, Role: chat.ParticipantRoleMember},
				{UserID: 3, Role: chat.ParticipantRoleMember},
			},
			wantDedupKey: "market:9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			resolved, err := registry.Resolve(ctx, tt.ref, tt.requestedBy)
			req.NoError(err)
			req.Equal(tt.wantType, resolved.Type)
			req.NotNil(resolved.Title)
			req.Equal(tt.wantTitle, *resolved.Title)
			req.Equal(tt.wantPeople, resolved.Participants)
			req.Equal(tt.wantDedupKey, resolved.DedupKey)
		})
	}
}

func Test_Registry_Rejects_Unsupported_Kind(t *testing.T) {
	req := require.New(t)
	registry := seeded().Registry()

	_, err := registry.Resolve(context.Background(), chat.ContextRef{Kind: "parking_lot", ID: 1}, 7)
	req.ErrorIs(err, chat.ErrUnsupportedContextKind)
	req.False(registry.Supports("parking_lot"))
	req.True(registry.Supports(chat.ContextKindMarket))
	req.Equal([]chat.ContextKind{
		chat.ContextKindHouse,
		chat.ContextKindHouseComplex,
		chat.ContextKindIssue,
		chat.ContextKindMarket,
	}, registry.Kinds())
}

func Test_Registry_Refuses_Duplicate_Kinds(t *testing.T) {
	req := require.New(t)
	s := seeded()
	_, err := resolver.NewRegistry(resolver.NewIssueResolver(s), resolver.NewIssueResolver(s))
	req.Error(err)
}

func Test_Resolvers_Report_Missing_Or_Ineligible_Contexts(t *testing.T) {
	ctx := context.Background()
	registry := seeded().Registry()

	refs := []chat.ContextRef{
		{Kind: chat.ContextKindIssue, ID: 404},
		{Kind: chat.ContextKindIssue, ID: 43},
		{Kind: chat.ContextKindHouse, ID: 6},
		{Kind: chat.ContextKindHouseComplex, ID: 404},
		{Kind: chat.ContextKindMarket, ID: 10},
	}
	for _, ref := range refs {
		t.Run(ref.String(), func(t *testing.T) {
			_, err := registry.Resolve(ctx, ref, 7)
			require.ErrorIs(t, err, chat.ErrContextNotFound)
		})
	}
}

func Test_Resolvers_Pass_Through_Read_Failures(t *testing.T) {
	req := require.New(t)
	s := seeded()
	boom := errors.New("connection reset")
	s.Err = boom

	_, err := s.Registry().Resolve(context.Background(), chat.ContextRef{Kind: chat.ContextKindMarket, ID: 9}, 3)
	req.ErrorIs(err, boom)
	req.NotErrorIs(err, chat.ErrContextNotFound)
}
