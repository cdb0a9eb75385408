package participant

import (
	"context"
	"errors"
	"testing"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/mocks"
	repository "ucoa-chat/internal/repository/port"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func activeUsers(org int64, ids ...int64) map[int64]repository.User {
	out := make(map[int64]repository.User, len(ids))
	for _, id := range ids {
		out[id] = repository.User{ID: id, OrganizationID: org, Active: true}
	}
	return out
}

func houseContext() chat.ResolvedContext {
	return chat.ResolvedContext{
		Type:     chat.ChatTypeHouse,
		DedupKey: "house:5",
		Participants: []chat.ParticipantDescriptor{
			{UserID: 50, Role: chat.ParticipantRoleOwner},
			{UserID: 51, Role: chat.ParticipantRoleMember},
		},
	}
}

func Test_Merge_Keeps_First_Position_And_Highest_Role(t *testing.T) {
	req := require.New(t)
	merged := Merge([]chat.ParticipantDescriptor{
		{UserID: 1, Role: chat.ParticipantRoleMember},
		{UserID: 2, Role: chat.ParticipantRoleAdmin},
		{UserID: 1, Role: chat.ParticipantRoleOwner},
		{UserID: 0, Role: chat.ParticipantRoleMember},
		{UserID: 2, Role: chat.ParticipantRoleMember},
		{UserID: 3, Role: chat.ParticipantRoleMember},
	})
	req.Equal([]chat.ParticipantDescriptor{
		{UserID: 1, Role: chat.ParticipantRoleOwner},
		{UserID: 2, Role: chat.ParticipantRoleAdmin},
		{UserID: 3, Role: chat.ParticipantRoleMember},
	}, merged)
}

func Test_Resolve_Appends_Invitees_After_Context_Participants(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := require.New(t)
	users := mocks.NewMockUserRepository(ctrl)
	r := NewResolver(users)

	users.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return(activeUsers(1, 50, 51, 60, 61), nil)
	users.EXPECT().BlocksAmong(gomock.Any(), gomock.Any()).Return(nil, nil)

	got, err := r.Resolve(context.Background(), houseContext(), 51, []int64{60, 50, 61, 60})
	req.NoError(err)
	req.Equal([]chat.ParticipantDescriptor{
		{UserID: 50, Role: chat.ParticipantRoleOwner},
		{UserID: 51, Role: chat.ParticipantRoleMember},
		{UserID: 60, Role: chat.ParticipantRoleMember},
		{UserID: 61, Role: chat.ParticipantRoleMember},
	}, got)
}

func Test_Resolve_Rejects_Ineligible_Users(t *testing.T) {
	tests := []struct {
		name  string
		users map[int64]repository.User
	}{
		{"missing participant", activeUsers(1, 50, 51)},
		{"inactive participant", func() map[int64]repository.User {
			m := activeUsers(1, 50, 51, 60)
			m[60] = repository.User{ID: 60, OrganizationID: 1}
			return m
		}()},
		{"other organization", func() map[int64]repository.User {
			m := activeUsers(1, 50, 51)
			m[60] = repository.User{ID: 60, OrganizationID: 2, Active: true}
			return m
		}()},
		{"unknown requester", activeUsers(1, 50, 60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			req := require.New(t)
			users := mocks.NewMockUserRepository(ctrl)
			users.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return(tt.users, nil)

			_, err := NewResolver(users).Resolve(context.Background(), houseContext(), 51, []int64{60})
			req.ErrorIs(err, chat.ErrParticipantResolution)
		})
	}
}

func Test_Resolve_Lets_Staff_Cross_Organizations(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := require.New(t)
	users := mocks.NewMockUserRepository(ctrl)

	dir := activeUsers(1, 7)
	dir[100] = repository.User{ID: 100, OrganizationID: 99, Active: true, Staff: true}
	users.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return(dir, nil)

	resolved := chat.ResolvedContext{
		Type:     chat.ChatTypeSupport,
		DedupKey: "issue:42",
		Participants: []chat.ParticipantDescriptor{
			{UserID: 7, Role: chat.ParticipantRoleOwner},
			{UserID: 100, Role: chat.ParticipantRoleAdmin},
		},
	}
	got, err := NewResolver(users).Resolve(context.Background(), resolved, 7, nil)
	req.NoError(err)
	req.Len(got, 2)
}

func Test_Resolve_Rejects_Blocked_Invitee(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := require.New(t)
	users := mocks.NewMockUserRepository(ctrl)

	users.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return(activeUsers(1, 50, 51, 60), nil)
	users.EXPECT().
		BlocksAmong(gomock.Any(), gomock.InAnyOrder([]int64{60, 51})).
		Return([]chat.Block{{BlockerID: 60, BlockedID: 51}}, nil)

	_, err := NewResolver(users).Resolve(context.Background(), houseContext(), 51, []int64{60})
	req.ErrorIs(err, chat.ErrParticipantResolution)
}

func Test_Resolve_Returns_Directory_Failures_Unwrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := require.New(t)
	users := mocks.NewMockUserRepository(ctrl)
	boom := errors.New("directory down")
	users.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := NewResolver(users).Resolve(context.Background(), houseContext(), 51, nil)
	req.ErrorIs(err, boom)
	req.NotErrorIs(err, chat.ErrParticipantResolution)
}

func Test_Resolve_Fails_Without_Participants(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := require.New(t)
	users := mocks.NewMockUserRepository(ctrl)

	_, err := NewResolver(users).Resolve(context.Background(), chat.ResolvedContext{DedupKey: "house:5"}, 51, nil)
	req.ErrorIs(err, chat.ErrParticipantResolution)
}
