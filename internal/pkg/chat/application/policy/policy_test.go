package policy

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

func Test_DirectoryPolicy(t *testing.T) {
	directory := map[int64]repository.User{
		1: {ID: 1, OrganizationID: 1, Active: true},
		2: {ID: 2, OrganizationID: 1},
		3: {ID: 3, OrganizationID: 1, Active: true, Staff: true},
	}
	tests := []struct {
		name   string
		userID int64
		kind   chat.ContextKind
		want   bool
	}{
		{"active user", 1, chat.ContextKindHouse, true},
		{"inactive user", 2, chat.ContextKindHouse, false},
		{"unknown user", 9, chat.ContextKindHouse, false},
		{"staff only kind", 1, chat.ContextKindHouseComplex, false},
		{"staff on staff only kind", 3, chat.ContextKindHouseComplex, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mocks.NewMockUserRepository(ctrl)
			users.EXPECT().FindByIDs(gomock.Any(), []int64{tt.userID}).Return(directory, nil)

			p := NewDirectoryPolicy(users, chat.ContextKindHouseComplex)
			ok, err := p.CanCreateChat(context.Background(), tt.userID, chat.ContextRef{Kind: tt.kind, ID: 1})
			require.NoError(t, err)
			require.Equal(t, tt.want, ok)
		})
	}
}

func Test_DirectoryPolicy_Propagates_Lookup_Failure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	boom := errors.New("directory down")
	users.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return(nil, boom)

	ok, err := NewDirectoryPolicy(users).CanCreateChat(context.Background(), 1, chat.ContextRef{Kind: chat.ContextKindIssue, ID: 1})
	req.ErrorIs(err, boom)
	req.False(ok)
}
