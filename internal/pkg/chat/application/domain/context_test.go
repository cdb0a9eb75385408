package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_DedupKey_Is_Kind_And_ID(t *testing.T) {
	req := require.New(t)
	req.Equal(DedupKey("issue:42"), NewDedupKey(ContextKindIssue, 42))
	req.Equal(DedupKey("house_complex:7"), ContextRef{Kind: ContextKindHouseComplex, ID: 7}.DedupKey())
	req.Equal(DedupKey("market:9"), NewDedupKey("MARKET", 9))
}

func Test_NewChatCreationRequest_Trims_Title(t *testing.T) {
	req := require.New(t)
	title := "  Broken heating  "
	r := NewChatCreationRequest(ContextKindIssue, 42, 7, &title, 11, 12)
	req.NotNil(r.Title)
	req.Equal("Broken heating", *r.Title)
	req.Equal([]int64{11, 12}, r.Invitees)

	blank := "   "
	r = NewChatCreationRequest(ContextKindIssue, 42, 7, &blank)
	req.Nil(r.Title)
}

func Test_ChatCreationRequest_Validate(t *testing.T) {
	long := strings.Repeat("x", 256)
	tests := []struct {
		name    string
		request ChatCreationRequest
		wantErr bool
	}{
		{"valid", NewChatCreationRequest(ContextKindHouse, 5, 1, nil), false},
		{"missing kind", NewChatCreationRequest("", 5, 1, nil), true},
		{"zero context id", NewChatCreationRequest(ContextKindHouse, 0, 1, nil), true},
		{"negative requester", NewChatCreationRequest(ContextKindHouse, 5, -1, nil), true},
		{"title too long", NewChatCreationRequest(ContextKindHouse, 5, 1, &long), true},
		{"invalid invitee", NewChatCreationRequest(ContextKindHouse, 5, 1, nil, 3, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := tt.request.Validate()
			if tt.wantErr {
				req.ErrorIs(err, ErrInvalidRequest)
				return
			}
			req.NoError(err)
		})
	}
}

func Test_IsRetryable_Only_For_Storage(t *testing.T) {
	req := require.New(t)
	req.True(IsRetryable(ErrStorageUnavailable))
	req.False(IsRetryable(ErrParticipantLimitExceeded))
	req.False(IsRetryable(ErrContextNotFound))
	req.False(IsRetryable(nil))
}
