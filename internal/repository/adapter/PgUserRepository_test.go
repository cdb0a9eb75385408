package adapter

import (
	"context"
	"testing"
	"time"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/repository/port"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func Test_FindByIDs(t *testing.T) {
	req := require.New(t)
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)

	mock.ExpectQuery("FROM users").WithArgs([]int64{1, 2, 3}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "organization_id", "is_active", "is_staff"}).
			AddRow(int64(1), int64(9), true, false).
			AddRow(int64(2), int64(9), false, true))

	users, err := repo.FindByIDs(context.Background(), []int64{1, 2, 3})
	req.NoError(err)
	req.Equal(map[int64]repository.User{
		1: {ID: 1, OrganizationID: 9, Active: true},
		2: {ID: 2, OrganizationID: 9, Staff: true},
	}, users)

	users, err = repo.FindByIDs(context.Background(), nil)
	req.NoError(err)
	req.Empty(users)

	mock.ExpectQuery("FROM users").WithArgs([]int64{4}).WillReturnError(&pgconn.PgError{Code: "57P03"})
	_, err = repo.FindByIDs(context.Background(), []int64{4})
	req.ErrorIs(err, chat.ErrStorageUnavailable)

	req.NoError(mock.ExpectationsWereMet())
}

func Test_BlocksAmong(t *testing.T) {
	req := require.New(t)
	mock := newMockPool(t)
	repo := NewPgUserRepository(mock)
	at := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	blocks, err := repo.BlocksAmong(context.Background(), []int64{1})
	req.NoError(err)
	req.Nil(blocks)

	mock.ExpectQuery("FROM user_blocks").WithArgs([]int64{1, 2}).
		WillReturnRows(pgxmock.NewRows([]string{"blocker_id", "blocked_id", "created_at"}).AddRow(int64(2), int64(1), at))
	blocks, err = repo.BlocksAmong(context.Background(), []int64{1, 2})
	req.NoError(err)
	req.Equal([]chat.Block{{BlockerID: 2, BlockedID: 1, CreatedAt: at}}, blocks)

	req.NoError(mock.ExpectationsWereMet())
}
