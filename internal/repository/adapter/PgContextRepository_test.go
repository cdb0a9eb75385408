package adapter

import (
	"context"
	"testing"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/resolver"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var issueColumns = []string{"id", "subject", "reporter_id", "assignee_id", "status"}

func Test_IssueByID(t *testing.T) {
	req := require.New(t)
	mock := newMockPool(t)
	repo := NewPgContextRepository(mock)
	assignee := int64(11)

	mock.ExpectQuery("FROM issues").WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(issueColumns).
			AddRow(int64(3), "Leaking pipe", int64(10), &assignee, resolver.IssueStatusOpen))
	issue, err := repo.IssueByID(context.Background(), 3)
	req.NoError(err)
	req.Equal(int64(10), issue.ReporterID)
	req.Equal(int64(11), *issue.AssigneeID)
	req.Equal(resolver.IssueStatusOpen, issue.Status)

	req.NoError(mock.ExpectationsWereMet())
}

func Test_Context_Reads_Map_Errors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantIs    error
		wantNotIs error
	}{
		{name: "missing row", err: nil, wantIs: resolver.ErrNotFound},
		{name: "server restarting", err: &pgconn.PgError{Code: "57P01"}, wantIs: chat.ErrStorageUnavailable},
		{name: "syntax error", err: &pgconn.PgError{Code: "42601"}, wantNotIs: chat.ErrStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			mock := newMockPool(t)
			repo := NewPgContextRepository(mock)

			exp := mock.ExpectQuery("FROM houses").WithArgs(int64(5))
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(pgxmock.NewRows([]string{"id", "number", "address", "manager_id", "archived"}))
			}

			_, err := repo.HouseByID(context.Background(), 5)
			req.Error(err)
			if tt.wantIs != nil {
				req.ErrorIs(err, tt.wantIs)
			}
			if tt.wantNotIs != nil {
				req.NotErrorIs(err, tt.wantNotIs)
				req.NotErrorIs(err, resolver.ErrNotFound)
			}
			req.NoError(mock.ExpectationsWereMet())
		})
	}
}

func Test_Occupant_Lists(t *testing.T) {
	req := require.New(t)
	mock := newMockPool(t)
	repo := NewPgContextRepository(mock)

	mock.ExpectQuery("FROM house_occupants o").WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(int64(20)).AddRow(int64(21)))
	ids, err := repo.HouseComplexOccupantIDs(context.Background(), 7)
	req.NoError(err)
	req.Equal([]int64{20, 21}, ids)

	mock.ExpectQuery("FROM market_subscriptions").WithArgs(int64(9)).
		WillReturnError(&pgconn.PgError{Code: "40P01"})
	_, err = repo.ListingSubscriberIDs(context.Background(), 9)
	req.ErrorIs(err, chat.ErrStorageUnavailable)

	req.NoError(mock.ExpectationsWereMet())
}
