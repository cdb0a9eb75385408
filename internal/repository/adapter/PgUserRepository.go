package adapter

import (
	"context"
	"errors"

	"ucoa-chat/internal/infrastructure/database"
	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/repository/port"

	"github.com/jackc/pgx/v5"
)

type PgUserRepository struct {
	db database.DB
}

func NewPgUserRepository(db database.DB) *PgUserRepository {
	return &PgUserRepository{db: db}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]repository.User, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	out := make(map[int64]repository.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, organization_id, is_active, is_staff
		FROM users
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, storageError(err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.User, error) {
		var u repository.User
		err := row.Scan(&u.ID, &u.OrganizationID, &u.Active, &u.Staff)
		return u, err
	})
	if err != nil {
		return nil, storageError(err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// BlocksAmong returns block edges where both ends are in ids.
func (r *PgUserRepository) BlocksAmong(ctx context.Context, ids []int64) ([]chat.Block, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	if len(ids) < 2 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT blocker_id, blocked_id, created_at
		FROM user_blocks
		WHERE blocker_id = ANY($1) AND blocked_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, storageError(err)
	}
	blocks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.Block, error) {
		var b chat.Block
		err := row.Scan(&b.BlockerID, &b.BlockedID, &b.CreatedAt)
		return b, err
	})
	if err != nil {
		return nil, storageError(err)
	}
	return blocks, nil
}
