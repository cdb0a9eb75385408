package adapter

import (
	"context"
	"errors"
	"fmt"

	"ucoa-chat/internal/infrastructure/database"
	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/resolver"

	"github.com/jackc/pgx/v5"
)

// PgContextRepository reads the business entities chats are created for.
// It serves every reader port of the resolver package.
type PgContextRepository struct {
	db database.DB
}

func NewPgContextRepository(db database.DB) *PgContextRepository {
	return &PgContextRepository{db: db}
}

var (
	_ resolver.IssueReader        = (*PgContextRepository)(nil)
	_ resolver.HouseReader        = (*PgContextRepository)(nil)
	_ resolver.HouseComplexReader = (*PgContextRepository)(nil)
	_ resolver.MarketReader       = (*PgContextRepository)(nil)
)

func (r *PgContextRepository) IssueByID(ctx context.Context, id int64) (resolver.Issue, error) {
	var i resolver.Issue
	err := r.db.QueryRow(ctx, `
		SELECT id, subject, reporter_id, assignee_id, status
		FROM issues
		WHERE id = $1
	`, id).Scan(&i.ID, &i.Subject, &i.ReporterID, &i.AssigneeID, &i.Status)
	return i, readError(err)
}

func (r *PgContextRepository) HouseByID(ctx context.Context, id int64) (resolver.House, error) {
	var h resolver.House
	err := r.db.QueryRow(ctx, `
		SELECT id, number, address, manager_id, archived
		FROM houses
		WHERE id = $1
	`, id).Scan(&h.ID, &h.Number, &h.Address, &h.ManagerID, &h.Archived)
	return h, readError(err)
}

func (r *PgContextRepository) HouseOccupantIDs(ctx context.Context, houseID int64) ([]int64, error) {
	return r.ids(ctx, `
		SELECT user_id FROM house_occupants
		WHERE house_id = $1
		ORDER BY moved_in_at, user_id
	`, houseID)
}

func (r *PgContextRepository) HouseComplexByID(ctx context.Context, id int64) (resolver.HouseComplex, error) {
	var c resolver.HouseComplex
	err := r.db.QueryRow(ctx, `
		SELECT id, name, manager_id, archived
		FROM house_complexes
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.ManagerID, &c.Archived)
	return c, readError(err)
}

// HouseComplexOccupantIDs lists occupants of every non-archived house in the complex, each once.
func (r *PgContextRepository) HouseComplexOccupantIDs(ctx context.Context, complexID int64) ([]int64, error) {
	return r.ids(ctx, `
		SELECT o.user_id
		FROM house_occupants o
		JOIN houses h ON h.id = o.house_id
		WHERE h.complex_id = $1 AND NOT h.archived
		GROUP BY o.user_id
		ORDER BY MIN(o.moved_in_at), o.user_id
	`, complexID)
}

func (r *PgContextRepository) ListingByID(ctx context.Context, id int64) (resolver.MarketListing, error) {
	var l resolver.MarketListing
	err := r.db.QueryRow(ctx, `
		SELECT id, title, seller_id, status
		FROM market_listings
		WHERE id = $1
	`, id).Scan(&l.ID, &l.Title, &l.SellerID, &l.Status)
	return l, readError(err)
}

func (r *PgContextRepository) ListingSubscriberIDs(ctx context.Context, listingID int64) ([]int64, error) {
	return r.ids(ctx, `
		SELECT user_id FROM market_subscriptions
		WHERE listing_id = $1
		ORDER BY created_at, user_id
	`, listingID)
}

func (r *PgContextRepository) ids(ctx context.Context, sql string, arg int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, storageError(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, storageError(err)
	}
	return ids, nil
}

func readError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return resolver.ErrNotFound
	}
	return storageError(err)
}

func storageError(err error) error {
	if err != nil && database.IsTransient(err) {
		return fmt.Errorf("%w: %w", chat.ErrStorageUnavailable, err)
	}
	return err
}
