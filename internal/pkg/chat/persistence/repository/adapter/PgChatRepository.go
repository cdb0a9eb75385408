package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ucoa-chat/internal/infrastructure/database"
	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// dedupConstraint is the unique constraint on chat.chats(dedup_key).
const dedupConstraint = "chats_dedup_key_key"

type PgChatRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPgChatRepository(db database.DB) *PgChatRepository {
	return &PgChatRepository{db: db, now: time.Now}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

func (r *PgChatRepository) FindByDedupKey(ctx context.Context, key chat.DedupKey) (*chat.Chat, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var c chat.Chat
	err := r.db.QueryRow(ctx, `
		SELECT id::text, type, title, dedup_key, created_at, updated_at
		FROM chat.chats
		WHERE dedup_key = $1
	`, string(key)).Scan(&c.ID, &c.Type, &c.Title, &c.DedupKey, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err)
	}

	participants, err := r.participants(ctx, c.ID)
	if err != nil {
		return nil, mapPgError(err)
	}
	c.Participants = participants
	return &c, nil
}

// CommitNewChat inserts the chat row and every participant row in one transaction.
// The unique constraint on dedup_key is what serializes concurrent creators.
func (r *PgChatRepository) CommitNewChat(ctx context.Context, a *chat.ChatAggregate) (*chat.Chat, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if a == nil || len(a.Participants) == 0 {
		return nil, errors.New("PgChatRepository: empty aggregate")
	}

	c := a.Materialize(uuid.NewString(), r.now())
	err := database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.chats (id, type, title, dedup_key, created_at, updated_at)
			VALUES ($1::uuid, $2, $3, $4, $5, $6)
		`, c.ID, string(c.Type), c.Title, string(c.DedupKey), c.CreatedAt, c.UpdatedAt); err != nil {
			return err
		}

		rows := make([][]any, 0, len(c.Participants))
		for _, p := range c.Participants {
			rows = append(rows, []any{c.ID, p.UserID, string(p.Role), p.Position})
		}
		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"chat", "chat_participants"},
			[]string{"chat_id", "user_id", "role", "position"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}
		if int(n) != len(rows) {
			return fmt.Errorf("PgChatRepository: inserted %d of %d participants", n, len(rows))
		}
		return nil
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return c, nil
}

func (r *PgChatRepository) participants(ctx context.Context, chatID string) ([]chat.Participant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT chat_id::text, user_id, role, position
		FROM chat.chat_participants
		WHERE chat_id = $1::uuid
		ORDER BY position
	`, chatID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[chat.Participant])
}

func (r *PgChatRepository) IsParticipant(ctx context.Context, chatID string, userID int64) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.chat_participants WHERE chat_id = $1::uuid AND user_id = $2
		)
	`, chatID, userID).Scan(&ok)
	if err != nil {
		return false, mapPgError(err)
	}
	return ok, nil
}

func (r *PgChatRepository) ListParticipantIDs(ctx context.Context, chatID string) ([]int64, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.db.Query(ctx, `
		SELECT user_id FROM chat.chat_participants
		WHERE chat_id = $1::uuid
		ORDER BY position
	`, chatID)
	if err != nil {
		return nil, mapPgError(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, mapPgError(err)
	}
	return ids, nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	if r == nil || r.db == nil {
		return "", errors.New("PgChatRepository: nil pool")
	}
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO chat.message (
			chat_id, sender_id, created_at, body, msg_type, attachment_url, attachment_meta, dedupe_key
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7::json, $8)
		RETURNING id::text
	`, m.ChatID, m.SenderID, m.CreatedAt, m.Body, m.MsgType, m.AttachmentURL, m.AttachmentMeta, m.DedupeKey).Scan(&id)
	if err != nil {
		return "", mapPgError(err)
	}
	return id, nil
}

func (r *PgChatRepository) GetMessagesByChat(ctx context.Context, chatID string, limit int, offset int) ([]chat.Message, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	limit, offset = page(limit, offset)
	rows, err := r.db.Query(ctx, `
		SELECT id::text, chat_id::text, sender_id, created_at, body, msg_type, attachment_url, attachment_meta::text, dedupe_key
		FROM chat.message
		WHERE chat_id = $1::uuid
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, chatID, limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[chat.Message])
	if err != nil {
		return nil, mapPgError(err)
	}
	return msgs, nil
}

// mapPgError folds driver errors into the gateway's error contract.
func mapPgError(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, dedupConstraint):
		return repository.ErrDuplicateDedupKey
	case database.IsTransient(err):
		return fmt.Errorf("%w: %w", chat.ErrStorageUnavailable, err)
	default:
		return err
	}
}

func page(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = 50
	case limit > 200:
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
