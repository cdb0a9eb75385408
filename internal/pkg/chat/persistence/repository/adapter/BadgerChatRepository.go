package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key layout:
//
//	chat:dedup:<dedup_key>            -> chat id
//	chat:id:<chat_id>                 -> chat JSON, participants included
//	chat:member:<chat_id>:<user_id>   -> role
//	chat:msg:<chat_id>:<unix_nano>:<message_id> -> message JSON
const (
	dedupPrefix  = "chat:dedup:"
	chatPrefix   = "chat:id:"
	memberPrefix = "chat:member:"
	msgPrefix    = "chat:msg:"
)

// BadgerChatRepository is the embedded store used by single-node deployments and tests.
// Badger transactions are serializable, so two creators that both read a missing dedup key
// cannot both commit: the later one fails with badger.ErrConflict.
type BadgerChatRepository struct {
	db  *badger.DB
	now func() time.Time

	// beforeCommit runs inside the write transaction after every row is staged.
	beforeCommit func(txn *badger.Txn) error
}

func NewBadgerChatRepository(db *badger.DB) *BadgerChatRepository {
	return &BadgerChatRepository{db: db, now: time.Now}
}

var _ repository.ChatRepository = (*BadgerChatRepository)(nil)

func (r *BadgerChatRepository) FindByDedupKey(ctx context.Context, key chat.DedupKey) (*chat.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var c *chat.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, dedupPrefix+string(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		c, err = getChat(txn, id)
		return err
	})
	if err != nil {
		return nil, mapBadgerError(err)
	}
	return c, nil
}

func (r *BadgerChatRepository) CommitNewChat(ctx context.Context, a *chat.ChatAggregate) (*chat.Chat, error) {
	if a == nil || len(a.Participants) == 0 {
		return nil, errors.New("BadgerChatRepository: empty aggregate")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := a.Materialize(uuid.NewString(), r.now())
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		dedup := []byte(dedupPrefix + string(c.DedupKey))
		if _, err := txn.Get(dedup); err == nil {
			return repository.ErrDuplicateDedupKey
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(dedup, []byte(c.ID)); err != nil {
			return err
		}
		if err := txn.Set([]byte(chatPrefix+c.ID), data); err != nil {
			return err
		}
		for _, p := range c.Participants {
			if err := txn.Set(memberKey(c.ID, p.UserID), []byte(p.Role)); err != nil {
				return err
			}
		}
		if r.beforeCommit != nil {
			return r.beforeCommit(txn)
		}
		return nil
	})
	if err != nil {
		return nil, mapBadgerError(err)
	}
	return c, nil
}

func (r *BadgerChatRepository) IsParticipant(ctx context.Context, chatID string, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(chatID, userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		ok = err == nil
		return err
	})
	if err != nil {
		return false, mapBadgerError(err)
	}
	return ok, nil
}

func (r *BadgerChatRepository) ListParticipantIDs(ctx context.Context, chatID string) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []int64
	err := r.db.View(func(txn *badger.Txn) error {
		c, err := getChat(txn, chatID)
		if err != nil {
			return err
		}
		if c != nil {
			ids = c.ParticipantIDs()
		}
		return nil
	})
	if err != nil {
		return nil, mapBadgerError(err)
	}
	return ids, nil
}

func (r *BadgerChatRepository) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.ID = uuid.NewString()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now().UTC()
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}
	key := fmt.Sprintf("%s%s:%020d:%s", msgPrefix, m.ChatID, m.CreatedAt.UnixNano(), m.ID)
	if err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	}); err != nil {
		return "", mapBadgerError(err)
	}
	return m.ID, nil
}

// GetMessagesByChat returns newest messages first.
func (r *BadgerChatRepository) GetMessagesByChat(ctx context.Context, chatID string, limit int, offset int) ([]chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = page(limit, offset)
	prefix := []byte(msgPrefix + chatID + ":")

	var msgs []chat.Message
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		for it.Seek(append(append([]byte{}, prefix...), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			var m chat.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			}); err != nil {
				return err
			}
			msgs = append(msgs, m)
			if len(msgs) == limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapBadgerError(err)
	}
	return msgs, nil
}

func memberKey(chatID string, userID int64) []byte {
	return []byte(memberPrefix + chatID + ":" + strconv.FormatInt(userID, 10))
}

func getString(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

// getChat returns (nil, nil) when the chat does not exist.
func getChat(txn *badger.Txn, id string) (*chat.Chat, error) {
	item, err := txn.Get([]byte(chatPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c chat.Chat
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &c)
	}); err != nil {
		return nil, err
	}
	return &c, nil
}

func mapBadgerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicateDedupKey), errors.Is(err, badger.ErrConflict):
		// Only the dedup key is read inside the write transaction.
		return repository.ErrDuplicateDedupKey
	case errors.Is(err, badger.ErrDBClosed), errors.Is(err, badger.ErrBlockedWrites):
		return fmt.Errorf("%w: %w", chat.ErrStorageUnavailable, err)
	default:
		return err
	}
}
