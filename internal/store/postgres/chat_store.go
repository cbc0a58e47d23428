package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iamaamunir/chat-app/internal/models"
)

// ErrConstraint marks schema/validation rejections (null content, duplicate
// room name, broken reference) so callers can tell them from connection
// failures.
var ErrConstraint = errors.New("constraint violation")

const (
	createChatsTable = `CREATE TABLE IF NOT EXISTS chats (
		id SERIAL PRIMARY KEY,
		roomname VARCHAR(255) NOT NULL UNIQUE,
		username VARCHAR(255) NOT NULL,
		state VARCHAR(50) NOT NULL,
		createdAt TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updatedAt TIMESTAMPTZ DEFAULT NOW()
	)`

	createMessagesTable = `CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		chat_id INT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		createdAt TIMESTAMPTZ DEFAULT NOW()
	)`
)

// Connect builds a pgx pool and verifies the connection.
func Connect(ctx context.Context, uri string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("parse postgres uri: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// ChatStore persists chat events as normalized rows: one chats row owning
// zero or more messages rows.
type ChatStore struct {
	pool *pgxpool.Pool
}

func NewChatStore(pool *pgxpool.Pool) *ChatStore {
	return &ChatStore{pool: pool}
}

// CreateSchema creates both tables if they do not exist. Run once at startup.
func (s *ChatStore) CreateSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createChatsTable); err != nil {
		return fmt.Errorf("create chats table: %w", err)
	}
	if _, err := s.pool.Exec(ctx, createMessagesTable); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}

// InsertChatWithMessages writes the parent chat row and all its message rows
// in one transaction and returns the generated chat id. Any failure rolls
// back everything; the connection goes back to the pool either way.
func (s *ChatStore) InsertChatWithMessages(ctx context.Context, ev *models.ChatEvent) (int64, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var chatID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO chats (roomname, username, state) VALUES ($1, $2, $3) RETURNING id`,
		ev.RoomName, ev.UserName, ev.State,
	).Scan(&chatID)
	if err != nil {
		return 0, classify(err)
	}

	for _, m := range ev.Messages {
		ts := m.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO messages (chat_id, content, createdAt) VALUES ($1, $2, $3)`,
			chatID, m.Content, ts,
		); err != nil {
			return 0, classify(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return chatID, nil
}

// CountMessages returns the number of message rows owned by a chat.
func (s *ChatStore) CountMessages(ctx context.Context, chatID int64) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE chat_id = $1`, chatID).Scan(&n)
	return n, err
}

// classify wraps constraint-class postgres errors in ErrConstraint.
// 23502 not-null, 23503 foreign key, 23505 unique.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "23503", "23505":
			return fmt.Errorf("%w: %s", ErrConstraint, pgErr.Message)
		}
	}
	return err
}
