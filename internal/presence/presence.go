package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const memberTTL = 24 * time.Hour

// Store tracks room membership in Redis so other instances can see who is
// where. Key layout: <prefix>:room:<room> is a set of user names.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) roomKey(room string) string {
	return fmt.Sprintf("%s:room:%s", s.prefix, room)
}

// Join marks a user present in a room. The room key expires so abandoned
// rooms do not accumulate.
func (s *Store) Join(ctx context.Context, room, user string) error {
	key := s.roomKey(room)
	if err := s.client.SAdd(ctx, key, user).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, memberTTL).Err()
}

// Leave removes a user from a room.
func (s *Store) Leave(ctx context.Context, room, user string) error {
	return s.client.SRem(ctx, s.roomKey(room), user).Err()
}

// Members lists the users currently present in a room.
func (s *Store) Members(ctx context.Context, room string) ([]string, error) {
	return s.client.SMembers(ctx, s.roomKey(room)).Result()
}
