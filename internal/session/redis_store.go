package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps each session in a hash under session:<id>. The key expires
// ttl after the last write, so no purging is needed.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// OpenRedis parses a redis:// url and verifies the server is reachable.
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func redisKey(id uuid.UUID) string {
	return redisKeyPrefix + id.String()
}

func (s *RedisStore) Load(ctx context.Context, id uuid.UUID) (Record, error) {
	fields, err := s.client.HGetAll(ctx, redisKey(id)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("error loading session %s: %w", id, err)
	}
	if len(fields) == 0 {
		return Record{}, ErrNotFound
	}

	rec := Record{Id: id, Data: []byte(fields["data"])}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return Record{}, fmt.Errorf("invalid created_at for session %s: %w", id, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields["updated_at"]); err != nil {
		return Record{}, fmt.Errorf("invalid updated_at for session %s: %w", id, err)
	}
	return rec, nil
}

func (s *RedisStore) Save(ctx context.Context, id uuid.UUID, data []byte) error {
	key := redisKey(id)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, "created_at", now)
		pipe.HSet(ctx, key, "data", data, "updated_at", now)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error saving session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("error deleting session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	var records []Record

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id, err := uuid.Parse(strings.TrimPrefix(iter.Val(), redisKeyPrefix))
		if err != nil {
			continue
		}
		rec, err := s.Load(ctx, id)
		if err == ErrNotFound {
			// Expired between the scan and the read.
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return records, nil
}
