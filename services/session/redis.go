package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"jobbot/models"
)

const sessionPrefix = "chat:session:"

// RedisStore keeps sessions as JSON documents. A zero ttl means no expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func (s *RedisStore) GetOrCreate(ctx context.Context, id string) (*models.Session, bool, error) {
	sess, err := s.Get(ctx, id)
	if err == nil {
		return sess, false, nil
	}
	if err != ErrNotFound {
		return nil, false, err
	}
	sess = models.NewSession(id, s.now())
	b, err := json.Marshal(sess)
	if err != nil {
		return nil, false, err
	}
	// SETNX so two first messages racing on different replicas agree
	ok, err := s.client.SetNX(ctx, sessionPrefix+id, b, s.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("create session %s: %w", id, err)
	}
	if !ok {
		existing, err := s.Get(ctx, id)
		return existing, false, err
	}
	return sess, true, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+sess.ID, b, s.ttl).Err()
}

func (s *RedisStore) Reset(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Del(ctx, sessionPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
