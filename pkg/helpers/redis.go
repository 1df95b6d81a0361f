package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func RedisSetJSON(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

func RedisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

func RedisDel(ctx context.Context, rdb *redis.Client, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}

// Session is the login state kept in a Redis hash under KeySession(ID).
type Session struct {
	ID          string
	AccountID   string
	Username    string
	Email       string
	IsStaff     bool
	IsSuperuser bool
	CreatedAt   time.Time
}

func SaveSession(ctx context.Context, rdb *redis.Client, s Session, ttl time.Duration) error {
	key := KeySession(s.ID)
	pipe := rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"account_id":   s.AccountID,
		"username":     s.Username,
		"email":        s.Email,
		"is_staff":     flag(s.IsStaff),
		"is_superuser": flag(s.IsSuperuser),
		"created_at":   s.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// LoadSession reports false when the session is missing or expired.
func LoadSession(ctx context.Context, rdb *redis.Client, sid string) (*Session, bool, error) {
	data, err := rdb.HGetAll(ctx, KeySession(sid)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 || data["account_id"] == "" {
		return nil, false, nil
	}
	created, _ := time.Parse(time.RFC3339Nano, data["created_at"])
	return &Session{
		ID:          sid,
		AccountID:   data["account_id"],
		Username:    data["username"],
		Email:       data["email"],
		IsStaff:     data["is_staff"] == "1",
		IsSuperuser: data["is_superuser"] == "1",
		CreatedAt:   created,
	}, true, nil
}

func DeleteSession(ctx context.Context, rdb *redis.Client, sid string) error {
	return rdb.Del(ctx, KeySession(sid)).Err()
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
