package otpredis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tambo-labs/tambo/pkg/iam/otp"
)

const (
	codeKeyPrefix     = "otp:code:"
	verifiedKeyPrefix = "otp:verified:"
)

// consumeScript deletes the stored code only if it matches the submitted
// one. GET+compare+DEL must be a single step; two concurrent verifications
// would otherwise both observe the code before either deletes it.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// RedisStore is a Redis-backed otp.Store. Expiry rides on Redis TTLs, so an
// expired entry is simply absent at consume time.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, email string, entry otp.Entry) error {
	ttl := entry.ExpiresAt.Sub(entry.IssuedAt)
	if ttl <= 0 {
		return fmt.Errorf("otp entry has non-positive lifetime")
	}
	// SET overwrites any previous code for the email (last-request-wins).
	if err := s.client.Set(ctx, codeKeyPrefix+email, entry.Code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, email, code string, _ time.Time) (bool, error) {
	if code == "" {
		return false, nil
	}
	n, err := consumeScript.Run(ctx, s.client, []string{codeKeyPrefix + email}, code).Int()
	if err != nil {
		return false, fmt.Errorf("failed to consume code: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) MarkVerified(ctx context.Context, email string, ttl time.Duration) error {
	if err := s.client.Set(ctx, verifiedKeyPrefix+email, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to record verification: %w", err)
	}
	return nil
}

func (s *RedisStore) ConsumeVerified(ctx context.Context, email string) (bool, error) {
	val, err := s.client.GetDel(ctx, verifiedKeyPrefix+email).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume verification: %w", err)
	}
	return val == "1", nil
}
