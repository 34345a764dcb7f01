package quota

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "guest_quota:"

// KEYS[1]: 计数 key
// ARGV[1]: 窗口秒数，0 表示永不过期
// ARGV[2]: 当前 Unix 时间，记录最后更新时间
//
// 返回自增后的计数
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local window = tonumber(ARGV[1])
if count == 1 and window > 0 then
    redis.call('EXPIRE', KEYS[1], window)
end
redis.call('SET', KEYS[1] .. ':updated_at', ARGV[2])
if window > 0 then
    redis.call('EXPIRE', KEYS[1] .. ':updated_at', window)
end
return count
`)

// RedisStore 基于 Redis 的配额计数，Lua 脚本保证原子性
type RedisStore struct {
	client *redis.Client
	window time.Duration
}

// NewRedisStore window 为 0 时计数永不过期
func NewRedisStore(client *redis.Client, window time.Duration) *RedisStore {
	return &RedisStore{client: client, window: window}
}

// Increment 实现 Store
func (s *RedisStore) Increment(ctx context.Context, ip string) (int64, error) {
	windowSeconds := int64(0)
	if s.window > 0 {
		windowSeconds = int64(s.window / time.Second)
		if windowSeconds == 0 {
			windowSeconds = 1
		}
	}
	return incrementScript.Run(ctx, s.client,
		[]string{redisKeyPrefix + ip},
		windowSeconds, time.Now().Unix(),
	).Int64()
}
