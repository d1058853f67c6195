package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Policy 描述一条限流规则：同一个 key 在 Window 内最多 Limit 次。
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Key 拼出 Redis key，例如 rl:decode:1.2.3.4。
func (p Policy) Key(subject string) string {
	var b strings.Builder
	b.Grow(len("rl:") + len(p.Name) + 1 + len(subject))
	b.WriteString("rl:")
	b.WriteString(p.Name)
	b.WriteByte(':')
	b.WriteString(subject)
	return b.String()
}

// 滑动窗口：ZSET 的 score 是毫秒时间戳，超限时把本次成员删掉并算出最早一条过期还要多久。
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
redis.call("ZADD", key, now, member)
local count = redis.call("ZCARD", key)
redis.call("PEXPIRE", key, window)

if count <= limit then
  return {1, 0}
end

redis.call("ZREM", key, member)

local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
if oldest[2] ~= nil then
  local retryAfter = (tonumber(oldest[2]) + window) - now
  if retryAfter < 0 then retryAfter = 0 end
  return {0, retryAfter}
end
return {0, window}
`)

type Limiter struct {
	client *redis.Client
	seq    atomic.Uint64
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Allow 返回：allowed、retryAfter（仅当超限时有意义）。
func (l *Limiter) Allow(ctx context.Context, p Policy, subject string) (bool, time.Duration, error) {
	now := time.Now()
	// member 必须每次唯一，否则 ZADD 会覆盖；纳秒时间戳在部分平台会重复，加序列号
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + strconv.FormatUint(l.seq.Add(1), 10)

	res, err := slidingWindow.Run(ctx, l.client, []string{p.Key(subject)},
		now.UnixMilli(), p.Window.Milliseconds(), p.Limit, member).Result()
	if err != nil {
		return false, 0, err
	}

	arr, ok := res.([]any)
	if !ok || len(arr) < 2 {
		return false, 0, fmt.Errorf("unexpected redis eval result: %T %v", res, res)
	}
	allowed, _ := arr[0].(int64)
	var retryAfterMs int64
	switch v := arr[1].(type) {
	case int64:
		retryAfterMs = v
	case string:
		retryAfterMs, _ = strconv.ParseInt(v, 10, 64)
	}
	return allowed == 1, time.Duration(retryAfterMs) * time.Millisecond, nil
}
