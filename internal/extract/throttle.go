package extract

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttle is a fixed-window per-user limiter for extraction calls, backed
// by Redis so multiple bot instances share the window. A nil Throttle
// allows everything.
type Throttle struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewThrottle(rdb *redis.Client, limit int, window time.Duration) *Throttle {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Throttle{rdb: rdb, limit: limit, window: window}
}

// Allow reports whether another extraction may run for the given user in
// the current window.
func (t *Throttle) Allow(ctx context.Context, userID int64) (bool, error) {
	if t == nil || t.rdb == nil {
		return true, nil
	}
	key := fmt.Sprintf("extract:rl:%d", userID)
	res, err := fixedWindowScript.Run(ctx, t.rdb, []string{key}, t.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}
	count, err := toInt64(res)
	if err != nil {
		return false, err
	}
	return count <= int64(t.limit), nil
}

func toInt64(res interface{}) (int64, error) {
	switch v := res.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		// Lua sometimes returns strings depending on Redis config/driver conversions.
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}
