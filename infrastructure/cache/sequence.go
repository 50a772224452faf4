package cache

import (
	"context"
	"fmt"

	"crowdfund-service/domain/repository"

	"github.com/redis/go-redis/v9"
)

const sequenceKeyPrefix = "crowdfund:seq:"

// nextScript raises the counter to the floor before incrementing so a counter
// created after data already exists still continues from the stored maximum.
var nextScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local floor = tonumber(ARGV[1])
if current < floor then
	current = floor
end
current = current + 1
redis.call('SET', KEYS[1], current)
return current
`)

type RedisSequence struct {
	client redis.Scripter
}

func NewRedisSequence(client redis.Scripter) repository.ISequence {
	return &RedisSequence{client: client}
}

func (s *RedisSequence) Next(ctx context.Context, name string, floor int64) (int64, error) {
	n, err := nextScript.Run(ctx, s.client, []string{sequenceKeyPrefix + name}, floor).Int64()
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	return n, nil
}
