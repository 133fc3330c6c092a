package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client is the set of commands the save-slot store issues. A slot is a
// hash; the index of slot names is a set kept in step with it through
// MULTI/EXEC pipelines.
type Client interface {
	Ping(ctx context.Context) *redis.StatusCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Close() error
}
