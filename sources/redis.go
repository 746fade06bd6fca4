package sources

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/treetab/treetab/core"
)

// Register source
func init() {
	_ = register(&Redis{}, "redis")
}

var _ core.Source = (*Redis)(nil)

type Redis struct{}

func (r *Redis) Connect(url string) (core.Driver, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to redis database: %w", err)
	}
	c := redis.NewClient(opt)

	return &redisDriver{
		redis: c,
	}, nil
}
