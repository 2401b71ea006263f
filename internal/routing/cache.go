// README: Redis-backed cache decorator for route resolvers.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ridematch/internal/types"
)

// CachedResolver memoises route estimates in Redis. Coordinates are rounded
// to four decimals (~11m) so nearby lookups share entries. Cache failures are
// ignored; the wrapped resolver always gets the final word.
type CachedResolver struct {
	next  Resolver
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedResolver(next Resolver, rdb *redis.Client, ttl time.Duration) *CachedResolver {
	return &CachedResolver{next: next, redis: rdb, ttl: ttl}
}

func (c *CachedResolver) Resolve(ctx context.Context, from, to types.Point) (RouteEstimate, error) {
	key := routeKey(from, to)

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var est RouteEstimate
		if json.Unmarshal([]byte(val), &est) == nil {
			return est, nil
		}
	}

	est, err := c.next.Resolve(ctx, from, to)
	if err != nil {
		return RouteEstimate{}, err
	}

	if b, err := json.Marshal(est); err == nil {
		_ = c.redis.Set(ctx, key, b, c.ttl).Err()
	}
	return est, nil
}

func routeKey(from, to types.Point) string {
	return fmt.Sprintf("route:%.4f,%.4f:%.4f,%.4f", from.Lat, from.Lng, to.Lat, to.Lng)
}
