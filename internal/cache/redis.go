package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// ErrMiss is returned when a requested key is not in the cache.
var ErrMiss = errors.New("cache miss")

// seatMapTTL keeps seat map snapshots short-lived; they are rebuilt
// from the inventory on miss.
const seatMapTTL = 5 * time.Second

// RedisCache is the read-side availability snapshot store. Booking
// correctness never depends on it; browsing reads it so they never
// contend with in-flight claims.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(url string) (*RedisCache, error) {
	client := redis.NewClient(
		&redis.Options{
			Addr:     url,
			Password: "",
			DB:       0,
		},
	)
	redisCache := &RedisCache{Client: client}

	return redisCache, nil
}

// Init resets the cache and seeds the per-showing available counters.
func (r *RedisCache) Init(showingAvailableMap map[uint]int) error {
	if err := r.Client.FlushDB(ctx).Err(); err != nil {
		return err
	}
	return r.initAvailableCounters(showingAvailableMap)
}

func (r *RedisCache) initAvailableCounters(showingAvailableMap map[uint]int) error {
	if len(showingAvailableMap) == 0 {
		return nil
	}
	args := make([]any, 0, len(showingAvailableMap)*2)
	for showingID, available := range showingAvailableMap {
		args = append(args, MakeShowingAvailableKey(showingID), available)
	}

	_, err := initCountersScript.Run(ctx, r.Client, []string{}, args...).Result()
	return err
}

// AdjustAvailable applies a delta to a showing's available counter,
// clamped at zero. An unknown showing is a no-op.
func (r *RedisCache) AdjustAvailable(showingID uint, delta int) error {
	key := MakeShowingAvailableKey(showingID)
	_, err := adjustAvailableScript.Run(ctx, r.Client, []string{key}, delta).Result()
	return err
}

func (r *RedisCache) GetAvailable(showingID uint) (int, error) {
	key := MakeShowingAvailableKey(showingID)
	n, err := r.Client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrMiss
		}
		return 0, err
	}
	return n, nil
}

func (r *RedisCache) SetSeatMap(showingID uint, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, MakeShowingSeatMapKey(showingID), data, seatMapTTL).Err()
}

func (r *RedisCache) GetSeatMap(showingID uint, dest any) error {
	data, err := r.Client.Get(ctx, MakeShowingSeatMapKey(showingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// InvalidateSeatMap drops the cached layout after a claim or release so
// the next browse rebuilds it from live state.
func (r *RedisCache) InvalidateSeatMap(showingID uint) error {
	return r.Client.Del(ctx, MakeShowingSeatMapKey(showingID)).Err()
}
