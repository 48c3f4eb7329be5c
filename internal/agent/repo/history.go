package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leafdoc-core/server/internal/agent/model"
	errx "github.com/leafdoc-core/server/internal/core/error"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

type RedisHistoryRepository struct {
	rdb      redis.Cmdable
	key      string
	maxItems int
	ttl      time.Duration
}

// NewRedisHistoryRepository stores history as a Redis list under key. maxItems
// caps the list (0 keeps everything); ttl expires it after inactivity (0 never).
func NewRedisHistoryRepository(rdb redis.Cmdable, key string, maxItems int, ttl time.Duration) *RedisHistoryRepository {
	return &RedisHistoryRepository{rdb: rdb, key: key, maxItems: maxItems, ttl: ttl}
}

func (r *RedisHistoryRepository) Append(ctx context.Context, item model.ScanHistoryItem) error {
	b, err := json.Marshal(item)
	if err != nil {
		logx.Error().Err(err).Str("item_id", item.ID).Msg("failed to marshal history item")
		return errx.New(errx.KindStorage, fmt.Errorf("marshal history item: %w", err), "")
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// newest first
		pipe.LPush(ctx, r.key, b)
		if r.maxItems > 0 {
			pipe.LTrim(ctx, r.key, 0, int64(r.maxItems-1))
		}
		// extend TTL on touch
		if r.ttl > 0 {
			pipe.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", r.key).Msg("failed to push history item to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisHistoryRepository) Load(ctx context.Context) ([]model.ScanHistoryItem, error) {
	rows, err := r.rdb.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.ScanHistoryItem{}, nil
		}
		logx.Error().Err(err).Str("key", r.key).Msg("failed to load history from redis")
		return nil, errx.WrapRedis(err)
	}

	items := make([]model.ScanHistoryItem, 0, len(rows))
	for i, s := range rows {
		var it model.ScanHistoryItem
		if err := json.Unmarshal([]byte(s), &it); err != nil {
			// one corrupt entry must not hide the rest of the history
			logx.Warn().Err(err).Str("key", r.key).Int("index", i).Msg("skipping unreadable history item")
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *RedisHistoryRepository) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		logx.Error().Err(err).Str("key", r.key).Msg("failed to delete history from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisHistoryRepository) Count(ctx context.Context) (int, error) {
	n, err := r.rdb.LLen(ctx, r.key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		logx.Error().Err(err).Str("key", r.key).Msg("failed to get history count from redis")
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

var _ model.HistoryRepository = (*RedisHistoryRepository)(nil)
