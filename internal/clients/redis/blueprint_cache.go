package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/structa/structa-backend/internal/logger"
	"github.com/structa/structa-backend/internal/types"
	"github.com/structa/structa-backend/internal/utils"
)

// BlueprintCache holds the per-company blueprint listing. Every blueprint
// mutation (create, update, delete, duplicate, publish) must invalidate the
// company entry so readers never see archived/new version rows stale.
type BlueprintCache interface {
	GetCompanyList(ctx context.Context, companyID string) ([]*types.Blueprint, bool)
	SetCompanyList(ctx context.Context, companyID string, rows []*types.Blueprint) error
	InvalidateCompany(ctx context.Context, companyID string) error
	Close() error
}

type blueprintCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewBlueprintCache(log *logger.Logger) (BlueprintCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("REDIS_BLUEPRINT_TTL", 300)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &blueprintCache{
		log: log.With("service", "RedisBlueprintCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func cacheKey(companyID string) string {
	return "blueprints:" + companyID
}

func (c *blueprintCache) GetCompanyList(ctx context.Context, companyID string) ([]*types.Blueprint, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(companyID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Blueprint cache read failed", "error", err, "company_id", companyID)
		}
		return nil, false
	}
	var rows []*types.Blueprint
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.log.Warn("Blueprint cache entry corrupt, dropping", "error", err, "company_id", companyID)
		_ = c.rdb.Del(ctx, cacheKey(companyID)).Err()
		return nil, false
	}
	return rows, true
}

func (c *blueprintCache) SetCompanyList(ctx context.Context, companyID string, rows []*types.Blueprint) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("blueprint cache not initialized")
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal blueprint list: %w", err)
	}
	return c.rdb.Set(ctx, cacheKey(companyID), raw, c.ttl).Err()
}

func (c *blueprintCache) InvalidateCompany(ctx context.Context, companyID string) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("blueprint cache not initialized")
	}
	return c.rdb.Del(ctx, cacheKey(companyID)).Err()
}

func (c *blueprintCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
