package service

import (
	"context"
	"fmt"
	"time"

	"prepareup-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type IUsageLimiterService interface {
	// Allow counts one AI call for the key and reports whether it is still
	// under the daily cap. Keys are user ids, or session ids for anonymous
	// traffic.
	Allow(ctx context.Context, key string) (bool, error)
}

type usageLimiterService struct {
	client   *redis.Client
	dailyCap int64
	log      logger.ILogger
}

func NewUsageLimiterService(client *redis.Client, dailyCap int64, log logger.ILogger) IUsageLimiterService {
	return &usageLimiterService{
		client:   client,
		dailyCap: dailyCap,
		log:      log,
	}
}

func (s *usageLimiterService) Allow(ctx context.Context, key string) (bool, error) {
	if s.client == nil || key == "" {
		return true, nil
	}

	now := time.Now().UTC()
	redisKey := fmt.Sprintf("usage:%s:%s", now.Format("2006-01-02"), key)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		// Redis being down must not take the product down with it.
		s.log.Warn("limiter", "Usage counter unavailable, allowing request", map[string]interface{}{
			"error": err.Error(),
		})
		return true, nil
	}
	if count == 1 {
		ttl := time.Until(now.Truncate(24 * time.Hour).Add(24 * time.Hour))
		s.client.Expire(ctx, redisKey, ttl)
	}

	return count <= s.dailyCap, nil
}
