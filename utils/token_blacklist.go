package utils

import (
	"context"
	"sync"
	"time"
)

const blacklistPrefix = "jwt:blacklist:"

var (
	blacklist   = map[string]time.Time{}
	blacklistMu sync.RWMutex
)

// BlacklistToken revokes a token until its natural expiration. Redis is used when
// configured, otherwise an in-process map.
func BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, blacklistPrefix+token, "1", ttl).Err(); err != nil {
			RedisErrors.WithLabelValues("blacklist_set").Inc()
			return err
		}
		return nil
	}
	blacklistMu.Lock()
	blacklist[token] = expiresAt
	blacklistMu.Unlock()
	return nil
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistPrefix+token).Result()
		if err != nil {
			// fail open so a Redis outage does not lock everyone out
			RedisErrors.WithLabelValues("blacklist_exists").Inc()
			Sugar.Warnf("token blacklist lookup failed: %v", err)
			return false
		}
		return n > 0
	}

	blacklistMu.RLock()
	expiresAt, ok := blacklist[token]
	blacklistMu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		blacklistMu.Lock()
		delete(blacklist, token)
		blacklistMu.Unlock()
		return false
	}
	return true
}
