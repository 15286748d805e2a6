package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit counts a hit for id on resource in a fixed window and
// reports whether it is still under limit. A nil client always allows.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			// A counter without a TTL would block id forever.
			rdb.Del(ctx, key)
			return true, err
		}
		return true, nil
	}
	if cnt <= int64(limit) {
		return true, nil
	}

	// Over the limit: make sure the window can still run out.
	ttl, err := rdb.TTL(ctx, key).Result()
	if err == nil && ttl < 0 {
		err = rdb.Expire(ctx, key, window).Err()
	}
	return false, err
}

// RateLimit allows limit requests per client IP per window on resource.
// Redis failures let the request through. X-Forwarded-For is only used
// when trustProxy is set.
func RateLimit(rdb *redis.Client, resource string, limit int, window time.Duration, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := CheckRateLimit(r.Context(), rdb, resource, clientIP(r, trustProxy), limit, window)
			if err != nil {
				logger.Log.WithError(err).Warn("Rate limiter error")
			}
			if !allowed {
				metrics.RateLimited.WithLabelValues(resource).Inc()
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", window.Seconds()))
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
