package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Raza-100/medication-management/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseStore is the subset of the redis cache client used for GET responses.
type ResponseStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
	Version(ctx context.Context, key string) (int64, error)
	BumpVersion(ctx context.Context, key string) (int64, error)
}

type Counter interface {
	IncrementCounter(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// cacheNow dates cache keys; several cached bodies only hold for the current day.
var cacheNow = time.Now

func versionKey(userID uint) string {
	return fmt.Sprintf("cache:ver:%d", userID)
}

// userCacheKey scopes an entry to the user's data version and the calendar day.
// A write bumps the version, so a fill that raced with it lands under a key
// no later read asks for.
func userCacheKey(userID uint, version int64, c *gin.Context) string {
	return fmt.Sprintf("cache:%d:v%d:%s:%s?%s",
		userID, version, cacheNow().Format("2006-01-02"), c.Request.URL.Path, c.Request.URL.RawQuery)
}

// CacheMiddleware serves authenticated GET requests from the store and caches
// 200 responses per user for ttl. Store errors fall through to the handler.
func CacheMiddleware(store ResponseStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if c.Request.Method != http.MethodGet || !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		version, err := store.Version(ctx, versionKey(userID))
		if err != nil {
			utils.Logger.Warn("cache_version_failed", zap.Error(err), zap.Uint("user_id", userID))
			c.Next()
			return
		}

		key := userCacheKey(userID, version, c)
		var cached CachedResponse
		if err := store.Get(ctx, key, &cached); err == nil {
			utils.Logger.Debug("cache_hit", zap.String("key", key))
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")
		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		resp := CachedResponse{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        blw.body.Bytes(),
		}
		if err := store.Set(ctx, key, resp, ttl); err != nil {
			utils.Logger.Warn("cache_set_failed", zap.Error(err), zap.String("key", key))
		}
	}
}

// InvalidateOnWrite bumps the user's cache version after any successful
// non-GET request and drops the entries cached so far.
func InvalidateOnWrite(store ResponseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := CurrentUserID(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if _, err := store.BumpVersion(ctx, versionKey(userID)); err != nil {
			utils.Logger.Warn("cache_version_bump_failed", zap.Error(err), zap.Uint("user_id", userID))
		}
		pattern := fmt.Sprintf("cache:%d:*", userID)
		if err := store.DeletePattern(ctx, pattern); err != nil {
			utils.Logger.Warn("cache_invalidate_failed", zap.Error(err), zap.Uint("user_id", userID))
			return
		}
		utils.Logger.Debug("user_cache_invalidated", zap.Uint("user_id", userID))
	}
}

// RateLimitMiddleware allows maxRequests per client IP in each window.
// Counter failures let the request through.
func RateLimitMiddleware(counter Counter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := "rate_limit:" + clientIP

		count, err := counter.IncrementCounter(c.Request.Context(), key, window)
		if err != nil {
			utils.Logger.Error("rate_limit_error", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, maxRequests-int(count))))

		if count > int64(maxRequests) {
			utils.Logger.Warn("rate_limit_exceeded",
				zap.String("ip", clientIP),
				zap.Int64("count", count),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"})
			return
		}

		c.Next()
	}
}
