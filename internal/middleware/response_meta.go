package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/pkg/middleware/requestid"
)

const (
	responseMetaKey = "response_meta"
	requestStartKey = "request_start"
	cacheHitKey     = "cache_hit"
)

// WithResponseMeta initialises response metadata storage. It runs after the request
// id middleware so the id can be echoed in the envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := map[string]interface{}{}
		if id := requestid.Value(c); id != "" {
			meta["request_id"] = id
		}
		c.Set(requestStartKey, time.Now())
		c.Set(responseMetaKey, meta)
		c.Next()
	}
}

// SetCacheHit records cache hit information for the current response.
func SetCacheHit(c *gin.Context, hit bool) {
	meta := ensureMeta(c)
	meta[cacheHitKey] = hit
}

// ExtractMeta returns the metadata stored on the context with the elapsed processing
// time filled in. It returns nil when WithResponseMeta did not run.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	value, exists := c.Get(responseMetaKey)
	if !exists {
		return nil
	}
	meta, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	if start, ok := c.Get(requestStartKey); ok {
		if t, ok := start.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(t).Milliseconds()
		}
	}
	return meta
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	newMeta := make(map[string]interface{})
	c.Set(responseMetaKey, newMeta)
	return newMeta
}
