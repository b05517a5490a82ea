package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"artifact-catalog-service/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// captureWriter keeps a copy of the body while writing it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func cacheKey(prefix string, c *gin.Context) string {
	sum := sha1.Sum([]byte(c.FullPath() + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], body)
	return out, nil
}

func decodePayload(bs []byte) (int, http.Header, []byte, bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status := int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// Cache serves successful GET responses from Redis for ttl. With no client
// or caching disabled it does nothing.
func Cache(cfg config.CacheConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(cfg.Prefix, c)
		if bs, err := rdb.Get(c.Request.Context(), key).Bytes(); err == nil {
			if status, header, body, ok := decodePayload(bs); ok {
				for k, vals := range header {
					if k == "Content-Length" {
						continue
					}
					for _, v := range vals {
						c.Writer.Header().Add(k, v)
					}
				}
				c.Header("X-Cache", "HIT")
				c.Status(status)
				_, _ = c.Writer.Write(body)
				c.Abort()
				return
			}
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() != http.StatusOK {
			return
		}
		header := c.Writer.Header().Clone()
		header.Del("X-Cache")
		payload, err := encodePayload(cw.Status(), header, cw.buf.Bytes())
		if err != nil {
			return
		}
		if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
			log.WithError(err).WithField("key", key).Warn("cache store failed")
		}
	}
}
