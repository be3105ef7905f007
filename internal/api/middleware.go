package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "chat_session"
	sessionCookieAge  = 30 * 24 * time.Hour
)

// sessionKey returns the opaque key identifying this visitor's conversation.
// The cookie wins; otherwise a stable key is derived from client address and
// user agent, and as a last resort a fresh random key is minted. A key is
// always produced — session assignment never fails.
func (h *Handler) sessionKey(c *gin.Context) string {
	if key, err := c.Cookie(sessionCookieName); err == nil && key != "" {
		return key
	}
	key := h.deriveKey(c)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, key, int(sessionCookieAge.Seconds()), "/", "", gin.Mode() == gin.ReleaseMode, true)
	return key
}

func (h *Handler) deriveKey(c *gin.Context) string {
	ip := c.ClientIP()
	ua := c.Request.UserAgent()
	if ip == "" && ua == "" {
		data := fmt.Sprintf("%s:%d", uuid.NewString(), time.Now().UnixNano())
		sum := sha256.Sum256([]byte(data))
		return hex.EncodeToString(sum[:])
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", ip, ua, h.hashSalt)))
	return hex.EncodeToString(sum[:])
}

// rateLimited rejects chat requests beyond the per-minute budget for one
// session key. Without a redis client every request is allowed.
func (h *Handler) rateLimited() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || h.rateLimit <= 0 {
			c.Next()
			return
		}
		key := "ratelimit:" + h.sessionKey(c) + ":" + strconv.FormatInt(time.Now().Unix()/60, 10)
		ok, err := h.cache.Allow(c.Request.Context(), key, h.rateLimit, time.Minute)
		if err != nil {
			// Rate limiting is advisory; a redis hiccup must not block chat.
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please slow down"})
			return
		}
		c.Next()
	}
}
