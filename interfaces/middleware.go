package interfaces

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"itcommunity/domain"
	"itcommunity/infrastructure"
)

const (
	requestIDKey = "request_id"
	claimsKey    = "claims"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(raw string) (*infrastructure.Claims, error)
}

// RequestID tags every request with an id, reusing X-Request-ID when the
// caller sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// AccessLog writes one line per request.
func AccessLog(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}
		if claims := claimsFrom(c); claims != nil {
			fields["user_id"] = claims.UserID
		}

		entry := log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}

// Limiters unused for limiterIdle are dropped, checked at most every limiterSweep.
const (
	limiterIdle  = 5 * time.Minute
	limiterSweep = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one token bucket per client key.
type clientLimiters struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{rps: rate.Limit(rps), burst: burst, clients: map[string]*clientLimiter{}}
}

func (l *clientLimiters) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= limiterSweep {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) >= limiterIdle {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// RateLimit allows rps requests per second per client IP with the given burst.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := newClientLimiters(rps, burst)
	return func(c *gin.Context) {
		limiter := limiters.get(c.ClientIP(), time.Now())
		if !limiter.Allow() {
			abortWithError(c, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth reads a bearer token when present; a bad token is treated as anonymous.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := tokens.Parse(raw); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

// RequireRoles lets the request through only when the caller's role is listed.
// It must run after Authenticate.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, string(domain.KindForbidden), "your role may not perform this action")
	}
}

func claimsFrom(c *gin.Context) *infrastructure.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*infrastructure.Claims)
	return claims
}

// userID is the authenticated caller, or 0 for anonymous requests.
func userID(c *gin.Context) uint {
	if claims := claimsFrom(c); claims != nil {
		return claims.UserID
	}
	return 0
}
