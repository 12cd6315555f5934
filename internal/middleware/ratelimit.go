package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/shorty/internal/config"
)

type clientWindow struct {
	count     int
	expiresAt time.Time
}

// RateLimiter caps redirect requests per client IP within a fixed window.
// State is in-process only; each replica enforces its own budget.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientWindow
	maxRequests int
	window      time.Duration
	stop        chan struct{}
}

// NewRateLimiter creates a rate limiter from configuration and starts its
// background cleanup. Call Stop on shutdown.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*clientWindow),
		maxRequests: cfg.MaxRedirectsPerMinute,
		window:      time.Duration(cfg.WindowSeconds) * time.Second,
		stop:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for ip, win := range rl.clients {
				if now.After(win.expiresAt) {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// allow records one request for ip and reports whether it fits the window.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	win, exists := rl.clients[ip]
	if !exists || now.After(win.expiresAt) {
		rl.clients[ip] = &clientWindow{count: 1, expiresAt: now.Add(rl.window)}
		return true
	}

	win.count++
	return win.count <= rl.maxRequests
}

// Middleware returns the Gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
