package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/writeitdown/internal/http/response"
	"github.com/magabrotheeeer/writeitdown/internal/metrics"
)

// limiterIdleTTL: лимитер клиента, не обращавшегося дольше, удаляется.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter выдаёт отдельный token bucket каждому клиенту.
type ClientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewClientLimiter создаёт лимитер: limit запросов в секунду и запас burst на каждого клиента.
func NewClientLimiter(limit rate.Limit, burst int) *ClientLimiter {
	return &ClientLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow расходует токен клиента key.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *ClientLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterIdleTTL {
		return
	}
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= limiterIdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// clientKey возвращает IP клиента из RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware отклоняет запросы клиента сверх его лимита ответом 429.
func RateLimitMiddleware(limiter *ClientLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				log.Warn("too many requests", slog.String("path", r.URL.Path))
				metrics.RateLimitedTotal.Inc()
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(response.MsgTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
