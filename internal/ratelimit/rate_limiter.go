package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bornholm/deepidia/internal/syncx"
	"github.com/bornholm/deepidia/pkg/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// DefaultIdleTimeout is how long a client limiter is kept without requests.
const DefaultIdleTimeout = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

type RateLimiter struct {
	rate        rate.Limit
	burst       int
	idleTimeout time.Duration
	now         func() time.Time

	clients   syncx.Map[string, *client]
	lastPrune atomic.Int64
}

type GetClientKeyFunc func(r *http.Request) (string, error)

// Middleware limits requests per client key. Requests whose method is not
// listed in methods pass through untouched; an empty list limits every method.
func (l *RateLimiter) Middleware(getClientKey GetClientKeyFunc, methods ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if len(methods) > 0 && !contains(methods, r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			clientKey, err := getClientKey(r)
			if err != nil {
				slog.ErrorContext(ctx, "could not retrieve client key", log.Error(errors.WithStack(err)))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !l.Allow(clientKey) {
				slog.WarnContext(ctx, "rate limit exceeded", slog.String("client", clientKey))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (l *RateLimiter) Allow(clientKey string) bool {
	now := l.now()

	l.pruneEvery(now, l.idleTimeout)

	c, _ := l.clients.LoadOrStore(clientKey, &client{limiter: rate.NewLimiter(l.rate, l.burst)})
	c.lastSeen.Store(now.UnixNano())

	return c.limiter.AllowN(now, 1)
}

// Prune forgets the clients idle since before the given time and returns
// how many were removed.
func (l *RateLimiter) Prune(before time.Time) int {
	threshold := before.UnixNano()
	removed := 0

	l.clients.Range(func(key string, c *client) bool {
		if c.lastSeen.Load() < threshold {
			l.clients.Delete(key)
			removed++
		}
		return true
	})

	return removed
}

func (l *RateLimiter) pruneEvery(now time.Time, interval time.Duration) {
	last := l.lastPrune.Load()
	if now.UnixNano()-last < int64(interval) {
		return
	}

	if !l.lastPrune.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	if removed := l.Prune(now.Add(-l.idleTimeout)); removed > 0 {
		slog.Debug("pruned idle rate limit clients", slog.Int("removed", removed))
	}
}

// RemoteAddr keys clients by their remote IP address.
func RemoteAddr(r *http.Request) (string, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "", errors.New("missing remote address")
		}

		return r.RemoteAddr, nil
	}

	return host, nil
}

func contains(methods []string, method string) bool {
	for _, m := range methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}

	return false
}

func New(rate rate.Limit, burst int) *RateLimiter {
	l := &RateLimiter{
		rate:        rate,
		burst:       burst,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
	}

	l.lastPrune.Store(l.now().UnixNano())

	return l
}
