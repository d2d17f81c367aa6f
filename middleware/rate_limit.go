package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// maxPeekBytes bounds how much of a login body is read to find the username
const maxPeekBytes = 8 << 10

// RateLimitConfig defines a fixed-window limit
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// KeyFunc groups requests; defaults to the client IP
	KeyFunc func(c echo.Context) string
	Message string
}

type window struct {
	hits    int
	resetAt time.Time
}

// RateLimiter counts requests per key in fixed windows.
// Stop ends the background purge.
type RateLimiter struct {
	config   RateLimitConfig
	mu       sync.Mutex
	windows  map[string]*window
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter and starts purging expired windows
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string { return c.RealIP() }
	}
	if config.Message == "" {
		config.Message = "Muitas requisições. Tente novamente mais tarde."
	}

	rl := &RateLimiter{
		config:  config,
		windows: make(map[string]*window),
		done:    make(chan struct{}),
	}
	go rl.purgeLoop()
	return rl
}

// Allow records one hit for key. When the limit is reached it returns
// false and the time left until the window resets.
func (rl *RateLimiter) Allow(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		rl.windows[key] = &window{hits: 1, resetAt: now.Add(rl.config.Window)}
		return true, 0
	}
	if w.hits >= rl.config.Requests {
		return false, w.resetAt.Sub(now)
	}
	w.hits++
	return true, 0
}

// Middleware rejects requests over the limit with 429 and Retry-After
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, wait := rl.Allow(rl.config.KeyFunc(c), time.Now())
			if !allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// Stop ends the purge goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) purgeLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.purge(now)
		}
	}
}

// purge drops expired windows
func (rl *RateLimiter) purge(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}

// LoginKey groups token requests by client IP and submitted username.
// The request body is restored for the handler.
func LoginKey(c echo.Context) string {
	return c.RealIP() + "|" + peekUsername(c.Request())
}

func peekUsername(req *http.Request) string {
	if req.Body == nil {
		return ""
	}
	head, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBytes))
	req.Body = readCloser{io.MultiReader(bytes.NewReader(head), req.Body), req.Body}
	if err != nil {
		return ""
	}

	var creds struct {
		Username string `json:"username"`
	}
	if json.Unmarshal(head, &creds) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(creds.Username))
}

type readCloser struct {
	io.Reader
	io.Closer
}

// IPExtractor decides where client IPs come from. With no trusted proxies
// the connection address is used and forwarding headers are ignored.
// Otherwise X-Forwarded-For is honored only from the given CIDR ranges.
func IPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid trusted proxy range %q", cidr)
		}
		options = append(options, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(options...), nil
}

var (
	// LoginRateLimiter allows 5 token requests per minute for each IP and username
	LoginRateLimiter = NewRateLimiter(RateLimitConfig{
		Requests: 5,
		Window:   time.Minute,
		KeyFunc:  LoginKey,
		Message:  "Muitas tentativas de login. Aguarde um minuto e tente novamente.",
	})

	// LoginIPRateLimiter caps token requests per IP across all usernames
	LoginIPRateLimiter = NewRateLimiter(RateLimitConfig{
		Requests: 20,
		Window:   time.Minute,
		Message:  "Muitas tentativas de login. Aguarde um minuto e tente novamente.",
	})
)

// StopLoginRateLimiters ends the login limiters' background work
func StopLoginRateLimiters() {
	LoginRateLimiter.Stop()
	LoginIPRateLimiter.Stop()
}
