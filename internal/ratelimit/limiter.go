// Package ratelimit throttles API writes per client.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	WritesPerMinute int           // Sustained writes per client (default: 120)
	Burst           int           // Writes allowed back to back (default: 20)
	IdleTTL         time.Duration // Forget clients idle this long (default: 1h)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		WritesPerMinute: 120,
		Burst:           20,
		IdleTTL:         time.Hour,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

type entry struct {
	limiter *rate.Limiter
	lastAt  time.Time
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	config  *Config
	clock   Clock
	limit   rate.Limit
	mu      sync.Mutex
	clients map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.WritesPerMinute <= 0 {
		cfg.WritesPerMinute = defaults.WritesPerMinute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaults.Burst
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaults.IdleTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		limit:         rate.Limit(float64(cfg.WritesPerMinute) / 60),
		clients:       make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Allow consumes one token for the client and reports whether the write may proceed.
func (l *Limiter) Allow(client string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	key := l.hashKey("write:", client)

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.clients[key]
	if e == nil {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.config.Burst)}
		l.clients[key] = e
	}
	e.lastAt = now

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return LimitResult{Allowed: false, RetryAfter: time.Minute, Reason: "burst_exceeded"}
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return LimitResult{Allowed: true}
	}
	// Hand the token back; the client retries later instead of queueing.
	r.CancelAt(now)
	return LimitResult{
		Allowed:    false,
		RetryAfter: delay,
		Reason:     "write_limit",
	}
}

// Middleware rejects POST, PUT, PATCH and DELETE requests from clients that
// ran out of tokens. Reads pass through untouched.
func (l *Limiter) Middleware(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isWrite(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			ip := GetClientIP(r, trustProxy)
			result := l.Allow(ip)
			if !result.Allowed {
				log.Ctx(r.Context()).Warn().
					Str("event", "rate_limit_exceeded").
					Str("ip", ip).
					Str("reason", result.Reason).
					Dur("retry_after", result.RetryAfter).
					Msg("API write rate limit exceeded")
				w.Header().Set("Retry-After", retryAfterSeconds(result.RetryAfter))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func retryAfterSeconds(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

func (l *Limiter) hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.clients {
		if now.Sub(e.lastAt) > l.config.IdleTTL {
			delete(l.clients, k)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost IP from X-Forwarded-For (added by your proxy).
// When trustProxy is false, ignores X-Forwarded-For entirely (prevents spoofing).
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// Use RIGHTMOST IP - this is the one your proxy added, not user-supplied
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			return strings.TrimSpace(parts[len(parts)-1])
		}

		// Check X-Real-IP (set by nginx)
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
			return r.RemoteAddr
		}
		if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
			candidate := r.RemoteAddr[:idx]
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
		return r.RemoteAddr
	}
	return ip
}

// privateNetworks holds parsed CIDR ranges for private/reserved IPs.
var privateNetworks []*net.IPNet

func init() {
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10", // Link-local
	}
	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// isPrivateIP checks if an IP is in a private/reserved range.
// Handles both IPv4 and IPv4-mapped IPv6 addresses (e.g., ::ffff:192.168.1.1).
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// SanitizeIdentifier masks an email address or phone number for logging.
func SanitizeIdentifier(identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if strings.Contains(identifier, "@") {
		parts := strings.Split(identifier, "@")
		if len(parts[0]) > 2 {
			return parts[0][:2] + "***@" + parts[1]
		}
		return "***@" + parts[1]
	}
	// Phone: show last 4 digits
	if len(identifier) >= 4 {
		return "***" + identifier[len(identifier)-4:]
	}
	return "***"
}
