package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAllow_Burst(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{WritesPerMinute: 60, Burst: 2, Clock: clock})
	defer limiter.Close()

	for i := 0; i < 2; i++ {
		if result := limiter.Allow("192.168.1.1"); !result.Allowed {
			t.Fatalf("write %d within burst should be allowed, got %s", i+1, result.Reason)
		}
	}

	result := limiter.Allow("192.168.1.1")
	if result.Allowed {
		t.Fatal("write beyond burst should be blocked")
	}
	if result.Reason != "write_limit" {
		t.Errorf("Expected reason 'write_limit', got '%s'", result.Reason)
	}
	if result.RetryAfter != time.Second {
		t.Errorf("Expected RetryAfter 1s, got %v", result.RetryAfter)
	}

	clock.Advance(time.Second)
	if result := limiter.Allow("192.168.1.1"); !result.Allowed {
		t.Errorf("write after refill should be allowed, got %s", result.Reason)
	}
}

func TestAllow_RejectedWritesDoNotConsume(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{WritesPerMinute: 60, Burst: 1, Clock: clock})
	defer limiter.Close()

	limiter.Allow("10.0.0.1")
	for i := 0; i < 5; i++ {
		if limiter.Allow("10.0.0.1").Allowed {
			t.Fatalf("attempt %d should be blocked", i+1)
		}
	}

	clock.Advance(time.Second)
	if result := limiter.Allow("10.0.0.1"); !result.Allowed {
		t.Errorf("rejected attempts should not push back the refill, got %s", result.Reason)
	}
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{WritesPerMinute: 60, Burst: 1, Clock: clock})
	defer limiter.Close()

	limiter.Allow("192.168.1.1")
	if limiter.Allow("192.168.1.1").Allowed {
		t.Fatal("second write from the same client should be blocked")
	}
	if result := limiter.Allow("192.168.1.2"); !result.Allowed {
		t.Errorf("other client should not share the bucket, got %s", result.Reason)
	}
}

func TestMiddleware(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{WritesPerMinute: 60, Burst: 1, Clock: clock})
	defer limiter.Close()

	handler := limiter.Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/v1/tournaments", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(http.MethodPost); rec.Code != http.StatusNoContent {
		t.Fatalf("first write: expected 204, got %d", rec.Code)
	}
	rec := do(http.MethodPost)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second write: expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want \"1\"", got)
	}
	for i := 0; i < 3; i++ {
		if rec := do(http.MethodGet); rec.Code != http.StatusNoContent {
			t.Fatalf("reads should not be limited, got %d", rec.Code)
		}
	}
}

func TestGetClientIP_TrustProxy(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{
			name:       "TrustProxy=true, XFF rightmost public IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.50", // Rightmost non-private
		},
		{
			name:       "TrustProxy=true, XFF all private",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "10.0.0.1", // Last one when all private
		},
		{
			name:       "TrustProxy=true, X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.51",
		},
		{
			name:       "TrustProxy=false, ignores XFF",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100", // Uses RemoteAddr, ignores spoofed XFF
		},
		{
			name:       "TrustProxy=false, ignores X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
		{
			name:       "No headers, RemoteAddr only",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: true,
			expected:   "192.168.1.100",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.100",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			got := GetClientIP(r, tt.trustProxy)
			if got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetClientIP_SpoofingPrevention(t *testing.T) {
	// Attacker sends fake X-Forwarded-For header
	r, _ := http.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "1.2.3.4") // Attacker-supplied
	r.RemoteAddr = "192.168.1.100:54321"       // Real connection

	// With TrustProxy=false, the fake header is ignored
	got := GetClientIP(r, false)
	if got != "192.168.1.100" {
		t.Errorf("Should ignore X-Forwarded-For when TrustProxy=false, got %q", got)
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"JOHN.DOE@EXAMPLE.COM", "jo***@example.com"}, // Normalized to lowercase
		{"ab@example.com", "***@example.com"},
		{"a@example.com", "***@example.com"},
		{"+15551234567", "***4567"},
		{"5551234567", "***4567"},
		{"123", "***"},
		{"", "***"},
		{"  User@Example.Com  ", "us***@example.com"}, // Trimmed and lowercased
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeIdentifier(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeIdentifier(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WritesPerMinute != 120 {
		t.Errorf("WritesPerMinute = %d, want 120", cfg.WritesPerMinute)
	}
	if cfg.Burst != 20 {
		t.Errorf("Burst = %d, want 20", cfg.Burst)
	}
	if cfg.IdleTTL != time.Hour {
		t.Errorf("IdleTTL = %v, want 1h", cfg.IdleTTL)
	}
}

func TestNew_FillsZeroValues(t *testing.T) {
	limiter := New(&Config{WritesPerMinute: 30})
	defer limiter.Close()

	if limiter.config.Burst != 20 || limiter.config.IdleTTL != time.Hour {
		t.Errorf("unset fields should take defaults, got %+v", limiter.config)
	}
	if limiter.config.WritesPerMinute != 30 {
		t.Errorf("WritesPerMinute = %d, want 30", limiter.config.WritesPerMinute)
	}
}

func TestCleanup_ForgetsIdleClients(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{IdleTTL: time.Minute, Clock: clock})
	defer limiter.Close()

	limiter.Allow("192.168.1.1")
	clock.Advance(30 * time.Second)
	limiter.Allow("192.168.1.2")

	clock.Advance(45 * time.Second)
	limiter.cleanup()

	if got := limiter.size(); got != 1 {
		t.Errorf("expected only the recent client to remain, got %d", got)
	}
}

func TestLimiter_Close(t *testing.T) {
	limiter := New(nil)

	// Trigger cleanup goroutine
	limiter.Allow("1.2.3.4")

	done := make(chan struct{})
	go func() {
		limiter.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("Close() should not hang")
	}
}

func TestConcurrentAccess(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{WritesPerMinute: 60, Burst: 50, Clock: clock})
	defer limiter.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if limiter.Allow("192.168.1.1").Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("expected exactly the burst to be allowed, got %d", allowed)
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		// IPv4 private ranges
		{"10.0.0.1", true},
		{"10.255.255.255", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"192.168.1.1", true},
		{"192.168.255.255", true},
		{"127.0.0.1", true},
		// IPv6 private/reserved
		{"::1", true},
		{"fc00::1", true},
		{"fe80::1", true}, // Link-local
		// IPv4-mapped IPv6 addresses (must match their IPv4 equivalents)
		{"::ffff:10.0.0.1", true},
		{"::ffff:192.168.1.1", true},
		{"::ffff:172.16.0.1", true},
		{"::ffff:127.0.0.1", true},
		{"::ffff:8.8.8.8", false},   // Public IP in IPv4-mapped format
		{"::ffff:1.1.1.1", false},   // Public IP in IPv4-mapped format
		// Public IPs
		{"203.0.113.50", false},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"2001:4860:4860::8888", false}, // Google DNS IPv6
		// Invalid
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			got := isPrivateIP(tt.ip)
			if got != tt.expected {
				t.Errorf("isPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}
}
