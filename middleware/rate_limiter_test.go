package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.2")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestRateLimiter_TracksClientsIndependently(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/health", nil)
	first.Header.Set("X-Forwarded-For", "10.0.0.3")
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, first)

	second := httptest.NewRequest(http.MethodGet, "/health", nil)
	second.Header.Set("X-Forwarded-For", "10.0.0.4")
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, second)

	assert.Equal(t, http.StatusOK, rr1.Code)
	assert.Equal(t, http.StatusOK, rr2.Code)
}

// Two instances must not share visitor state.
func TestRateLimiter_InstancesAreIsolated(t *testing.T) {
	rlA := NewRateLimiter(1, 1)
	defer rlA.Stop()
	rlB := NewRateLimiter(1, 1)
	defer rlB.Stop()

	handlerA := rlA.Middleware(okHandler())
	handlerB := rlB.Middleware(okHandler())

	reqA := httptest.NewRequest(http.MethodGet, "/health", nil)
	reqA.Header.Set("X-Forwarded-For", "10.0.0.5")
	rrA := httptest.NewRecorder()
	handlerA.ServeHTTP(rrA, reqA)
	assert.Equal(t, http.StatusOK, rrA.Code)

	// Same IP, fresh limiter: full budget again.
	reqB := httptest.NewRequest(http.MethodGet, "/health", nil)
	reqB.Header.Set("X-Forwarded-For", "10.0.0.5")
	rrB := httptest.NewRecorder()
	handlerB.ServeHTTP(rrB, reqB)
	assert.Equal(t, http.StatusOK, rrB.Code)
}
