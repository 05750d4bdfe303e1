package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRateStore) RateLimitKey(scope string) string {
	return "sf:rate_limit:" + scope
}

func (f *fakeRateStore) count(key string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key]
}

func loginAttempt(ip, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = ip + ":5678"
	return req
}

func TestAuthRateLimitReplaysBodyUnderLimit(t *testing.T) {
	store := newFakeRateStore()
	var seen string
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, 2, 2), store, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			seen = string(body)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginAttempt("1.2.3.4", `{"email":"tester@example.com","password":"secret"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, seen, `"email":"tester@example.com"`)
	assert.EqualValues(t, 1, store.count("sf:rate_limit:login:ip:1.2.3.4"))
	assert.EqualValues(t, 1, store.count("sf:rate_limit:login:email:"+hashValue("tester@example.com")))
}

func TestAuthRateLimitEmailLimitSpansAddresses(t *testing.T) {
	store := newFakeRateStore()
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, 0, 2), store, nil)(okHandler())

	var last *httptest.ResponseRecorder
	for i, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		last = httptest.NewRecorder()
		// Case and whitespace differences count against the same address.
		handler.ServeHTTP(last, loginAttempt(ip, `{"email":"  Blocked@Example.com ","password":"x"}`))
		if i < 2 {
			require.Equal(t, http.StatusOK, last.Code, "attempt %d", i)
		}
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))

	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, string(pkgerrors.CodeRateLimit), body.Error.Code)
	assert.Equal(t, map[string]any{"retry_after_seconds": float64(60)}, body.Error.Details)
}

func TestAuthRateLimitIPLimit(t *testing.T) {
	store := newFakeRateStore()
	handler := AuthRateLimit(NewAuthRateLimitPolicy("register", time.Minute, 1, 0), store, nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, loginAttempt("5.6.7.8", `{"email":"a@example.com"}`))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, loginAttempt("5.6.7.8", `{"email":"b@example.com"}`))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.EqualValues(t, 2, store.count("sf:rate_limit:register:ip:5.6.7.8"))
}

func TestAuthRateLimitPrefersForwardedFor(t *testing.T) {
	store := newFakeRateStore()
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, 5, 0), store, nil)(okHandler())

	req := loginAttempt("10.0.0.1", `{}`)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.EqualValues(t, 1, store.count("sf:rate_limit:login:ip:203.0.113.7"))
}

func TestAuthRateLimitStoreFailureIsDependencyError(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, 5, 5), store, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler must not run when the limiter fails")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginAttempt("1.2.3.4", `{"email":"a@example.com"}`))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthRateLimitDisabled(t *testing.T) {
	cases := map[string]struct {
		policy AuthRateLimitPolicy
		store  RateLimitStore
	}{
		"no store":     {policy: NewAuthRateLimitPolicy("login", time.Minute, 1, 1)},
		"zero window":  {policy: NewAuthRateLimitPolicy("login", 0, 1, 1), store: newFakeRateStore()},
		"zero limits":  {policy: NewAuthRateLimitPolicy("login", time.Minute, 0, 0), store: newFakeRateStore()},
		"blank policy": {policy: NewAuthRateLimitPolicy(" ", 0, 0, 0), store: newFakeRateStore()},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			handler := AuthRateLimit(tc.policy, tc.store, nil)(okHandler())
			for i := 0; i < 3; i++ {
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, loginAttempt("1.2.3.4", `{"email":"a@example.com"}`))
				require.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}
