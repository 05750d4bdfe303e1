package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akvaproffi/storefront/api/responses"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/logger"
	pkgredis "github.com/akvaproffi/storefront/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// IdempotencyHeader lets a client retry a checkout without placing a second
// order.
const IdempotencyHeader = "Idempotency-Key"

const defaultReplayTTL = 24 * time.Hour

// replayRecord is what is kept per key. Body round-trips as base64 through
// encoding/json.
type replayRecord struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

type replayGuard struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
	logg  *logger.Logger
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Requests without the header pass through. Only 2xx responses are
// recorded, so a rejected checkout can be retried with the same key once
// the precondition is fixed. Keys are scoped per user, method and path.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	guard := replayGuard{store: store, ttl: ttl, logg: logg}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			guard.serve(w, r, id, next)
		})
	}
}

func (g replayGuard) serve(w http.ResponseWriter, r *http.Request, id string, next http.Handler) {
	ctx := r.Context()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responses.WriteError(ctx, g.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	hash := hex.EncodeToString(sum[:])
	scope := UserIDFromContext(ctx) + "|" + r.Method + "|" + r.URL.Path
	key := g.store.IdempotencyKey(scope, id)

	record, found, err := g.lookup(ctx, key)
	if err != nil {
		responses.WriteError(ctx, g.logg, w, err)
		return
	}
	if found {
		if record.RequestHash != hash {
			responses.WriteError(ctx, g.logg, w, pkgerrors.New(pkgerrors.CodeConflict, "idempotency key reused with a different request body"))
			return
		}
		if record.ContentType != "" {
			w.Header().Set("Content-Type", record.ContentType)
		}
		w.Header().Set("Idempotent-Replay", "true")
		w.WriteHeader(record.Status)
		_, _ = w.Write(record.Body)
		return
	}

	capture := &responseCapture{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(capture, r)
	if capture.status < 200 || capture.status >= 300 {
		return
	}
	g.remember(ctx, key, replayRecord{
		Status:      capture.status,
		ContentType: capture.Header().Get("Content-Type"),
		Body:        capture.body.Bytes(),
		RequestHash: hash,
	})
}

func (g replayGuard) lookup(ctx context.Context, key string) (replayRecord, bool, error) {
	var record replayRecord
	stored, err := g.store.Get(ctx, key)
	switch {
	case errors.Is(err, redis.Nil):
		return record, false, nil
	case err != nil:
		return record, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	case stored == "":
		return record, false, nil
	}
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return record, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return record, true, nil
}

// remember is best effort; the response has already been written.
func (g replayGuard) remember(ctx context.Context, key string, record replayRecord) {
	payload, err := json.Marshal(record)
	if err == nil {
		_, err = g.store.SetNX(ctx, key, string(payload), g.ttl)
	}
	if err != nil && g.logg != nil {
		g.logg.Error(ctx, "idempotency.persist_failed", err)
	}
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
