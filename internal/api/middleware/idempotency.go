package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotentReplayHeader  = "Idempotent-Replay"
	maxIdempotencyKeyLength = 128

	// How long an in-progress claim survives if the handler never finishes.
	provisionalLockTTL = 60 * time.Second
	storeTimeout       = 2 * time.Second
)

type idempotencyEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

type responseCapture struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (r *responseCapture) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) WriteHeader(statusCode int) {
	r.code = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Requests without the header pass through. Reusing a key with a different
// body, or while the first request is still running, is a 409. Server errors
// release the key so the client can retry.
func Idempotency(rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("component", "Idempotency")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idemKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if idemKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(idemKey) > maxIdempotencyKeyLength {
				writeError(w, http.StatusBadRequest, "INVALID_IDEMPOTENCY_KEY", "Idempotency-Key is too long")
				return
			}

			var body []byte
			if r.Body != nil {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Failed to read request body")
					return
				}
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			bodyHash := hashBody(body)

			key := idempotencyStoreKey(r.Method, r.URL.Path, idemKey)
			ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
			defer cancel()

			claimed, err := claimKey(ctx, rdb, key, idempotencyEntry{
				InProgress: true,
				BodySHA256: bodyHash,
				CreatedAt:  time.Now().UTC(),
			})
			if err != nil {
				logger.ErrorContext(r.Context(), "Idempotency store unavailable", "error", err)
				writeError(w, http.StatusServiceUnavailable, "IDEMPOTENCY_STORE_UNAVAILABLE", "Idempotency store unavailable")
				return
			}
			if !claimed {
				replayOrReject(ctx, w, rdb, key, bodyHash, logger)
				return
			}

			rec := &responseCapture{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)

			storeCtx, storeCancel := context.WithTimeout(context.WithoutCancel(r.Context()), storeTimeout)
			defer storeCancel()

			if rec.code >= http.StatusInternalServerError {
				if err := rdb.Del(storeCtx, key).Err(); err != nil {
					logger.WarnContext(r.Context(), "Failed to release idempotency key", "error", err)
				}
				return
			}
			final := idempotencyEntry{
				Code:       rec.code,
				Body:       rec.buf.Bytes(),
				BodySHA256: bodyHash,
				CreatedAt:  time.Now().UTC(),
			}
			if err := saveEntry(storeCtx, rdb, key, final, ttl); err != nil {
				logger.WarnContext(r.Context(), "Failed to store idempotent response", "error", err)
			}
		})
	}
}

func replayOrReject(ctx context.Context, w http.ResponseWriter, rdb redis.Cmdable, key, bodyHash string, logger *slog.Logger) {
	cur, err := loadEntry(ctx, rdb, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			writeError(w, http.StatusConflict, "REQUEST_IN_PROGRESS", "Request with this Idempotency-Key is already in progress")
			return
		}
		logger.ErrorContext(ctx, "Failed to load idempotency entry", "error", err)
		writeError(w, http.StatusServiceUnavailable, "IDEMPOTENCY_STORE_UNAVAILABLE", "Idempotency store unavailable")
		return
	}

	switch {
	case cur.BodySHA256 != bodyHash:
		writeError(w, http.StatusConflict, "IDEMPOTENCY_KEY_REUSED", "Idempotency-Key reused with a different request body")
	case cur.InProgress:
		writeError(w, http.StatusConflict, "REQUEST_IN_PROGRESS", "Request with this Idempotency-Key is already in progress")
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(IdempotentReplayHeader, "true")
		w.WriteHeader(cur.Code)
		_, _ = w.Write(cur.Body)
	}
}

func hashBody(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}

func idempotencyStoreKey(method, path, idemKey string) string {
	return "idemp:loan-engine:" + strings.ToLower(method) + ":" + path + ":" + idemKey
}

func claimKey(ctx context.Context, rdb redis.Cmdable, key string, entry idempotencyEntry) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func loadEntry(ctx context.Context, rdb redis.Cmdable, key string) (idempotencyEntry, error) {
	var e idempotencyEntry
	v, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

func saveEntry(ctx context.Context, rdb redis.Cmdable, key string, entry idempotencyEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, payload, ttl).Err()
}
