package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/acadman/internal/model"
)

func newTestRateLimiter(t *testing.T, config RateLimiterConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(config)
	t.Cleanup(rl.Stop)
	return rl
}

func authedRequest(method, path string, userID int64) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	ctx := ContextWithAuth(context.Background(), &model.User{ID: userID}, &model.Session{UserID: userID})
	return req.WithContext(ctx)
}

func TestRateLimiter_GeneralAllowsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate: 1, GeneralBurst: 3,
		MutationRate: 1, MutationBurst: 1,
		CleanupInterval: time.Minute,
	})
	handler := rl.GeneralMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/athletes", 1))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/athletes", 1))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate: 1, GeneralBurst: 1,
		MutationRate: 1, MutationBurst: 1,
		CleanupInterval: time.Minute,
	})
	handler := rl.GeneralMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// ユーザー1がバーストを使い切る
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/athletes", 1))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/athletes", 1))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("user 1 second request: status = %d, want 429", rec.Code)
	}

	// ユーザー2には影響しない
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/athletes", 2))
	if rec.Code != http.StatusOK {
		t.Errorf("user 2: status = %d, want 200", rec.Code)
	}
}

func TestRateLimiter_MutationSkipsReads(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate: 100, GeneralBurst: 100,
		MutationRate: 1, MutationBurst: 1,
		CleanupInterval: time.Minute,
	})
	handler := rl.MutationMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 書き込みはバースト1つまで
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/athletes", 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("first POST: status = %d, want 200", rec.Code)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/athletes", 1))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second POST: status = %d, want 429", rec.Code)
	}

	// GETは書き込み用リミッターを消費しない
	for i := 0; i < 5; i++ {
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/athletes", 1))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %d: status = %d, want 200", i, rec.Code)
		}
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate: 1, GeneralBurst: 1,
		MutationRate: 1, MutationBurst: 1,
		CleanupInterval: time.Hour,
	})

	rl.getLimiter(rl.general, "user:1", rl.config.GeneralRate, rl.config.GeneralBurst)
	rl.mu.Lock()
	rl.general["user:1"].lastSeen = time.Now().Add(-2 * time.Hour)
	rl.mu.Unlock()

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.general["user:1"]; ok {
		t.Error("stale limiter should have been removed")
	}
}
