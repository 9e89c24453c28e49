package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定。
type RateLimiterConfig struct {
	// GeneralRate は認証済みAPI全般の秒間リクエスト数。
	GeneralRate float64
	// GeneralBurst は認証済みAPI全般のバースト許容量。
	GeneralBurst int
	// MutationRate は書き込み系API(POST/PUT/DELETE)の秒間リクエスト数。
	MutationRate float64
	// MutationBurst は書き込み系APIのバースト許容量。
	MutationBurst int
	// CleanupInterval は未使用リミッターの掃除間隔。
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig は既定のレート制限設定を返す。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     20,
		GeneralBurst:    40,
		MutationRate:    5,
		MutationBurst:   10,
		CleanupInterval: 10 * time.Minute,
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter はユーザーごとのレート制限を管理する。
type RateLimiter struct {
	config   RateLimiterConfig
	mu       sync.Mutex
	general  map[string]*limiterEntry
	mutation map[string]*limiterEntry
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter はRateLimiterを生成し、掃除ゴルーチンを起動する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		general:  make(map[string]*limiterEntry),
		mutation: make(map[string]*limiterEntry),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop は掃除ゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.config.CleanupInterval)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.general {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.general, key)
		}
	}
	for key, entry := range rl.mutation {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.mutation, key)
		}
	}
}

func (rl *RateLimiter) getLimiter(m map[string]*limiterEntry, key string, r float64, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	entry, ok := m[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r), burst)}
		m[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// limiterKey はリクエストからレート制限のキーを決める。
// 認証済みならユーザーID、未認証ならリモートアドレスを使う。
func limiterKey(r *http.Request) string {
	if user, err := UserFromContext(r.Context()); err == nil {
		return "user:" + strconv.FormatInt(user.ID, 10)
	}
	return "addr:" + r.RemoteAddr
}

// GeneralMiddleware は認証済みAPI全般のレート制限を適用する。
func (rl *RateLimiter) GeneralMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.getLimiter(rl.general, limiterKey(r), rl.config.GeneralRate, rl.config.GeneralBurst)
		if !limiter.Allow() {
			writeRateLimitResponse(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MutationMiddleware は書き込み系リクエストに厳しめのレート制限を適用する。
// GET/HEAD/OPTIONSはそのまま通す。
func (rl *RateLimiter) MutationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		limiter := rl.getLimiter(rl.mutation, limiterKey(r), rl.config.MutationRate, rl.config.MutationBurst)
		if !limiter.Allow() {
			writeRateLimitResponse(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeRateLimitResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     "RATE_LIMITED",
		Message:  "Demasiadas solicitudes. Intenta de nuevo en unos segundos.",
		Category: "rate_limit",
		Action:   "retry",
	})
}
