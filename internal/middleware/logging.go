package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// statusRecorder はレスポンスのステータスコードを記録するラッパー。
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// NewLoggingMiddleware はリクエストごとの構造化ログを出力するミドルウェアを返す。
// リクエストIDを採番し、認証済みの場合はユーザーIDも記録する。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			duration := time.Since(start)

			attrs := []any{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration_ms", duration.Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if user, err := UserFromContext(r.Context()); err == nil {
				attrs = append(attrs, "user_id", user.ID)
			}

			switch {
			case recorder.status >= 500:
				logger.Error("HTTPリクエスト処理", attrs...)
			case recorder.status >= 400:
				logger.Warn("HTTPリクエスト処理", attrs...)
			default:
				logger.Info("HTTPリクエスト処理", attrs...)
			}
		})
	}
}
