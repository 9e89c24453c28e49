package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/acadman/internal/metrics"
)

// NewMetricsMiddleware はリクエスト数とレイテンシをPrometheusに記録する
// ミドルウェアを返す。ルートラベルにはchiのルートパターンを使い、
// パスパラメータによるカーディナリティ爆発を避ける。
func NewMetricsMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			collector.RecordHTTPRequest(r.Method, route, recorder.status)
			collector.RecordRequestLatency(route, time.Since(start))
		})
	}
}
