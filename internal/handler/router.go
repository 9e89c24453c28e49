package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/acadman/internal/metrics"
	"github.com/hitoshi/acadman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Authenticator     middleware.SessionAuthenticator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Collector         metrics.MetricsCollector
	Gatherer          prometheus.Gatherer

	// サービス
	AuthService       AuthServiceInterface
	AthleteService    AthleteServiceInterface
	CoachService      CoachServiceInterface
	PlanService       PlanServiceInterface
	EnrollmentService EnrollmentServiceInterface
	ProfileService    ProfileServiceInterface
	AnalyticsService  AnalyticsServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを
// 構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	SecurityHeaders → CORS → Metrics → Session → RateLimit(General) → RateLimit(Mutation)
//
// 認証フロー（/api/auth/*）、/health、/metricsはセッションミドルウェアの外に置く。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewMetricsMiddleware(deps.Collector))

	authHandler := NewAuthHandler(deps.AuthService, deps.Collector)
	athleteHandler := NewAthleteHandler(deps.AthleteService)
	coachHandler := NewCoachHandler(deps.CoachService)
	planHandler := NewPlanHandler(deps.PlanService)
	enrollmentHandler := NewEnrollmentHandler(deps.EnrollmentService)
	academyHandler := NewAcademyHandler(deps.ProfileService)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/redirect", authHandler.Redirect)
		r.Get("/callback", authHandler.Callback)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General) → RateLimit(Mutation)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.Authenticator))
		r.Use(deps.RateLimiter.GeneralMiddleware)
		r.Use(deps.RateLimiter.MutationMiddleware)

		// セッション管理
		r.Get("/api/user", authHandler.Me)
		r.Post("/api/select-company", authHandler.SelectCompany)
		r.Post("/api/logout", authHandler.Logout)

		// アカデミープロフィール
		r.Route("/api/academies/{id}", func(r chi.Router) {
			r.Get("/", academyHandler.Get)
			r.Put("/", academyHandler.Update)
			r.Post("/logo/refresh", academyHandler.RefreshLogo)
		})

		// アスリート管理
		r.Route("/api/athletes", func(r chi.Router) {
			r.Get("/", athleteHandler.List)
			r.Post("/", athleteHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", athleteHandler.Get)
				r.Put("/", athleteHandler.Update)
				r.Delete("/", athleteHandler.Delete)
			})
		})

		// コーチ管理
		r.Route("/api/coaches", func(r chi.Router) {
			r.Get("/", coachHandler.List)
			r.Post("/", coachHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", coachHandler.Get)
				r.Put("/", coachHandler.Update)
				r.Delete("/", coachHandler.Delete)
			})
		})

		// トレーニングプラン管理
		r.Route("/api/plans", func(r chi.Router) {
			r.Get("/", planHandler.List)
			r.Post("/", planHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", planHandler.Get)
				r.Put("/", planHandler.Update)
				r.Delete("/", planHandler.Delete)
			})
		})

		// プラン登録管理
		r.Route("/api/enrollments", func(r chi.Router) {
			r.Get("/", enrollmentHandler.List)
			r.Post("/", enrollmentHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", enrollmentHandler.Get)
				r.Put("/", enrollmentHandler.Update)
				r.Delete("/", enrollmentHandler.Delete)
			})
		})

		// ダッシュボード分析
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", analyticsHandler.Dashboard)
			r.Get("/athletes", analyticsHandler.Athletes)
			r.Get("/revenue", analyticsHandler.Revenue)
			r.Get("/attendance", analyticsHandler.Attendance)
		})
	})

	return r
}
