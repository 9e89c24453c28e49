// Package app はアプリケーションの起動とワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/acadman/internal/academy"
	"github.com/hitoshi/acadman/internal/accounts"
	"github.com/hitoshi/acadman/internal/analytics"
	"github.com/hitoshi/acadman/internal/auth"
	"github.com/hitoshi/acadman/internal/config"
	"github.com/hitoshi/acadman/internal/database"
	"github.com/hitoshi/acadman/internal/handler"
	"github.com/hitoshi/acadman/internal/logger"
	"github.com/hitoshi/acadman/internal/metrics"
	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/repository"
	"github.com/hitoshi/acadman/internal/security"
	"github.com/hitoshi/acadman/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 設定読み込み失敗のログも構造化するため、先にロガーを立てる
	logger.SetupDefault(w, "acadman")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8001"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("app_version", cfg.AppVersion),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーと
// セッションクリーンアップジョブを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	academyRepo := repository.NewPostgresAcademyRepo(db)
	athleteRepo := repository.NewPostgresAthleteRepo(db)
	coachRepo := repository.NewPostgresCoachRepo(db)
	planRepo := repository.NewPostgresTrainingPlanRepo(db)
	enrollmentRepo := repository.NewPostgresEnrollmentRepo(db)
	analyticsRepo := repository.NewPostgresAnalyticsRepo(db)

	// 3. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()

	// 4. ドメインサービスの初期化
	accountsClient := accounts.NewClient(accounts.Config{
		BaseURL:      cfg.AccountsURL,
		ClientID:     cfg.AccountsClientID,
		ClientSecret: cfg.AccountsClientSecret,
		RedirectURL:  cfg.SSORedirectURL,
	})
	authService := auth.NewService(
		accountsClient, userRepo, academyRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)

	logoFetcher := academy.NewLogoFetcher(ssrfGuard, academy.LogoFetcherConfig{
		Timeout: cfg.LogoFetchTimeout,
		MaxSize: cfg.LogoMaxSize,
	})

	athleteService := academy.NewAthleteService(athleteRepo)
	coachService := academy.NewCoachService(coachRepo)
	planService := academy.NewPlanService(planRepo, sanitizer)
	enrollmentService := academy.NewEnrollmentService(enrollmentRepo, athleteRepo, planRepo, sanitizer)
	profileService := academy.NewProfileService(academyRepo, sanitizer, ssrfGuard, logoFetcher)
	analyticsService := analytics.NewService(analyticsRepo)

	// 5. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 6. ルーターの構築
	// configのレート制限はreq/min/user単位なのでreq/secに変換する
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     float64(cfg.RateLimitGeneral) / 60,
		GeneralBurst:    cfg.RateLimitGeneral,
		MutationRate:    float64(cfg.RateLimitMutation) / 60,
		MutationBurst:   cfg.RateLimitMutation,
		CleanupInterval: 10 * time.Minute,
	})
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Authenticator:     authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Collector:         collector,
		Gatherer:          registry,

		AuthService:       authService,
		AthleteService:    athleteService,
		CoachService:      coachService,
		PlanService:       planService,
		EnrollmentService: enrollmentService,
		ProfileService:    profileService,
		AnalyticsService:  analyticsService,
	})

	// ルーターの外側にロギングとリカバリを被せる
	handlerChain := middleware.NewRecoveryMiddleware(slog.Default())(
		middleware.NewLoggingMiddleware(slog.Default())(router),
	)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlerChain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// セッションクリーンアップジョブをバックグラウンドで起動
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupJob := cleanup.NewCleanupJob(sessionRepo, collector, slog.Default())
	go cleanupJob.Start(ctx, cfg.SessionCleanupInterval)

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
