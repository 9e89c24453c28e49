// Package logger はJSON構造化ログのセットアップを提供する。
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup はJSON構造化ログ出力のslog.Loggerを生成して返す。
// app_name属性を全レコードに付与する。
func Setup(w io.Writer, appName string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	l := slog.New(handler)
	if appName != "" {
		l = l.With(slog.String("app", appName))
	}
	return l
}

// SetupDefault はJSON構造化ログをグローバルロガーとして設定する。
// 本番ではos.Stdoutを渡すことを想定している。
func SetupDefault(w io.Writer, appName string) {
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(Setup(w, appName))
}
