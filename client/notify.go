package client

import "log/slog"

// Notifier はユーザーへの非ブロッキング通知（トースト）の出力先。
type Notifier interface {
	// Error はエラー通知を表示する。
	Error(message string)
	// Warning は警告通知を表示する。
	Warning(message string)
	// Info は情報通知を表示する。
	Info(message string)
}

// slogNotifier は通知をslogに書き出すデフォルト実装。
// UIシェルを持たないヘッドレス動作用。
type slogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier はslogに通知を書き出すNotifierを返す。
// loggerがnilの場合はslog.Default()を使う。
func NewSlogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogNotifier{logger: logger}
}

func (n *slogNotifier) Error(message string) {
	n.logger.Error("通知", slog.String("message", message))
}

func (n *slogNotifier) Warning(message string) {
	n.logger.Warn("通知", slog.String("message", message))
}

func (n *slogNotifier) Info(message string) {
	n.logger.Info("通知", slog.String("message", message))
}

var _ Notifier = (*slogNotifier)(nil)
