package client

import (
	"errors"
	"fmt"
	"sort"
)

// ErrorKind はAPIエラーの分類を表す。
type ErrorKind string

const (
	// KindUnauthorized は認証切れ（401）。
	KindUnauthorized ErrorKind = "unauthorized"
	// KindForbidden は権限不足（403）。
	KindForbidden ErrorKind = "forbidden"
	// KindValidation はバリデーションエラー（422）。
	KindValidation ErrorKind = "validation"
	// KindNotFound はリソース未検出（404）。
	KindNotFound ErrorKind = "not_found"
	// KindServer はサーバー側のエラー（5xx）。
	KindServer ErrorKind = "server"
	// KindConnectivity はレスポンスが得られなかった通信エラー。
	KindConnectivity ErrorKind = "connectivity"
	// KindGeneric は上記以外のエラー。
	KindGeneric ErrorKind = "generic"
)

// APIError はバックエンドとの通信で発生したエラーを表す。
// StatusCodeは通信エラー（connectivity）の場合0になる。
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Fields     map[string][]string
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("[%s] %d: %s", e.Kind, e.StatusCode, e.Message)
}

// FirstFieldMessage はフィールド別エラーの最初のメッセージを返す。
// フィールド名で安定的にソートして選ぶ。
func (e *APIError) FirstFieldMessage() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msgs := e.Fields[k]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// AsAPIError はエラーチェーンからAPIErrorを取り出す。
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind はエラーが指定した分類のAPIErrorかどうかを返す。
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}
