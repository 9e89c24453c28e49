// Package client はアカデミー管理アプリケーションのクライアントコアを提供する。
// HTTPクライアントラッパー、セッション・コンテキストストア、ドメインストア、
// ルートガード、分析の集約、永続ストレージからなる。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config はClientの設定。
type Config struct {
	// BaseURL はバックエンドのベースURL。
	BaseURL string
	// HTTPClient は省略時、15秒タイムアウトのクライアントを使う。
	HTTPClient *http.Client
	// Storage は401時にセッションキーを除去する永続ストレージ。
	Storage Storage
	// Notifier はエラー通知の出力先。省略時はslogに書き出す。
	Notifier Notifier
	// OnUnauthorized は401受信時に呼ばれるフック（ログイン画面への遷移など）。
	OnUnauthorized func()
}

// Client はバックエンドとのHTTP通信を一元化するラッパー。
// Bearerトークンの付与とレスポンスのエラー分類を担う。
//
// エラー分類の副作用:
//   - 401: ストレージからauth_token/userを除去し、未認証フックを呼ぶ
//   - 403/422/5xx/通信エラー: Notifierに通知
//
// いずれの場合も元のエラーは呼び出し元に返す。
type Client struct {
	baseURL        string
	httpClient     *http.Client
	storage        Storage
	notifier       Notifier
	onUnauthorized func()
	tokenFunc      func() string
}

// New はClientを生成する。
func New(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	storage := config.Storage
	if storage == nil {
		storage = NewMemoryStorage()
	}
	notifier := config.Notifier
	if notifier == nil {
		notifier = NewSlogNotifier(nil)
	}
	return &Client{
		baseURL:        config.BaseURL,
		httpClient:     httpClient,
		storage:        storage,
		notifier:       notifier,
		onUnauthorized: config.OnUnauthorized,
	}
}

// SetTokenFunc はリクエストに付与するBearerトークンの供給元を設定する。
// 通常はSessionStore.Tokenを渡す。ワイヤリング時に1回だけ呼ぶこと。
func (c *Client) SetTokenFunc(fn func() string) {
	c.tokenFunc = fn
}

// Get はGETリクエストを送る。outがnilでなければレスポンスをデコードする。
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post はPOSTリクエストを送る。
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put はPUTリクエストを送る。
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete はDELETEリクエストを送る。
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// errorBody はサーバーの統一エラーフォーマット。
type errorBody struct {
	Code     string              `json:"code"`
	Message  string              `json:"message"`
	Category string              `json:"category"`
	Action   string              `json:"action"`
	Errors   map[string][]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokenFunc != nil {
		if token := c.tokenFunc(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := &APIError{
			Kind:    KindConnectivity,
			Message: "No hay conexión con el servidor.",
		}
		c.notifier.Error(apiErr.Message)
		return fmt.Errorf("request %s %s failed: %w", method, path, apiErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classify(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// classify はエラーレスポンスを分類し、副作用（通知・セッション破棄）を
// 実行したうえでAPIErrorを返す。
func (c *Client) classify(resp *http.Response) error {
	var body errorBody
	// エラーボディの解析失敗は分類の妨げにしない
	_ = json.NewDecoder(resp.Body).Decode(&body)

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    body.Message,
		Fields:     body.Errors,
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
		if apiErr.Message == "" {
			apiErr.Message = "Tu sesión ha expirado."
		}
		// セッションキーを除去してからフックを呼ぶ
		_ = c.storage.Delete(StorageKeyAuthToken)
		_ = c.storage.Delete(StorageKeyUser)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}

	case resp.StatusCode == http.StatusForbidden:
		apiErr.Kind = KindForbidden
		if apiErr.Message == "" {
			apiErr.Message = "No tienes permisos para realizar esta acción."
		}
		c.notifier.Error(apiErr.Message)

	case resp.StatusCode == http.StatusUnprocessableEntity:
		apiErr.Kind = KindValidation
		if msg := apiErr.FirstFieldMessage(); msg != "" {
			apiErr.Message = msg
		} else if apiErr.Message == "" {
			apiErr.Message = "Los datos enviados no son válidos."
		}
		c.notifier.Error(apiErr.Message)

	case resp.StatusCode == http.StatusNotFound:
		apiErr.Kind = KindNotFound
		if apiErr.Message == "" {
			apiErr.Message = "No se encontró el recurso."
		}

	case resp.StatusCode >= 500:
		apiErr.Kind = KindServer
		apiErr.Message = "Ocurrió un error en el servidor. Inténtalo más tarde."
		c.notifier.Error(apiErr.Message)

	default:
		apiErr.Kind = KindGeneric
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("Error inesperado (%d).", resp.StatusCode)
		}
	}

	return apiErr
}
