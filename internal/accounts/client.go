// Package accounts は外部アカウントサービスGAIANTIS（AccountsApp）のAPIクライアントを提供する。
// 認証フローはOAuth 2.0の認可コードグラントに準拠し、トークン交換時に
// ユーザー情報・所属アカデミー・sincronizer（リモートセッション同期コード）を
// まとめて受け取る。
package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/acadman/internal/model"
)

const (
	authorizePath = "/oauth/authorize"
	tokenPath     = "/oauth/token"
	userPath      = "/api/v1/me"
	logoutPath    = "/api/v1/logout"
)

// Config はAccountsAppクライアントの設定。
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// テスト用にオーバーライド可能なURL
	AuthorizeURL string
	TokenURL     string
	UserURL      string
	LogoutURL    string
}

// Client はAccountsAppとのHTTP通信を行う。
type Client struct {
	config Config
	http   *http.Client
}

// Provider はAccountsAppクライアントのインターフェース。
// 認証サービスはこのインターフェース経由で外部サービスと通信する。
type Provider interface {
	// AuthorizeURL は認可コードフローの開始URLを生成する。
	AuthorizeURL(state string) string

	// ExchangeCode は認可コードを交換し、ユーザー・所属・sincronizerを取得する。
	ExchangeCode(ctx context.Context, code string) (*AuthResult, error)

	// FetchUser はsincronizerで現在のユーザー情報を再取得する。
	FetchUser(ctx context.Context, sincronizer string) (*AuthResult, error)

	// NotifyLogout はリモートセッションの終了をAccountsAppへ通知する。
	NotifyLogout(ctx context.Context, sincronizer string) error
}

// AuthResult はAccountsAppの認証レスポンスを表す。
type AuthResult struct {
	User        *model.User
	AccessModes []model.AccessMode
	Sincronizer string
}

// NewClient はAccountsAppクライアントを生成する。
func NewClient(config Config) *Client {
	if config.AuthorizeURL == "" {
		config.AuthorizeURL = config.BaseURL + authorizePath
	}
	if config.TokenURL == "" {
		config.TokenURL = config.BaseURL + tokenPath
	}
	if config.UserURL == "" {
		config.UserURL = config.BaseURL + userPath
	}
	if config.LogoutURL == "" {
		config.LogoutURL = config.BaseURL + logoutPath
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL は認可コードフローの開始URLを生成する。
func (c *Client) AuthorizeURL(state string) string {
	params := url.Values{
		"client_id":     {c.config.ClientID},
		"redirect_uri":  {c.config.RedirectURL},
		"response_type": {"code"},
		"scope":         {"profile empresas"},
		"state":         {state},
	}
	return c.config.AuthorizeURL + "?" + params.Encode()
}

// tokenResponse はトークンエンドポイントのレスポンス。
// GAIANTISはアクセストークンに加えてユーザー情報と所属（access_modes）を返す。
type tokenResponse struct {
	Sincronizer string             `json:"sincronizer"`
	User        *model.User        `json:"user"`
	AccessModes []model.AccessMode `json:"access_modes"`
}

// ExchangeCode は認可コードを交換し、ユーザー・所属・sincronizerを取得する。
func (c *Client) ExchangeCode(ctx context.Context, code string) (*AuthResult, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
		"redirect_uri":  {c.config.RedirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.Sincronizer == "" {
		return nil, fmt.Errorf("empty sincronizer in token response")
	}
	if tokenResp.User == nil || tokenResp.User.ID == 0 {
		return nil, fmt.Errorf("missing user in token response")
	}

	return &AuthResult{
		User:        tokenResp.User,
		AccessModes: tokenResp.AccessModes,
		Sincronizer: tokenResp.Sincronizer,
	}, nil
}

// FetchUser はsincronizerで現在のユーザー情報と所属を再取得する。
func (c *Client) FetchUser(ctx context.Context, sincronizer string) (*AuthResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.UserURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sincronizer)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var userResp tokenResponse
	if err := json.Unmarshal(body, &userResp); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}

	if userResp.User == nil || userResp.User.ID == 0 {
		return nil, fmt.Errorf("missing user in user response")
	}

	return &AuthResult{
		User:        userResp.User,
		AccessModes: userResp.AccessModes,
		Sincronizer: sincronizer,
	}, nil
}

// NotifyLogout はリモートセッションの終了をAccountsAppへ通知する。
func (c *Client) NotifyLogout(ctx context.Context, sincronizer string) error {
	payload, err := json.Marshal(map[string]string{"sincronizer": sincronizer})
	if err != nil {
		return fmt.Errorf("failed to marshal logout payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.LogoutURL, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("failed to create logout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("logout notification failed with status %d", resp.StatusCode)
	}

	return nil
}

// compile-time interface check
var _ Provider = (*Client)(nil)
