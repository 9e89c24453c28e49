package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/hitoshi/acadman/internal/model"
)

// SessionState はセッションの状態を表す。
type SessionState string

const (
	// SessionAnonymous は未ログイン状態。
	SessionAnonymous SessionState = "anonymous"
	// SessionAuthenticating はOAuthフロー進行中。
	SessionAuthenticating SessionState = "authenticating"
	// SessionAuthenticated はログイン済み状態。
	SessionAuthenticated SessionState = "authenticated"
)

// Navigator は外部URLへの遷移フック。シェルがIdPの画面を開くのに使う。
type Navigator func(url string)

// SessionStore は認証済みユーザー・Bearerトークン・アクセスグラントを保持する。
// トークンとユーザーは必ず同時に設定・消去され、片方だけが存在する状態は
// 作らない。プロセス全体でセッションは高々1つ。
type SessionStore struct {
	mu           sync.Mutex
	client       *Client
	storage      Storage
	navigate     Navigator
	logger       *slog.Logger
	contextStore *ContextStore

	state           SessionState
	token           string
	user            *model.User
	accessModes     []model.AccessMode
	companies       []*model.Academy
	sincronizer     string
	requiresCompany bool
	authError       string
}

// NewSessionStore はSessionStoreを生成する。
// contextStoreはログイン時に候補を流し込み、ログアウト時にクリアする先。
// nilでもよい。
func NewSessionStore(client *Client, storage Storage, navigate Navigator, contextStore *ContextStore) *SessionStore {
	return &SessionStore{
		client:       client,
		storage:      storage,
		navigate:     navigate,
		contextStore: contextStore,
		logger:       slog.Default(),
		state:        SessionAnonymous,
	}
}

// State は現在のセッション状態を返す。
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token は現在のBearerトークンを返す。未ログインなら空文字。
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User は現在のユーザーを返す。未ログインならnil。
func (s *SessionStore) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// AccessModes はコールバックで受け取ったアクセスグラント一覧を返す。
func (s *SessionStore) AccessModes() []model.AccessMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessModes
}

// Companies は選択可能なアカデミー候補を返す。
func (s *SessionStore) Companies() []*model.Academy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.companies
}

// Sincronizer はAccountsAppの同期コードを返す。
func (s *SessionStore) Sincronizer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sincronizer
}

// RequiresCompanySelection はアカデミー選択が必要かどうかを返す。
func (s *SessionStore) RequiresCompanySelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requiresCompany
}

// AuthError は直近の認証エラーメッセージを返す。
func (s *SessionStore) AuthError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authError
}

// redirectResponse はGET /api/auth/redirectのレスポンス。
type redirectResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// callbackResponse はGET /api/auth/callbackのレスポンス。
type callbackResponse struct {
	Token           string             `json:"token"`
	User            *model.User        `json:"user"`
	AccessModes     []model.AccessMode `json:"access_modes"`
	RequiresCompany bool               `json:"requires_company_selection"`
	Companies       []*model.Academy   `json:"companies"`
	Sincronizer     string             `json:"sincronizer"`
}

// meResponse はGET /api/userのレスポンス。
type meResponse struct {
	User      *model.User      `json:"user"`
	Companies []*model.Academy `json:"companies"`
}

// BeginLogin はOAuthフローを開始する。バックエンドからリダイレクトURLを取得し、
// Navigatorに渡す。制御はIdPからのリダイレクトでCompleteLoginに戻る。
func (s *SessionStore) BeginLogin(ctx context.Context) error {
	s.mu.Lock()
	s.state = SessionAuthenticating
	s.authError = ""
	s.mu.Unlock()

	var resp redirectResponse
	if err := s.client.Get(ctx, "/api/auth/redirect", &resp); err != nil {
		s.recordAuthFailure(err)
		return fmt.Errorf("failed to begin login: %w", err)
	}
	if resp.URL == "" {
		err := fmt.Errorf("empty redirect url")
		s.recordAuthFailure(err)
		return err
	}

	if s.navigate != nil {
		s.navigate(resp.URL)
	}
	return nil
}

// CompleteLogin は認可コードをトークンに交換する。
// 成功時はトークンとユーザーを原子的に設定・永続化し、Authenticatedに遷移する。
// 失敗時はAnonymousのままで認証エラーを記録する。
func (s *SessionStore) CompleteLogin(ctx context.Context, code, state string) error {
	var resp callbackResponse
	path := "/api/auth/callback?code=" + url.QueryEscape(code) + "&state=" + url.QueryEscape(state)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		s.recordAuthFailure(err)
		return fmt.Errorf("failed to complete login: %w", err)
	}
	if resp.Token == "" || resp.User == nil {
		err := fmt.Errorf("callback response missing token or user")
		s.recordAuthFailure(err)
		return err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = resp.User
	s.accessModes = resp.AccessModes
	s.companies = resp.Companies
	s.sincronizer = resp.Sincronizer
	s.requiresCompany = resp.RequiresCompany
	s.state = SessionAuthenticated
	s.authError = ""
	s.persistLocked()
	s.mu.Unlock()

	if s.contextStore != nil {
		s.contextStore.SetAvailable(resp.Companies)
	}
	return nil
}

// RefreshUser は保存済みトークンでユーザー情報を再取得する。
// 認証エラーの場合はログアウトする。
func (s *SessionStore) RefreshUser(ctx context.Context) error {
	var resp meResponse
	if err := s.client.Get(ctx, "/api/user", &resp); err != nil {
		if IsKind(err, KindUnauthorized) {
			s.Logout(ctx)
		}
		return fmt.Errorf("failed to refresh user: %w", err)
	}

	s.mu.Lock()
	s.user = resp.User
	s.companies = resp.Companies
	if data, err := json.Marshal(resp.User); err == nil {
		_ = s.storage.Set(StorageKeyUser, string(data))
	}
	s.mu.Unlock()

	if s.contextStore != nil {
		s.contextStore.SetAvailable(resp.Companies)
	}
	return nil
}

// Logout はバックエンドにベストエフォートで通知したうえで、
// メモリと永続ストレージのセッション状態を無条件にクリアする。
// 通知の失敗はログに残すだけで伝播しない。
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	sincronizer := s.sincronizer
	hadToken := s.token != ""
	s.mu.Unlock()

	if hadToken {
		body := map[string]string{"sincronizer": sincronizer}
		if err := s.client.Post(ctx, "/api/logout", body, nil); err != nil {
			s.logger.Warn("ログアウト通知に失敗した", slog.String("error", err.Error()))
		}
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.accessModes = nil
	s.companies = nil
	s.sincronizer = ""
	s.requiresCompany = false
	s.state = SessionAnonymous
	_ = s.storage.Delete(StorageKeyAuthToken)
	_ = s.storage.Delete(StorageKeyUser)
	_ = s.storage.Delete(StorageKeySincronizer)
	_ = s.storage.Delete(StorageKeyCurrentContext)
	s.mu.Unlock()

	if s.contextStore != nil {
		s.contextStore.Clear()
	}
}

// Restore は起動時に永続ストレージからセッションを復元する。
// 壊れたJSONはエントリごと破棄する。トークンとユーザーの両方が
// 揃った場合のみAuthenticatedに遷移する。
func (s *SessionStore) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, hasToken, _ := s.storage.Get(StorageKeyAuthToken)

	var user *model.User
	if raw, ok, _ := s.storage.Get(StorageKeyUser); ok {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			_ = s.storage.Delete(StorageKeyUser)
			user = nil
		}
	}

	if raw, ok, _ := s.storage.Get(StorageKeySincronizer); ok {
		s.sincronizer = raw
	}

	if hasToken && token != "" && user != nil {
		s.token = token
		s.user = user
		s.state = SessionAuthenticated
	}
}

// recordAuthFailure は認証失敗を記録し、Anonymousに戻す。
func (s *SessionStore) recordAuthFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionAnonymous
	s.authError = err.Error()
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		s.authError = apiErr.Message
	}
}

// persistLocked はトークン・ユーザー・同期コードを永続化する。
// 呼び出し元がs.muを保持していること。
func (s *SessionStore) persistLocked() {
	_ = s.storage.Set(StorageKeyAuthToken, s.token)
	if data, err := json.Marshal(s.user); err == nil {
		_ = s.storage.Set(StorageKeyUser, string(data))
	}
	_ = s.storage.Set(StorageKeySincronizer, s.sincronizer)
}
