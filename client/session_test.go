package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/acadman/internal/model"
)

// sessionTestBackend はセッションフローのエンドポイントを提供するテストサーバー。
type sessionTestBackend struct {
	callbackStatus int
	callbackBody   string
	logoutStatus   int
	logoutCalls    int
}

func newSessionTestServer(t *testing.T, backend *sessionTestBackend) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/redirect", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"url":   "https://accounts.example.com/oauth/authorize?state=abc",
			"state": "abc",
		})
	})
	mux.HandleFunc("/api/auth/callback", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if backend.callbackStatus != 0 {
			w.WriteHeader(backend.callbackStatus)
		}
		w.Write([]byte(backend.callbackBody))
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		backend.logoutCalls++
		if backend.logoutStatus != 0 {
			w.WriteHeader(backend.logoutStatus)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return httptest.NewServer(mux)
}

func validCallbackBody() string {
	return `{
		"token": "tok-123",
		"user": {"id": 10, "name": "Maria Gomez", "email": "maria@example.com"},
		"access_modes": [{"type": "company", "rol": "admin", "empresa_id": 3}],
		"requires_company_selection": true,
		"companies": [{"id": 3, "nombre": "Academia Norte", "rol_empresa": "admin"}],
		"sincronizer": "sync-9"
	}`
}

func TestCompleteLoginSetsTokenAndUserAtomically(t *testing.T) {
	backend := &sessionTestBackend{callbackBody: validCallbackBody()}
	server := newSessionTestServer(t, backend)
	defer server.Close()

	storage := NewMemoryStorage()
	c := New(Config{BaseURL: server.URL, Storage: storage, Notifier: &recordingNotifier{}})
	contexts := NewContextStore(c, storage)
	store := NewSessionStore(c, storage, nil, contexts)
	c.SetTokenFunc(store.Token)

	if err := store.CompleteLogin(context.Background(), "good-code", "abc"); err != nil {
		t.Fatalf("CompleteLogin failed: %v", err)
	}

	if store.State() != SessionAuthenticated {
		t.Errorf("state = %q", store.State())
	}
	if store.Token() != "tok-123" {
		t.Errorf("token = %q", store.Token())
	}
	if user := store.User(); user == nil || user.Name != "Maria Gomez" {
		t.Errorf("user = %+v", user)
	}
	if !store.RequiresCompanySelection() {
		t.Error("requires_company_selection should be true")
	}
	if store.Sincronizer() != "sync-9" {
		t.Errorf("sincronizer = %q", store.Sincronizer())
	}

	if v, ok, _ := storage.Get(StorageKeyAuthToken); !ok || v != "tok-123" {
		t.Errorf("persisted token = %q (ok=%v)", v, ok)
	}
	if _, ok, _ := storage.Get(StorageKeyUser); !ok {
		t.Error("user should be persisted")
	}
	if v, ok, _ := storage.Get(StorageKeySincronizer); !ok || v != "sync-9" {
		t.Errorf("persisted sincronizer = %q (ok=%v)", v, ok)
	}

	available := contexts.Available()
	if len(available) != 1 || available[0].Name != "Academia Norte" {
		t.Errorf("context candidates = %+v", available)
	}
}

func TestCompleteLoginMissingTokenLeavesNothingBehind(t *testing.T) {
	backend := &sessionTestBackend{callbackBody: `{"user": {"id": 10, "name": "Maria"}}`}
	server := newSessionTestServer(t, backend)
	defer server.Close()

	storage := NewMemoryStorage()
	c := New(Config{BaseURL: server.URL, Storage: storage, Notifier: &recordingNotifier{}})
	store := NewSessionStore(c, storage, nil, nil)

	if err := store.CompleteLogin(context.Background(), "code", "state"); err == nil {
		t.Fatal("expected error")
	}

	// トークンとユーザーは両方揃うか、どちらも無いかのいずれか
	if store.State() != SessionAnonymous {
		t.Errorf("state = %q", store.State())
	}
	if store.Token() != "" {
		t.Errorf("token = %q", store.Token())
	}
	if store.User() != nil {
		t.Errorf("user = %+v", store.User())
	}
	if _, ok, _ := storage.Get(StorageKeyAuthToken); ok {
		t.Error("token should not be persisted")
	}
	if _, ok, _ := storage.Get(StorageKeyUser); ok {
		t.Error("user should not be persisted")
	}
}

func TestCompleteLoginBackendFailureRecordsAuthError(t *testing.T) {
	backend := &sessionTestBackend{
		callbackStatus: http.StatusUnauthorized,
		callbackBody:   `{"code":"AUTH_FAILED","message":"No se pudo completar la autenticación."}`,
	}
	server := newSessionTestServer(t, backend)
	defer server.Close()

	storage := NewMemoryStorage()
	c := New(Config{BaseURL: server.URL, Storage: storage, Notifier: &recordingNotifier{}})
	store := NewSessionStore(c, storage, nil, nil)

	if err := store.CompleteLogin(context.Background(), "bad-code", "state"); err == nil {
		t.Fatal("expected error")
	}
	if store.State() != SessionAnonymous {
		t.Errorf("state = %q", store.State())
	}
	if store.AuthError() != "No se pudo completar la autenticación." {
		t.Errorf("authError = %q", store.AuthError())
	}
}

func TestBeginLoginNavigatesToRedirectURL(t *testing.T) {
	backend := &sessionTestBackend{}
	server := newSessionTestServer(t, backend)
	defer server.Close()

	var visited string
	c := New(Config{BaseURL: server.URL, Notifier: &recordingNotifier{}})
	store := NewSessionStore(c, NewMemoryStorage(), func(url string) { visited = url }, nil)

	if err := store.BeginLogin(context.Background()); err != nil {
		t.Fatalf("BeginLogin failed: %v", err)
	}
	if visited != "https://accounts.example.com/oauth/authorize?state=abc" {
		t.Errorf("visited = %q", visited)
	}
}

func TestLogoutClearsStateEvenWhenBackendFails(t *testing.T) {
	backend := &sessionTestBackend{callbackBody: validCallbackBody(), logoutStatus: http.StatusInternalServerError}
	server := newSessionTestServer(t, backend)
	defer server.Close()

	storage := NewMemoryStorage()
	c := New(Config{BaseURL: server.URL, Storage: storage, Notifier: &recordingNotifier{}})
	contexts := NewContextStore(c, storage)
	store := NewSessionStore(c, storage, nil, contexts)
	c.SetTokenFunc(store.Token)

	if err := store.CompleteLogin(context.Background(), "good-code", "abc"); err != nil {
		t.Fatalf("CompleteLogin failed: %v", err)
	}

	store.Logout(context.Background())

	if backend.logoutCalls != 1 {
		t.Errorf("logout calls = %d", backend.logoutCalls)
	}
	if store.State() != SessionAnonymous {
		t.Errorf("state = %q", store.State())
	}
	if store.Token() != "" || store.User() != nil {
		t.Error("session should be cleared")
	}
	for _, key := range []string{StorageKeyAuthToken, StorageKeyUser, StorageKeySincronizer, StorageKeyCurrentContext} {
		if _, ok, _ := storage.Get(key); ok {
			t.Errorf("storage key %q should be removed", key)
		}
	}
	if len(contexts.Available()) != 0 || contexts.Current() != nil {
		t.Error("context store should be cleared")
	}
}

func TestLogoutWithoutTokenSkipsBackendCall(t *testing.T) {
	backend := &sessionTestBackend{}
	server := newSessionTestServer(t, backend)
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Notifier: &recordingNotifier{}})
	store := NewSessionStore(c, NewMemoryStorage(), nil, nil)

	store.Logout(context.Background())

	if backend.logoutCalls != 0 {
		t.Errorf("logout calls = %d", backend.logoutCalls)
	}
}

func TestRestoreRequiresBothTokenAndUser(t *testing.T) {
	userJSON, _ := json.Marshal(&model.User{ID: 10, Name: "Maria Gomez"})

	tests := []struct {
		name      string
		token     string
		user      string
		wantState SessionState
	}{
		{"両方揃えば復元する", "tok-123", string(userJSON), SessionAuthenticated},
		{"トークンのみでは復元しない", "tok-123", "", SessionAnonymous},
		{"ユーザーのみでは復元しない", "", string(userJSON), SessionAnonymous},
		{"壊れたユーザーJSONは破棄する", "tok-123", "{broken", SessionAnonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			if tt.token != "" {
				storage.Set(StorageKeyAuthToken, tt.token)
			}
			if tt.user != "" {
				storage.Set(StorageKeyUser, tt.user)
			}

			c := New(Config{BaseURL: "http://localhost", Storage: storage, Notifier: &recordingNotifier{}})
			store := NewSessionStore(c, storage, nil, nil)
			store.Restore()

			if store.State() != tt.wantState {
				t.Errorf("state = %q, want %q", store.State(), tt.wantState)
			}
			if tt.user == "{broken" {
				if _, ok, _ := storage.Get(StorageKeyUser); ok {
					t.Error("corrupt user entry should be deleted")
				}
			}
		})
	}
}

func TestRefreshUserLogsOutOnUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"SESSION_EXPIRED","message":"Tu sesión ha expirado."}`))
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	storage := NewMemoryStorage()
	userJSON, _ := json.Marshal(&model.User{ID: 10, Name: "Maria Gomez"})
	storage.Set(StorageKeyAuthToken, "tok-123")
	storage.Set(StorageKeyUser, string(userJSON))

	c := New(Config{BaseURL: server.URL, Storage: storage, Notifier: &recordingNotifier{}})
	store := NewSessionStore(c, storage, nil, nil)
	c.SetTokenFunc(store.Token)
	store.Restore()

	if store.State() != SessionAuthenticated {
		t.Fatalf("precondition failed: state = %q", store.State())
	}

	if err := store.RefreshUser(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if store.State() != SessionAnonymous {
		t.Errorf("state = %q", store.State())
	}
	if store.Token() != "" || store.User() != nil {
		t.Error("session should be cleared")
	}
}
