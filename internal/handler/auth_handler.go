package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/hitoshi/acadman/internal/auth"
	"github.com/hitoshi/acadman/internal/metrics"
	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// LoginURL はGAIANTISの認可画面URLを返す。
	LoginURL(state string) string
	// HandleCallback は認可コードを交換しセッションを発行する。
	HandleCallback(ctx context.Context, code string) (*auth.CallbackResult, error)
	// CurrentUser はセッションのユーザーと所属アカデミー一覧を返す。
	CurrentUser(ctx context.Context, token string) (*model.User, []*model.Academy, error)
	// SelectAcademy は所属を検証したうえで現在のアカデミーを切り替える。
	SelectAcademy(ctx context.Context, token string, academyID int64, rol string) (*model.Academy, error)
	// Logout はAccountsAppに通知しローカルセッションを削除する。
	Logout(ctx context.Context, token string) error
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service   AuthServiceInterface
	collector metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service:   service,
		collector: collector,
	}
}

// redirectResponse はログイン開始レスポンス。
type redirectResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// selectCompanyRequest はアカデミー切り替えリクエストのボディ。
type selectCompanyRequest struct {
	CompanyID  int64  `json:"company_id"`
	RolEmpresa string `json:"rol_empresa"`
}

// logoutRequest はログアウトリクエストのボディ。
// sincronizerはクライアントが保持している値だが、サーバー側では
// セッションに紐づく値を使うため参照しない。
type logoutRequest struct {
	Sincronizer string `json:"sincronizer"`
}

// meResponse は現在のユーザー情報レスポンス。
type meResponse struct {
	User      *model.User      `json:"user"`
	Companies []*model.Academy `json:"companies"`
}

// Redirect はOAuthフローの開始URLを返す。
// GET /api/auth/redirect
func (h *AuthHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	respondJSON(w, http.StatusOK, redirectResponse{
		URL:   h.service.LoginURL(state),
		State: state,
	})
}

// Callback はOAuthコールバックを処理し、セッショントークンを発行する。
// GET /api/auth/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "Falta el código de autorización.",
			Category: "validation",
			Action:   "Reinicia el flujo de inicio de sesión.",
		})
		return
	}

	result, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		h.collector.RecordLoginFailure()
		slog.Error("OAuthコールバックの処理に失敗した", slog.String("error", err.Error()))
		middleware.WriteError(w, err)
		return
	}

	h.collector.RecordLoginSuccess()
	respondJSON(w, http.StatusOK, result)
}

// Me は現在のユーザーと所属アカデミー一覧を返す。
// GET /api/user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewSessionExpiredError())
		return
	}

	user, companies, err := h.service.CurrentUser(r.Context(), session.Token)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, meResponse{User: user, Companies: companies})
}

// SelectCompany は現在のアカデミーを切り替える。
// POST /api/select-company
func (h *AuthHandler) SelectCompany(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewSessionExpiredError())
		return
	}

	var req selectCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CompanyID <= 0 {
		middleware.WriteError(w, model.NewValidationError(map[string][]string{
			"company_id": {"El identificador de la academia es obligatorio."},
		}))
		return
	}

	academy, err := h.service.SelectAcademy(r.Context(), session.Token, req.CompanyID, req.RolEmpresa)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	h.collector.RecordAcademySelected()
	respondJSON(w, http.StatusOK, academy)
}

// Logout はセッションを破棄する。
// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewSessionExpiredError())
		return
	}

	// ボディは任意。クライアント互換のため受け取るだけで捨てる。
	var req logoutRequest
	_ = decodeBodyQuietly(r, &req)

	if err := h.service.Logout(r.Context(), session.Token); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
