package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/acadman/internal/academy"
	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/model"
)

// ProfileServiceInterface はアカデミープロフィールハンドラーが必要とする
// サービスインターフェース。
type ProfileServiceInterface interface {
	Get(ctx context.Context, academyID int64) (*model.Academy, error)
	Update(ctx context.Context, academyID int64, input *academy.ProfileInput) (*model.Academy, error)
	RefreshLogo(ctx context.Context, academyID int64) (*model.Academy, error)
}

// AcademyHandler はアカデミープロフィール管理のHTTPハンドラー。
// URLのアカデミーIDが現在選択中のアカデミーと一致しない場合は403を返す。
type AcademyHandler struct {
	service ProfileServiceInterface
}

// NewAcademyHandler はAcademyHandlerを生成する。
func NewAcademyHandler(service ProfileServiceInterface) *AcademyHandler {
	return &AcademyHandler{service: service}
}

// academyIDFromPath はURLのアカデミーIDを検証して返す。
// 選択中のアカデミー以外へのアクセスは拒否する。
func academyIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	selected, ok := selectedAcademyID(w, r)
	if !ok {
		return 0, false
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return 0, false
	}
	if id != selected {
		middleware.WriteError(w, model.NewForbiddenError())
		return 0, false
	}
	return id, true
}

// Get はアカデミープロフィールを返す。
// GET /api/academies/{id}
func (h *AcademyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := academyIDFromPath(w, r)
	if !ok {
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// Update はアカデミープロフィールを更新する。
// PUT /api/academies/{id}
func (h *AcademyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := academyIDFromPath(w, r)
	if !ok {
		return
	}

	var input academy.ProfileInput
	if !decodeJSON(w, r, &input) {
		return
	}

	a, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// RefreshLogo はwebsiteからロゴを取得し直す。
// POST /api/academies/{id}/logo/refresh
func (h *AcademyHandler) RefreshLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := academyIDFromPath(w, r)
	if !ok {
		return
	}

	a, err := h.service.RefreshLogo(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, a)
}
