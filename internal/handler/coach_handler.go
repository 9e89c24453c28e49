package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/model"
)

// CoachServiceInterface はコーチハンドラーが必要とするサービスインターフェース。
type CoachServiceInterface interface {
	List(ctx context.Context, academyID int64) ([]*model.Coach, error)
	Get(ctx context.Context, academyID, id int64) (*model.Coach, error)
	Create(ctx context.Context, academyID int64, input *model.CoachInput) (*model.Coach, error)
	Update(ctx context.Context, academyID, id int64, input *model.CoachInput) (*model.Coach, error)
	Delete(ctx context.Context, academyID, id int64) error
}

// CoachHandler はコーチ管理のHTTPハンドラー。
type CoachHandler struct {
	service CoachServiceInterface
}

// NewCoachHandler はCoachHandlerを生成する。
func NewCoachHandler(service CoachServiceInterface) *CoachHandler {
	return &CoachHandler{service: service}
}

// List はコーチ一覧を返す。
// GET /api/coaches
func (h *CoachHandler) List(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}

	coaches, err := h.service.List(r.Context(), academyID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, coaches)
}

// Get はコーチ詳細を返す。
// GET /api/coaches/{id}
func (h *CoachHandler) Get(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	coach, err := h.service.Get(r.Context(), academyID, id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, coach)
}

// Create はコーチを登録する。
// POST /api/coaches
func (h *CoachHandler) Create(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}

	var input model.CoachInput
	if !decodeJSON(w, r, &input) {
		return
	}

	coach, err := h.service.Create(r.Context(), academyID, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, coach)
}

// Update はコーチ情報を更新する。
// PUT /api/coaches/{id}
func (h *CoachHandler) Update(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	var input model.CoachInput
	if !decodeJSON(w, r, &input) {
		return
	}

	coach, err := h.service.Update(r.Context(), academyID, id, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, coach)
}

// Delete はコーチを削除する。
// DELETE /api/coaches/{id}
func (h *CoachHandler) Delete(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	if err := h.service.Delete(r.Context(), academyID, id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
