package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/model"
)

// AthleteServiceInterface はアスリートハンドラーが必要とするサービスインターフェース。
type AthleteServiceInterface interface {
	List(ctx context.Context, academyID int64) ([]*model.Athlete, error)
	Get(ctx context.Context, academyID, id int64) (*model.Athlete, error)
	Create(ctx context.Context, academyID int64, input *model.AthleteInput) (*model.Athlete, error)
	Update(ctx context.Context, academyID, id int64, input *model.AthleteInput) (*model.Athlete, error)
	Delete(ctx context.Context, academyID, id int64) error
}

// AthleteHandler はアスリート管理のHTTPハンドラー。
// すべての操作は現在選択中のアカデミーにスコープされる。
type AthleteHandler struct {
	service AthleteServiceInterface
}

// NewAthleteHandler はAthleteHandlerを生成する。
func NewAthleteHandler(service AthleteServiceInterface) *AthleteHandler {
	return &AthleteHandler{service: service}
}

// List はアスリート一覧を返す。
// GET /api/athletes
func (h *AthleteHandler) List(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}

	athletes, err := h.service.List(r.Context(), academyID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, athletes)
}

// Get はアスリート詳細を返す。
// GET /api/athletes/{id}
func (h *AthleteHandler) Get(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	athlete, err := h.service.Get(r.Context(), academyID, id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, athlete)
}

// Create はアスリートを登録する。
// POST /api/athletes
func (h *AthleteHandler) Create(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}

	var input model.AthleteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	athlete, err := h.service.Create(r.Context(), academyID, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, athlete)
}

// Update はアスリート情報を更新する。
// PUT /api/athletes/{id}
func (h *AthleteHandler) Update(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	var input model.AthleteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	athlete, err := h.service.Update(r.Context(), academyID, id, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, athlete)
}

// Delete はアスリートを削除する。
// DELETE /api/athletes/{id}
func (h *AthleteHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
