package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/model"
)

// EnrollmentServiceInterface は登録ハンドラーが必要とするサービスインターフェース。
type EnrollmentServiceInterface interface {
	List(ctx context.Context, academyID int64) ([]*model.Enrollment, error)
	Get(ctx context.Context, academyID, id int64) (*model.Enrollment, error)
	Create(ctx context.Context, academyID int64, input *model.EnrollmentInput) (*model.Enrollment, error)
	Update(ctx context.Context, academyID, id int64, input *model.EnrollmentInput) (*model.Enrollment, error)
	Delete(ctx context.Context, academyID, id int64) error
}

// EnrollmentHandler はプラン登録管理のHTTPハンドラー。
type EnrollmentHandler struct {
	service EnrollmentServiceInterface
}

// NewEnrollmentHandler はEnrollmentHandlerを生成する。
func NewEnrollmentHandler(service EnrollmentServiceInterface) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// List は登録一覧を返す。アスリート名とプラン名を含む。
// GET /api/enrollments
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}

	enrollments, err := h.service.List(r.Context(), academyID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, enrollments)
}

// Get は登録詳細を返す。
// GET /api/enrollments/{id}
func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	enrollment, err := h.service.Get(r.Context(), academyID, id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, enrollment)
}

// Create はアスリートをプランに登録する。
// POST /api/enrollments
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}

	var input model.EnrollmentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	enrollment, err := h.service.Create(r.Context(), academyID, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, enrollment)
}

// Update は登録内容を更新する。
// PUT /api/enrollments/{id}
func (h *EnrollmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	var input model.EnrollmentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	enrollment, err := h.service.Update(r.Context(), academyID, id, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, enrollment)
}

// Delete は登録を取り消す。
// DELETE /api/enrollments/{id}
func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
