package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/model"
)

// PlanServiceInterface はプランハンドラーが必要とするサービスインターフェース。
type PlanServiceInterface interface {
	List(ctx context.Context, academyID int64) ([]*model.TrainingPlan, error)
	Get(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error)
	Create(ctx context.Context, academyID int64, input *model.TrainingPlanInput) (*model.TrainingPlan, error)
	Update(ctx context.Context, academyID, id int64, input *model.TrainingPlanInput) (*model.TrainingPlan, error)
	Delete(ctx context.Context, academyID, id int64) error
}

// PlanHandler はトレーニングプラン管理のHTTPハンドラー。
type PlanHandler struct {
	service PlanServiceInterface
}

// NewPlanHandler はPlanHandlerを生成する。
func NewPlanHandler(service PlanServiceInterface) *PlanHandler {
	return &PlanHandler{service: service}
}

// List はプラン一覧を返す。登録者数を含む。
// GET /api/plans
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}

	plans, err := h.service.List(r.Context(), academyID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, plans)
}

// Get はプラン詳細を返す。
// GET /api/plans/{id}
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	plan, err := h.service.Get(r.Context(), academyID, id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// Create はプランを作成する。
// POST /api/plans
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}

	var input model.TrainingPlanInput
	if !decodeJSON(w, r, &input) {
		return
	}

	plan, err := h.service.Create(r.Context(), academyID, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, plan)
}

// Update はプランを更新する。
// PUT /api/plans/{id}
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	academyID, ok := selectedAcademyID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeInvalidIDResponse(w)
		return
	}

	var input model.TrainingPlanInput
	if !decodeJSON(w, r, &input) {
		return
	}

	plan, err := h.service.Update(r.Context(), academyID, id, &input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// Delete はプランを削除する。
// DELETE /api/plans/{id}
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
