package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/acadman/internal/analytics"
	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/model"
)

// AnalyticsServiceInterface は分析ハンドラーが必要とするサービスインターフェース。
type AnalyticsServiceInterface interface {
	Dashboard(ctx context.Context, academyID int64, r analytics.DateRange) (*model.DashboardKPIs, error)
	Athletes(ctx context.Context, academyID int64) (*model.AthleteMetrics, error)
	Revenue(ctx context.Context, academyID int64, r analytics.DateRange) (*model.RevenueAnalytics, error)
	Attendance(ctx context.Context, academyID int64, r analytics.DateRange) (*model.AttendanceTrends, error)
}

// AnalyticsHandler はダッシュボード分析のHTTPハンドラー。
// academy_idクエリパラメータは選択中のアカデミーと一致する必要がある。
// 省略時は選択中のアカデミーを使う。
type AnalyticsHandler struct {
	service AnalyticsServiceInterface
}

// NewAnalyticsHandler はAnalyticsHandlerを生成する。
func NewAnalyticsHandler(service AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// analyticsParams はクエリパラメータを解決する。
func analyticsParams(w http.ResponseWriter, r *http.Request) (int64, analytics.DateRange, bool) {
	selected, ok := selectedAcademyID(w, r)
	if !ok {
		return 0, analytics.DateRange{}, false
	}

	academyID := selected
	if raw := r.URL.Query().Get("academy_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			middleware.WriteError(w, model.NewValidationError(map[string][]string{
				"academy_id": {"El identificador de la academia no es válido."},
			}))
			return 0, analytics.DateRange{}, false
		}
		if id != selected {
			middleware.WriteError(w, model.NewForbiddenError())
			return 0, analytics.DateRange{}, false
		}
		academyID = id
	}

	var dateRange analytics.DateRange
	fields := map[string][]string{}
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fields["start_date"] = []string{"La fecha debe tener el formato AAAA-MM-DD."}
		} else {
			dateRange.Start = t
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fields["end_date"] = []string{"La fecha debe tener el formato AAAA-MM-DD."}
		} else {
			dateRange.End = t
		}
	}
	if len(fields) > 0 {
		middleware.WriteError(w, model.NewValidationError(fields))
		return 0, analytics.DateRange{}, false
	}

	return academyID, dateRange, true
}

// Dashboard は主要KPIを返す。
// GET /analytics/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	academyID, dateRange, ok := analyticsParams(w, r)
	if !ok {
		return
	}

	kpis, err := h.service.Dashboard(r.Context(), academyID, dateRange)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, kpis)
}

// Athletes はアスリート構成の指標を返す。
// GET /analytics/athletes
func (h *AnalyticsHandler) Athletes(w http.ResponseWriter, r *http.Request) {
	academyID, _, ok := analyticsParams(w, r)
	if !ok {
		return
	}

	metrics, err := h.service.Athletes(r.Context(), academyID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}

// Revenue は月別収益を返す。
// GET /analytics/revenue
func (h *AnalyticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	academyID, dateRange, ok := analyticsParams(w, r)
	if !ok {
		return
	}

	revenue, err := h.service.Revenue(r.Context(), academyID, dateRange)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, revenue)
}

// Attendance は月別の推定セッション数を返す。
// GET /analytics/attendance
func (h *AnalyticsHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	academyID, dateRange, ok := analyticsParams(w, r)
	if !ok {
		return
	}

	trends, err := h.service.Attendance(r.Context(), academyID, dateRange)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, trends)
}
