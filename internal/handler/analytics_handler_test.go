package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/acadman/internal/analytics"
	"github.com/hitoshi/acadman/internal/model"
)

type mockAnalyticsService struct {
	dashboardFunc  func(ctx context.Context, academyID int64, r analytics.DateRange) (*model.DashboardKPIs, error)
	athletesFunc   func(ctx context.Context, academyID int64) (*model.AthleteMetrics, error)
	revenueFunc    func(ctx context.Context, academyID int64, r analytics.DateRange) (*model.RevenueAnalytics, error)
	attendanceFunc func(ctx context.Context, academyID int64, r analytics.DateRange) (*model.AttendanceTrends, error)
}

func (m *mockAnalyticsService) Dashboard(ctx context.Context, academyID int64, r analytics.DateRange) (*model.DashboardKPIs, error) {
	return m.dashboardFunc(ctx, academyID, r)
}

func (m *mockAnalyticsService) Athletes(ctx context.Context, academyID int64) (*model.AthleteMetrics, error) {
	return m.athletesFunc(ctx, academyID)
}

func (m *mockAnalyticsService) Revenue(ctx context.Context, academyID int64, r analytics.DateRange) (*model.RevenueAnalytics, error) {
	return m.revenueFunc(ctx, academyID, r)
}

func (m *mockAnalyticsService) Attendance(ctx context.Context, academyID int64, r analytics.DateRange) (*model.AttendanceTrends, error) {
	return m.attendanceFunc(ctx, academyID, r)
}

func analyticsTestRouter(service AnalyticsServiceInterface) http.Handler {
	h := NewAnalyticsHandler(service)
	r := chi.NewRouter()
	r.Get("/analytics/dashboard", h.Dashboard)
	r.Get("/analytics/athletes", h.Athletes)
	r.Get("/analytics/revenue", h.Revenue)
	r.Get("/analytics/attendance", h.Attendance)
	return r
}

func TestAnalyticsHandler_Dashboard_ParsesDateRange(t *testing.T) {
	service := &mockAnalyticsService{
		dashboardFunc: func(ctx context.Context, academyID int64, r analytics.DateRange) (*model.DashboardKPIs, error) {
			if academyID != 3 {
				t.Errorf("academyID = %d, want 3", academyID)
			}
			wantStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			if !r.Start.Equal(wantStart) {
				t.Errorf("start = %v, want %v", r.Start, wantStart)
			}
			return &model.DashboardKPIs{TotalAthletes: 12}, nil
		},
	}
	router := analyticsTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodGet,
		"/analytics/dashboard?academy_id=3&start_date=2026-01-01&end_date=2026-06-30", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body model.DashboardKPIs
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.TotalAthletes != 12 {
		t.Errorf("total athletes = %d, want 12", body.TotalAthletes)
	}
}

func TestAnalyticsHandler_Dashboard_DefaultsToSelectedAcademy(t *testing.T) {
	service := &mockAnalyticsService{
		dashboardFunc: func(ctx context.Context, academyID int64, r analytics.DateRange) (*model.DashboardKPIs, error) {
			if academyID != 3 {
				t.Errorf("academyID = %d, want selected academy 3", academyID)
			}
			return &model.DashboardKPIs{}, nil
		},
	}
	router := analyticsTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodGet, "/analytics/dashboard", ""))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAnalyticsHandler_Dashboard_OtherAcademyForbidden(t *testing.T) {
	router := analyticsTestRouter(&mockAnalyticsService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodGet, "/analytics/dashboard?academy_id=7", ""))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAnalyticsHandler_Dashboard_InvalidDate(t *testing.T) {
	router := analyticsTestRouter(&mockAnalyticsService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodGet, "/analytics/dashboard?start_date=01-01-2026", ""))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestAnalyticsHandler_Athletes(t *testing.T) {
	service := &mockAnalyticsService{
		athletesFunc: func(ctx context.Context, academyID int64) (*model.AthleteMetrics, error) {
			return &model.AthleteMetrics{Total: 20}, nil
		},
	}
	router := analyticsTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodGet, "/analytics/athletes", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body model.AthleteMetrics
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Total != 20 {
		t.Errorf("total = %d, want 20", body.Total)
	}
}
