package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// analyticsTestServer は4つのアナリティクスエンドポイントを提供する。
// failingにパスを入れるとそのセクションだけ500を返す。
func analyticsTestServer(t *testing.T, failing map[string]bool) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/analytics/dashboard":  `{"total_athletes": 24, "total_coaches": 4, "active_plans": 3, "total_enrollments": 30}`,
		"/analytics/athletes":   `{"total": 24}`,
		"/analytics/revenue":    `{"total": 4200000}`,
		"/analytics/attendance": `{"estimated_sessions": {"labels": ["2026-08"], "data": [96]}}`,
	}
	mux := http.NewServeMux()
	for path, body := range bodies {
		path, body := path, body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if failing[path] {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message":"error"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}
	return httptest.NewServer(mux)
}

func TestFetchDashboardAggregatesAllSections(t *testing.T) {
	server := analyticsTestServer(t, nil)
	defer server.Close()

	store := NewAnalyticsStore(New(Config{BaseURL: server.URL, Notifier: &recordingNotifier{}}))
	result := store.FetchDashboard(context.Background(), 3, time.Time{}, time.Time{})

	if result.KPIs == nil || result.KPIs.TotalAthletes != 24 {
		t.Errorf("KPIs = %+v", result.KPIs)
	}
	if result.Athletes == nil || result.Athletes.Total != 24 {
		t.Errorf("Athletes = %+v", result.Athletes)
	}
	if result.Revenue == nil || result.Revenue.Total != 4200000 {
		t.Errorf("Revenue = %+v", result.Revenue)
	}
	if result.Attendance == nil || len(result.Attendance.EstimatedSessions.Labels) != 1 {
		t.Errorf("Attendance = %+v", result.Attendance)
	}
	if store.Partial() {
		t.Error("Partial should be false")
	}
	if store.Loading() {
		t.Error("Loading should be false after fetch")
	}
}

func TestFetchDashboardFailedSectionIsNil(t *testing.T) {
	server := analyticsTestServer(t, map[string]bool{"/analytics/revenue": true})
	defer server.Close()

	store := NewAnalyticsStore(New(Config{BaseURL: server.URL, Notifier: &recordingNotifier{}}))
	result := store.FetchDashboard(context.Background(), 3, time.Time{}, time.Time{})

	// 失敗したセクションだけnilになり、残りは返る
	if result.Revenue != nil {
		t.Errorf("Revenue = %+v", result.Revenue)
	}
	if result.KPIs == nil || result.Athletes == nil || result.Attendance == nil {
		t.Errorf("surviving sections missing: %+v", result)
	}
	if !store.Partial() {
		t.Error("Partial should be true")
	}
}

func TestFetchDashboardAllSectionsFailing(t *testing.T) {
	server := analyticsTestServer(t, map[string]bool{
		"/analytics/dashboard":  true,
		"/analytics/athletes":   true,
		"/analytics/revenue":    true,
		"/analytics/attendance": true,
	})
	defer server.Close()

	store := NewAnalyticsStore(New(Config{BaseURL: server.URL, Notifier: &recordingNotifier{}}))
	result := store.FetchDashboard(context.Background(), 3, time.Time{}, time.Time{})

	if result == nil {
		t.Fatal("aggregate should never be nil")
	}
	if result.KPIs != nil || result.Athletes != nil || result.Revenue != nil || result.Attendance != nil {
		t.Errorf("all sections should be nil: %+v", result)
	}
	if !store.Partial() {
		t.Error("Partial should be true")
	}
}

func TestFetchDashboardSendsQueryParams(t *testing.T) {
	queries := make(chan string, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	store := NewAnalyticsStore(New(Config{BaseURL: server.URL, Notifier: &recordingNotifier{}}))
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	store.FetchDashboard(context.Background(), 3, start, end)

	close(queries)
	for q := range queries {
		if q != "academy_id=3&end_date=2026-08-31&start_date=2026-08-01" {
			t.Errorf("query = %q", q)
		}
	}
}
