package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/hitoshi/acadman/internal/model"
)

// AnalyticsStore はダッシュボードの4セクションを並行取得して集約する。
// 各セクションは独立して成否が決まり、失敗したセクションはnilのまま
// 残りのセクションを返す。集約自体は失敗しない。
type AnalyticsStore struct {
	mu      sync.Mutex
	client  *Client
	loading bool
	partial bool
	data    *model.DashboardAnalytics
}

// NewAnalyticsStore はAnalyticsStoreを生成する。
func NewAnalyticsStore(client *Client) *AnalyticsStore {
	return &AnalyticsStore{client: client}
}

// Loading は取得中かを返す。
func (s *AnalyticsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Partial は直近の取得で失敗したセクションがあったかを返す。
func (s *AnalyticsStore) Partial() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partial
}

// Data は直近に集約した結果を返す。未取得ならnil。
func (s *AnalyticsStore) Data() *model.DashboardAnalytics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// analyticsQuery は期間とアカデミーをクエリ文字列に組み立てる。
func analyticsQuery(academyID int64, start, end time.Time) string {
	q := url.Values{}
	q.Set("academy_id", fmt.Sprintf("%d", academyID))
	if !start.IsZero() {
		q.Set("start_date", start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		q.Set("end_date", end.Format("2006-01-02"))
	}
	return q.Encode()
}

// FetchDashboard は4つのアナリティクスエンドポイントを並行して呼び、
// 結果をひとつにまとめて返す。セクション単位の失敗は該当セクションを
// nilにするだけで全体は成功として扱う。
func (s *AnalyticsStore) FetchDashboard(ctx context.Context, academyID int64, start, end time.Time) *model.DashboardAnalytics {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	query := analyticsQuery(academyID, start, end)

	var (
		kpis       *model.DashboardKPIs
		athletes   *model.AthleteMetrics
		revenue    *model.RevenueAnalytics
		attendance *model.AttendanceTrends
		failed     [4]bool
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		var out model.DashboardKPIs
		if err := s.client.Get(ctx, "/analytics/dashboard?"+query, &out); err != nil {
			failed[0] = true
			return
		}
		kpis = &out
	}()
	go func() {
		defer wg.Done()
		var out model.AthleteMetrics
		if err := s.client.Get(ctx, "/analytics/athletes?"+query, &out); err != nil {
			failed[1] = true
			return
		}
		athletes = &out
	}()
	go func() {
		defer wg.Done()
		var out model.RevenueAnalytics
		if err := s.client.Get(ctx, "/analytics/revenue?"+query, &out); err != nil {
			failed[2] = true
			return
		}
		revenue = &out
	}()
	go func() {
		defer wg.Done()
		var out model.AttendanceTrends
		if err := s.client.Get(ctx, "/analytics/attendance?"+query, &out); err != nil {
			failed[3] = true
			return
		}
		attendance = &out
	}()
	wg.Wait()

	result := &model.DashboardAnalytics{
		KPIs:       kpis,
		Athletes:   athletes,
		Revenue:    revenue,
		Attendance: attendance,
	}

	s.mu.Lock()
	s.loading = false
	s.partial = failed[0] || failed[1] || failed[2] || failed[3]
	s.data = result
	s.mu.Unlock()

	return result
}
