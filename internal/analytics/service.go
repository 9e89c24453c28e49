// Package analytics はダッシュボード用の集計サービスを提供する。
// 4つのセクション（KPI・アスリート構成・売上・出席傾向）は独立した
// 操作として公開され、ハンドラー側で互いの失敗に影響されずに呼び出せる。
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/acadman/internal/model"
	"github.com/hitoshi/acadman/internal/repository"
)

// defaultRangeMonths は期間未指定時に遡る月数。
const defaultRangeMonths = 6

// Service はダッシュボード集計のサービス層。
type Service struct {
	repo repository.AnalyticsRepository
	now  func() time.Time
}

// NewService はServiceを生成する。
func NewService(repo repository.AnalyticsRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// DateRange は集計対象期間を表す。ゼロ値の場合はデフォルト期間になる。
type DateRange struct {
	Start time.Time
	End   time.Time
}

// normalize は期間を補完する。終了日は当日、開始日は6ヶ月前がデフォルト。
func (s *Service) normalize(r DateRange) (time.Time, time.Time) {
	end := r.End
	if end.IsZero() {
		end = s.now()
	}
	start := r.Start
	if start.IsZero() {
		start = end.AddDate(0, -defaultRangeMonths, 0)
	}
	return start, end
}

// Dashboard はKPIセクションを返す。
func (s *Service) Dashboard(ctx context.Context, academyID int64, r DateRange) (*model.DashboardKPIs, error) {
	kpis, err := s.repo.KPICounts(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load KPI counts: %w", err)
	}

	start, end := s.normalize(r)
	tendency, err := s.repo.EnrollmentTendency(ctx, academyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollment tendency: %w", err)
	}
	kpis.EnrollmentTendency = *tendency

	return kpis, nil
}

// Athletes はアスリート構成セクションを返す。
func (s *Service) Athletes(ctx context.Context, academyID int64) (*model.AthleteMetrics, error) {
	distribution, err := s.repo.GenderDistribution(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gender distribution: %w", err)
	}

	total := 0
	for _, v := range distribution.Data {
		total += int(v)
	}

	return &model.AthleteMetrics{
		Total:              total,
		GenderDistribution: *distribution,
	}, nil
}

// Revenue は売上セクションを返す。
func (s *Service) Revenue(ctx context.Context, academyID int64, r DateRange) (*model.RevenueAnalytics, error) {
	start, end := s.normalize(r)

	total, monthly, err := s.repo.RevenueByMonth(ctx, academyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue: %w", err)
	}

	return &model.RevenueAnalytics{
		Total:   total,
		Monthly: *monthly,
	}, nil
}

// Attendance は出席傾向セクションを返す。
func (s *Service) Attendance(ctx context.Context, academyID int64, r DateRange) (*model.AttendanceTrends, error) {
	start, end := s.normalize(r)

	sessions, err := s.repo.EstimatedSessionsByMonth(ctx, academyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load estimated sessions: %w", err)
	}

	return &model.AttendanceTrends{
		EstimatedSessions: *sessions,
	}, nil
}
