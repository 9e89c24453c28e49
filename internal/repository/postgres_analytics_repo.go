package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/acadman/internal/model"
)

// PostgresAnalyticsRepo はPostgreSQLを使用したダッシュボード集計リポジトリ。
// 月次系列はgenerate_seriesで期間内のすべての月を生成してから
// 実データをLEFT JOINするため、データのない月も0で埋まる。
type PostgresAnalyticsRepo struct {
	db *sql.DB
}

// NewPostgresAnalyticsRepo はPostgresAnalyticsRepoを生成する。
func NewPostgresAnalyticsRepo(db *sql.DB) *PostgresAnalyticsRepo {
	return &PostgresAnalyticsRepo{db: db}
}

// KPICounts はアスリート数・コーチ数・募集中プラン数・登録数を返す。
func (r *PostgresAnalyticsRepo) KPICounts(ctx context.Context, academyID int64) (*model.DashboardKPIs, error) {
	k := &model.DashboardKPIs{}
	err := r.db.QueryRowContext(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM athletes WHERE academy_id = $1),
		    (SELECT COUNT(*) FROM coaches WHERE academy_id = $1),
		    (SELECT COUNT(*) FROM training_plans WHERE academy_id = $1 AND status = 'Activo'),
		    (SELECT COUNT(*) FROM enrollments WHERE academy_id = $1)`,
		academyID,
	).Scan(&k.TotalAthletes, &k.TotalCoaches, &k.ActivePlans, &k.TotalEnrollments)
	if err != nil {
		return nil, fmt.Errorf("failed to count KPIs: %w", err)
	}
	return k, nil
}

// EnrollmentTendency は期間内の月別新規登録数を返す。
func (r *PostgresAnalyticsRepo) EnrollmentTendency(ctx context.Context, academyID int64, start, end time.Time) (*model.MonthlySeries, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT to_char(m.month, 'YYYY-MM'), COALESCE(c.cnt, 0)
		 FROM generate_series(date_trunc('month', $2::timestamptz),
		                      date_trunc('month', $3::timestamptz),
		                      interval '1 month') AS m(month)
		 LEFT JOIN (
		     SELECT date_trunc('month', created_at) AS month, COUNT(*) AS cnt
		     FROM enrollments
		     WHERE academy_id = $1 AND created_at >= $2 AND created_at < $3 + interval '1 day'
		     GROUP BY 1
		 ) c ON c.month = m.month
		 ORDER BY m.month`,
		academyID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollment tendency: %w", err)
	}
	defer rows.Close()

	return scanSeries(rows)
}

// GenderDistribution はアスリートの性別分布を返す。
func (r *PostgresAnalyticsRepo) GenderDistribution(ctx context.Context, academyID int64) (*model.MonthlySeries, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT genero, COUNT(*)
		 FROM athletes
		 WHERE academy_id = $1
		 GROUP BY genero
		 ORDER BY genero`,
		academyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query gender distribution: %w", err)
	}
	defer rows.Close()

	return scanSeries(rows)
}

// RevenueByMonth は期間内の月別売上（登録price合計）と総額を返す。
// priceがNULLの登録は売上に計上しない。
func (r *PostgresAnalyticsRepo) RevenueByMonth(ctx context.Context, academyID int64, start, end time.Time) (float64, *model.MonthlySeries, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT to_char(m.month, 'YYYY-MM'), COALESCE(rev.total, 0)
		 FROM generate_series(date_trunc('month', $2::timestamptz),
		                      date_trunc('month', $3::timestamptz),
		                      interval '1 month') AS m(month)
		 LEFT JOIN (
		     SELECT date_trunc('month', start_date) AS month, SUM(price) AS total
		     FROM enrollments
		     WHERE academy_id = $1 AND price IS NOT NULL
		       AND start_date >= $2::date AND start_date <= $3::date
		     GROUP BY 1
		 ) rev ON rev.month = m.month
		 ORDER BY m.month`,
		academyID, start, end,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query revenue: %w", err)
	}
	defer rows.Close()

	series, err := scanSeries(rows)
	if err != nil {
		return 0, nil, err
	}

	var total float64
	for _, v := range series.Data {
		total += v
	}
	return total, series, nil
}

// EstimatedSessionsByMonth は有効登録のプランから月別の推定出席数を返す。
// 推定値は「有効登録数 × プランの週間セッション数 × 4週」。
func (r *PostgresAnalyticsRepo) EstimatedSessionsByMonth(ctx context.Context, academyID int64, start, end time.Time) (*model.MonthlySeries, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT to_char(m.month, 'YYYY-MM'),
		        COALESCE((
		            SELECT SUM(p.sessions_per_week) * 4
		            FROM enrollments e
		            JOIN training_plans p ON p.id = e.plan_id
		            WHERE e.academy_id = $1 AND e.status = 'Activo'
		              AND e.start_date <= (m.month + interval '1 month' - interval '1 day')::date
		              AND (e.end_date IS NULL OR e.end_date >= m.month::date)
		        ), 0)
		 FROM generate_series(date_trunc('month', $2::timestamptz),
		                      date_trunc('month', $3::timestamptz),
		                      interval '1 month') AS m(month)
		 ORDER BY m.month`,
		academyID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query estimated sessions: %w", err)
	}
	defer rows.Close()

	return scanSeries(rows)
}

// scanSeries はラベルと数値のペアの結果セットをMonthlySeriesへ変換する。
func scanSeries(rows *sql.Rows) (*model.MonthlySeries, error) {
	series := &model.MonthlySeries{
		Labels: []string{},
		Data:   []float64{},
	}
	for rows.Next() {
		var label string
		var value float64
		if err := rows.Scan(&label, &value); err != nil {
			return nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		series.Labels = append(series.Labels, label)
		series.Data = append(series.Data, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate series rows: %w", err)
	}
	return series, nil
}

// compile-time interface check
var _ AnalyticsRepository = (*PostgresAnalyticsRepo)(nil)
