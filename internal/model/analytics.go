package model

// MonthlySeries はラベル付きの月次時系列を表す。
// ダッシュボードのグラフ描画にそのまま渡せる形式。
type MonthlySeries struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// DashboardKPIs はダッシュボード先頭のKPIセクションを表す。
// GET /analytics/dashboard のレスポンス。
type DashboardKPIs struct {
	TotalAthletes      int           `json:"total_athletes"`
	TotalCoaches       int           `json:"total_coaches"`
	ActivePlans        int           `json:"active_plans"`
	TotalEnrollments   int           `json:"total_enrollments"`
	EnrollmentTendency MonthlySeries `json:"enrollment_tendency"`
}

// AthleteMetrics はアスリート構成のセクションを表す。
// GET /analytics/athletes のレスポンス。
type AthleteMetrics struct {
	Total              int           `json:"total"`
	GenderDistribution MonthlySeries `json:"gender_distribution"`
}

// RevenueAnalytics は売上セクションを表す。
// GET /analytics/revenue のレスポンス。登録のprice合計を月別に集計する。
type RevenueAnalytics struct {
	Total   float64       `json:"total"`
	Monthly MonthlySeries `json:"monthly"`
}

// AttendanceTrends は出席傾向セクションを表す。
// GET /analytics/attendance のレスポンス。
// 有効登録のプランの週間セッション数から月次の推定出席数を算出する。
type AttendanceTrends struct {
	EstimatedSessions MonthlySeries `json:"estimated_sessions"`
}

// DashboardAnalytics はクライアント側で4セクションを集約した結果を表す。
// 各セクションは独立して成否が決まり、失敗したセクションはnilになる。
type DashboardAnalytics struct {
	KPIs       *DashboardKPIs    `json:"kpis"`
	Athletes   *AthleteMetrics   `json:"athletes"`
	Revenue    *RevenueAnalytics `json:"revenue"`
	Attendance *AttendanceTrends `json:"attendance"`
}
