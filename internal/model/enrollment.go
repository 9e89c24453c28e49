package model

import "time"

// EnrollmentStatus は登録（アスリートとプランの契約）の状態を表す。
type EnrollmentStatus string

const (
	// EnrollmentStatusActive は有効な登録。
	EnrollmentStatusActive EnrollmentStatus = "Activo"
	// EnrollmentStatusPending は開始待ちの登録。
	EnrollmentStatusPending EnrollmentStatus = "Pendiente"
	// EnrollmentStatusFinished は期間満了した登録。
	EnrollmentStatusFinished EnrollmentStatus = "Finalizado"
	// EnrollmentStatusCancelled は中途解約された登録。
	EnrollmentStatusCancelled EnrollmentStatus = "Cancelado"
)

// Enrollment はアスリートのトレーニングプランへの登録を表す。
// AthleteNameとPlanNameは一覧表示用の非正規化フィールドで、
// 作成・更新時にサービス層が解決する。
// Priceは明示的に指定された場合のみ設定され、プラン価格からの
// 自動補完は行わない（割引等の手動調整を許容するため）。
type Enrollment struct {
	ID          int64            `json:"id"`
	AcademyID   int64            `json:"academy_id"`
	AthleteID   int64            `json:"athlete_id"`
	AthleteName string           `json:"athlete_name,omitempty"`
	PlanID      int64            `json:"plan_id"`
	PlanName    string           `json:"plan_name,omitempty"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date,omitempty"`
	Status      EnrollmentStatus `json:"status"`
	Notes       string           `json:"notes,omitempty"`
	Price       *float64         `json:"price,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// EnrollmentInput は登録の作成・更新入力を表す。
type EnrollmentInput struct {
	AthleteID int64            `json:"athlete_id"`
	PlanID    int64            `json:"plan_id"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date,omitempty"`
	Status    EnrollmentStatus `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	Price     *float64         `json:"price,omitempty"`
}
