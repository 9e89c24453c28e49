package model

import "time"

// PlanStatus はトレーニングプランの提供状態を表す。
type PlanStatus string

const (
	// PlanStatusActive は募集中のプラン。
	PlanStatusActive PlanStatus = "Activo"
	// PlanStatusInactive は募集停止中のプラン。
	PlanStatusInactive PlanStatus = "Inactivo"
	// PlanStatusArchived はアーカイブ済みのプラン。
	PlanStatusArchived PlanStatus = "Archivado"
)

// TrainingPlan はアカデミーが提供するトレーニングプランを表す。
type TrainingPlan struct {
	ID              int64   `json:"id"`
	AcademyID       int64   `json:"academy_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMonths  int     `json:"duration_months"`
	SessionsPerWeek int     `json:"sessions_per_week"`
	Price           float64 `json:"price"`
	Capacity        int     `json:"capacity"`
	// EnrolledCount は有効な登録数から算出される読み取り専用フィールド。
	EnrolledCount int        `json:"enrolled_count,omitempty"`
	Status        PlanStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TrainingPlanInput はトレーニングプランの作成・更新入力を表す。
type TrainingPlanInput struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	DurationMonths  int        `json:"duration_months"`
	SessionsPerWeek int        `json:"sessions_per_week"`
	Price           float64    `json:"price"`
	Capacity        int        `json:"capacity"`
	Status          PlanStatus `json:"status"`
}
