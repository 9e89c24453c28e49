// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/acadman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
// ユーザーの出自はAccountsAppにあるため、作成はUpsertのみ。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// Upsert はAccountsApp由来のユーザー情報を作成または更新する。
	Upsert(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByToken は指定トークンのセッションを取得する。期限切れの場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.Session, error)

	// UpdateSelectedAcademy はセッションの現在アカデミーを更新する。
	UpdateSelectedAcademy(ctx context.Context, token string, academyID int64) error

	// DeleteByToken は指定トークンのセッションを削除する。
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// AcademyRepository はアカデミーと所属関係の永続化インターフェース。
type AcademyRepository interface {
	// FindByID は指定IDのアカデミーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Academy, error)

	// SyncFromAccounts はAccountsApp由来の基本情報（名称・識別子・国）を
	// 作成または更新する。ローカルで編集されるプロフィール項目は変更しない。
	SyncFromAccounts(ctx context.Context, academy *model.Academy) error

	// UpdateProfile はアカデミーのプロフィール項目を更新する。
	UpdateProfile(ctx context.Context, academy *model.Academy) error

	// ListByUserID はユーザーが所属するアカデミー一覧をロール付きで返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Academy, error)

	// UpsertMembership は所属関係を作成または更新する。
	UpsertMembership(ctx context.Context, m *model.Membership) error

	// FindMembership は所属関係を取得する。見つからない場合はnilを返す。
	FindMembership(ctx context.Context, userID, academyID int64) (*model.Membership, error)
}

// AthleteRepository はアスリートデータの永続化インターフェース。
// すべての操作はアカデミー単位にスコープされる。
type AthleteRepository interface {
	// ListByAcademy はアカデミーのアスリート一覧をID昇順で返す。
	ListByAcademy(ctx context.Context, academyID int64) ([]*model.Athlete, error)

	// FindByID は指定IDのアスリートを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, academyID, id int64) (*model.Athlete, error)

	// Create はアスリートを作成し、採番されたIDをathlete.IDに設定する。
	Create(ctx context.Context, athlete *model.Athlete) error

	// Update はアスリートを更新する。
	Update(ctx context.Context, athlete *model.Athlete) error

	// Delete は指定IDのアスリートを削除する。
	Delete(ctx context.Context, academyID, id int64) error
}

// CoachRepository はコーチデータの永続化インターフェース。
type CoachRepository interface {
	// ListByAcademy はアカデミーのコーチ一覧をID昇順で返す。
	ListByAcademy(ctx context.Context, academyID int64) ([]*model.Coach, error)

	// FindByID は指定IDのコーチを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, academyID, id int64) (*model.Coach, error)

	// Create はコーチを作成し、採番されたIDをcoach.IDに設定する。
	Create(ctx context.Context, coach *model.Coach) error

	// Update はコーチを更新する。
	Update(ctx context.Context, coach *model.Coach) error

	// Delete は指定IDのコーチを削除する。
	Delete(ctx context.Context, academyID, id int64) error
}

// TrainingPlanRepository はトレーニングプランの永続化インターフェース。
type TrainingPlanRepository interface {
	// ListByAcademy はプラン一覧を有効登録数（enrolled_count）付きで返す。
	ListByAcademy(ctx context.Context, academyID int64) ([]*model.TrainingPlan, error)

	// FindByID は指定IDのプランを有効登録数付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error)

	// Create はプランを作成し、採番されたIDをplan.IDに設定する。
	Create(ctx context.Context, plan *model.TrainingPlan) error

	// Update はプランを更新する。
	Update(ctx context.Context, plan *model.TrainingPlan) error

	// Delete は指定IDのプランを削除する。
	Delete(ctx context.Context, academyID, id int64) error
}

// EnrollmentRepository は登録データの永続化インターフェース。
// 取得系はアスリート名・プラン名をJOINで解決して返す。
type EnrollmentRepository interface {
	// ListByAcademy は登録一覧を表示名付きでID昇順で返す。
	ListByAcademy(ctx context.Context, academyID int64) ([]*model.Enrollment, error)

	// FindByID は指定IDの登録を表示名付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, academyID, id int64) (*model.Enrollment, error)

	// Create は登録を作成し、採番されたIDをenrollment.IDに設定する。
	Create(ctx context.Context, enrollment *model.Enrollment) error

	// Update は登録を更新する。
	Update(ctx context.Context, enrollment *model.Enrollment) error

	// Delete は指定IDの登録を削除する。
	Delete(ctx context.Context, academyID, id int64) error
}

// AnalyticsRepository はダッシュボード集計クエリのインターフェース。
// 4セクションは独立したクエリとして提供され、ハンドラー側で並列に呼び出せる。
type AnalyticsRepository interface {
	// KPICounts はアスリート数・コーチ数・募集中プラン数・登録数を返す。
	KPICounts(ctx context.Context, academyID int64) (*model.DashboardKPIs, error)

	// EnrollmentTendency は期間内の月別新規登録数を返す。
	EnrollmentTendency(ctx context.Context, academyID int64, start, end time.Time) (*model.MonthlySeries, error)

	// GenderDistribution はアスリートの性別分布を返す。
	GenderDistribution(ctx context.Context, academyID int64) (*model.MonthlySeries, error)

	// RevenueByMonth は期間内の月別売上（登録price合計）と総額を返す。
	RevenueByMonth(ctx context.Context, academyID int64, start, end time.Time) (float64, *model.MonthlySeries, error)

	// EstimatedSessionsByMonth は有効登録のプランから月別の推定出席数を返す。
	EstimatedSessionsByMonth(ctx context.Context, academyID int64, start, end time.Time) (*model.MonthlySeries, error)
}
