// Package model はドメインモデルを定義する。
package model

import "time"

// User は外部アカウントサービス（AccountsApp）で認証されたユーザーを表す。
// ユーザーの出自はAccountsApp側にあり、ローカルにはミラーとして保存される。
type User struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ProfilePhotoURL string    `json:"profile_photo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AccessModeType はアクセスモードの種別を表す。
type AccessModeType string

const (
	// AccessModeGlobalAdmin はプラットフォーム全体の管理者権限。
	AccessModeGlobalAdmin AccessModeType = "global_admin"
	// AccessModeCompany は特定アカデミーに紐づく権限。
	AccessModeCompany AccessModeType = "company"
)

// AccessMode はユーザーが保持する1件の認可グラントを表す。
// OAuthコールバックのレスポンスから一括で設定され、再ログインまで不変。
type AccessMode struct {
	Type      AccessModeType `json:"type"`
	Rol       string         `json:"rol"`
	AcademyID *int64         `json:"empresa_id"`
	Academy   *Academy       `json:"empresa,omitempty"`
}

// Session はBearerトークンで識別されるログインセッションを表す。
// SelectedAcademyIDは「現在のコンテキスト」選択をサーバー側で保持する。
type Session struct {
	Token             string
	UserID            int64
	SelectedAcademyID *int64
	Sincronizer       string
	ExpiresAt         time.Time
	CreatedAt         time.Time
}
