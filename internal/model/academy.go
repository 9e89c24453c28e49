package model

import "time"

// Academy はアカデミー（empresa/会社）を表す。
// 認証フローでは選択可能な組織コンテキストの候補として、
// プロフィール画面ではアカデミー詳細として使用される。
// JSONフィールド名はAccountsApp側のスキーマ（スペイン語）に合わせている。
type Academy struct {
	ID             int64  `json:"id"`
	Name           string `json:"nombre"`
	Alias          string `json:"alias,omitempty"`
	Country        string `json:"pais"`
	Identifier     string `json:"identificador"`
	IdentifierType string `json:"tipo_identificador"`

	// RolEmpresa はログインユーザーがこのアカデミー内で持つロール。
	// メンバーシップ由来のため、コンテキスト候補としての表現でのみ設定される。
	RolEmpresa string `json:"rol_empresa,omitempty"`

	// プロフィール項目
	ContactEmail string `json:"email_contacto,omitempty"`
	ContactPhone string `json:"telefono_contacto,omitempty"`
	Address      string `json:"direccion,omitempty"`
	Website      string `json:"website,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	Description  string `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Membership はユーザーとアカデミーの所属関係を表す。
// OAuthコールバック時にAccountsAppのレスポンスから同期される。
type Membership struct {
	UserID    int64
	AcademyID int64
	Rol       string
	CreatedAt time.Time
}
