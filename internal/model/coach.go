package model

import "time"

// CoachStatus はコーチの在籍状態を表す。
type CoachStatus string

const (
	// CoachStatusActive は活動中のコーチ。
	CoachStatusActive CoachStatus = "Activo"
	// CoachStatusInactive は休止中のコーチ。
	CoachStatusInactive CoachStatus = "Inactivo"
	// CoachStatusSuspended は資格停止中のコーチ。
	CoachStatusSuspended CoachStatus = "Suspendido"
)

// Coach はアカデミーに所属するコーチを表す。
type Coach struct {
	ID             int64       `json:"id"`
	AcademyID      int64       `json:"academy_id"`
	FirstName      string      `json:"nombre"`
	LastName       string      `json:"apellido"`
	Email          string      `json:"email"`
	Phone          string      `json:"telefono"`
	Specialty      string      `json:"especialidad"`
	Certifications []string    `json:"certificaciones,omitempty"`
	Status         CoachStatus `json:"estado"`
	PhotoURL       string      `json:"foto_url,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// CoachInput はコーチの作成・更新入力を表す。
type CoachInput struct {
	FirstName      string      `json:"nombre"`
	LastName       string      `json:"apellido"`
	Email          string      `json:"email"`
	Phone          string      `json:"telefono"`
	Specialty      string      `json:"especialidad"`
	Certifications []string    `json:"certificaciones,omitempty"`
	Status         CoachStatus `json:"estado"`
	PhotoURL       string      `json:"foto_url,omitempty"`
}
