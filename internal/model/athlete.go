package model

import "time"

// Gender はアスリートの性別を表す。
type Gender string

const (
	// GenderMale は男性。
	GenderMale Gender = "M"
	// GenderFemale は女性。
	GenderFemale Gender = "F"
	// GenderOther はその他。
	GenderOther Gender = "Otro"
)

// Athlete はアカデミーに所属するアスリートを表す。
type Athlete struct {
	ID               int64     `json:"id"`
	AcademyID        int64     `json:"academy_id"`
	FirstName        string    `json:"nombre"`
	LastName         string    `json:"apellido"`
	BirthDate        string    `json:"fecha_nacimiento"`
	Gender           Gender    `json:"genero"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"telefono,omitempty"`
	IdentityDocument string    `json:"documento_identidad,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AthleteInput はアスリートの作成・更新入力を表す。
type AthleteInput struct {
	FirstName        string `json:"nombre"`
	LastName         string `json:"apellido"`
	BirthDate        string `json:"fecha_nacimiento"`
	Gender           Gender `json:"genero"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"telefono,omitempty"`
	IdentityDocument string `json:"documento_identidad,omitempty"`
}
