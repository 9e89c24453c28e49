// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// ユーザー向けメッセージは製品のUI言語（スペイン語）で記述する。
type APIError struct {
	Code     string              // エラーコード
	Message  string              // エラーメッセージ
	Category string              // カテゴリ: auth, permission, validation, domain, system
	Action   string              // ユーザー向け対処方法
	Fields   map[string][]string // バリデーションエラーのフィールド別メッセージ（422のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAuthFailed         = "AUTH_FAILED"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeAcademyNotSelected = "ACADEMY_NOT_SELECTED"
	ErrCodeMembershipRequired = "MEMBERSHIP_REQUIRED"
	ErrCodeAthleteNotFound    = "ATHLETE_NOT_FOUND"
	ErrCodeCoachNotFound      = "COACH_NOT_FOUND"
	ErrCodePlanNotFound       = "PLAN_NOT_FOUND"
	ErrCodeEnrollmentNotFound = "ENROLLMENT_NOT_FOUND"
	ErrCodeAcademyNotFound    = "ACADEMY_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
)

// NewAuthFailedError は認可コード交換の失敗エラーを生成する。
func NewAuthFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  "Falló la autenticación con GAIANTIS.",
		Category: "auth",
		Action:   "Inténtalo de nuevo. Si el problema persiste, contacta al administrador.",
	}
}

// NewSessionExpiredError はセッション失効エラーを生成する。
func NewSessionExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionExpired,
		Message:  "Tu sesión ha expirado.",
		Category: "auth",
		Action:   "Inicia sesión nuevamente.",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "No tienes permisos para realizar esta acción.",
		Category: "permission",
		Action:   "Verifica tu rol dentro de la academia.",
	}
}

// NewValidationError はフィールド別メッセージ付きのバリデーションエラーを生成する。
func NewValidationError(fields map[string][]string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  "Los datos enviados no son válidos.",
		Category: "validation",
		Action:   "Revisa los campos marcados e inténtalo de nuevo.",
		Fields:   fields,
	}
}

// NewAcademyNotSelectedError はアカデミー未選択エラーを生成する。
func NewAcademyNotSelectedError() *APIError {
	return &APIError{
		Code:     ErrCodeAcademyNotSelected,
		Message:  "No hay una academia seleccionada.",
		Category: "auth",
		Action:   "Selecciona una academia antes de continuar.",
	}
}

// NewMembershipRequiredError は所属外アカデミーの選択エラーを生成する。
func NewMembershipRequiredError(academyID int64) *APIError {
	return &APIError{
		Code:     ErrCodeMembershipRequired,
		Message:  fmt.Sprintf("No perteneces a la academia indicada: %d", academyID),
		Category: "permission",
		Action:   "Selecciona una academia de tu lista de accesos.",
	}
}

// NewAthleteNotFoundError はアスリート未検出エラーを生成する。
func NewAthleteNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeAthleteNotFound,
		Message:  fmt.Sprintf("No se encontró el atleta: %d", id),
		Category: "domain",
		Action:   "Actualiza la lista e inténtalo de nuevo.",
	}
}

// NewCoachNotFoundError はコーチ未検出エラーを生成する。
func NewCoachNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeCoachNotFound,
		Message:  fmt.Sprintf("No se encontró el entrenador: %d", id),
		Category: "domain",
		Action:   "Actualiza la lista e inténtalo de nuevo.",
	}
}

// NewPlanNotFoundError はプラン未検出エラーを生成する。
func NewPlanNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodePlanNotFound,
		Message:  fmt.Sprintf("No se encontró el plan de entrenamiento: %d", id),
		Category: "domain",
		Action:   "Actualiza la lista e inténtalo de nuevo.",
	}
}

// NewEnrollmentNotFoundError は登録未検出エラーを生成する。
func NewEnrollmentNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeEnrollmentNotFound,
		Message:  fmt.Sprintf("No se encontró la inscripción: %d", id),
		Category: "domain",
		Action:   "Actualiza la lista e inténtalo de nuevo.",
	}
}

// NewAcademyNotFoundError はアカデミー未検出エラーを生成する。
func NewAcademyNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeAcademyNotFound,
		Message:  fmt.Sprintf("No se encontró la academia: %d", id),
		Category: "domain",
		Action:   "Verifica el identificador de la academia.",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "No se encontró el usuario.",
		Category: "auth",
		Action:   "Inicia sesión nuevamente.",
	}
}

// AsAPIError はエラーチェーンからAPIErrorを取り出す。
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
