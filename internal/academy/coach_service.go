package academy

import (
	"context"
	"fmt"

	"github.com/hitoshi/acadman/internal/model"
	"github.com/hitoshi/acadman/internal/repository"
)

// CoachService はコーチ管理のサービス層。
type CoachService struct {
	repo repository.CoachRepository
}

// NewCoachService はCoachServiceを生成する。
func NewCoachService(repo repository.CoachRepository) *CoachService {
	return &CoachService{repo: repo}
}

// List はアカデミーのコーチ一覧を返す。
func (s *CoachService) List(ctx context.Context, academyID int64) ([]*model.Coach, error) {
	coaches, err := s.repo.ListByAcademy(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	return coaches, nil
}

// Get は指定IDのコーチを返す。
func (s *CoachService) Get(ctx context.Context, academyID, id int64) (*model.Coach, error) {
	coach, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find coach: %w", err)
	}
	if coach == nil {
		return nil, model.NewCoachNotFoundError(id)
	}
	return coach, nil
}

// Create はコーチを作成する。入力が不正な場合はフィールド別のエラーを返す。
func (s *CoachService) Create(ctx context.Context, academyID int64, input *model.CoachInput) (*model.Coach, error) {
	if err := validateCoachInput(input); err != nil {
		return nil, err
	}

	coach := &model.Coach{
		AcademyID:      academyID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Specialty:      input.Specialty,
		Certifications: input.Certifications,
		Status:         input.Status,
		PhotoURL:       input.PhotoURL,
	}
	if coach.Status == "" {
		coach.Status = model.CoachStatusActive
	}

	if err := s.repo.Create(ctx, coach); err != nil {
		return nil, fmt.Errorf("failed to create coach: %w", err)
	}

	return coach, nil
}

// Update は指定IDのコーチを更新する。
func (s *CoachService) Update(ctx context.Context, academyID, id int64, input *model.CoachInput) (*model.Coach, error) {
	if err := validateCoachInput(input); err != nil {
		return nil, err
	}

	coach, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find coach: %w", err)
	}
	if coach == nil {
		return nil, model.NewCoachNotFoundError(id)
	}

	coach.FirstName = input.FirstName
	coach.LastName = input.LastName
	coach.Email = input.Email
	coach.Phone = input.Phone
	coach.Specialty = input.Specialty
	coach.Certifications = input.Certifications
	coach.PhotoURL = input.PhotoURL
	if input.Status != "" {
		coach.Status = input.Status
	}

	if err := s.repo.Update(ctx, coach); err != nil {
		return nil, fmt.Errorf("failed to update coach: %w", err)
	}

	return coach, nil
}

// Delete は指定IDのコーチを削除する。
func (s *CoachService) Delete(ctx context.Context, academyID, id int64) error {
	coach, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return fmt.Errorf("failed to find coach: %w", err)
	}
	if coach == nil {
		return model.NewCoachNotFoundError(id)
	}

	if err := s.repo.Delete(ctx, academyID, id); err != nil {
		return fmt.Errorf("failed to delete coach: %w", err)
	}
	return nil
}

// validateCoachInput はコーチ入力を検証する。
func validateCoachInput(input *model.CoachInput) error {
	fields := map[string][]string{}

	if input.FirstName == "" {
		fields["nombre"] = append(fields["nombre"], "El nombre es obligatorio.")
	}
	if input.LastName == "" {
		fields["apellido"] = append(fields["apellido"], "El apellido es obligatorio.")
	}
	if input.Status != "" {
		switch input.Status {
		case model.CoachStatusActive, model.CoachStatusInactive, model.CoachStatusSuspended:
		default:
			fields["estado"] = append(fields["estado"], "El estado debe ser Activo, Inactivo o Suspendido.")
		}
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}
