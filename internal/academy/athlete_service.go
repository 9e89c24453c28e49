// Package academy はアカデミー配下のドメインロジックを提供する。
// アスリート・コーチ・トレーニングプラン・登録のCRUDと、
// アカデミープロフィールの管理を含む。
package academy

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/acadman/internal/model"
	"github.com/hitoshi/acadman/internal/repository"
)

// AthleteService はアスリート管理のサービス層。
type AthleteService struct {
	repo repository.AthleteRepository
}

// NewAthleteService はAthleteServiceを生成する。
func NewAthleteService(repo repository.AthleteRepository) *AthleteService {
	return &AthleteService{repo: repo}
}

// List はアカデミーのアスリート一覧を返す。
func (s *AthleteService) List(ctx context.Context, academyID int64) ([]*model.Athlete, error) {
	athletes, err := s.repo.ListByAcademy(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	return athletes, nil
}

// Get は指定IDのアスリートを返す。
func (s *AthleteService) Get(ctx context.Context, academyID, id int64) (*model.Athlete, error) {
	athlete, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return nil, model.NewAthleteNotFoundError(id)
	}
	return athlete, nil
}

// Create はアスリートを作成する。
func (s *AthleteService) Create(ctx context.Context, academyID int64, input *model.AthleteInput) (*model.Athlete, error) {
	if err := validateAthleteInput(input); err != nil {
		return nil, err
	}

	athlete := &model.Athlete{
		AcademyID:        academyID,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		BirthDate:        input.BirthDate,
		Gender:           input.Gender,
		Email:            input.Email,
		Phone:            input.Phone,
		IdentityDocument: input.IdentityDocument,
	}

	if err := s.repo.Create(ctx, athlete); err != nil {
		return nil, fmt.Errorf("failed to create athlete: %w", err)
	}

	return athlete, nil
}

// Update は指定IDのアスリートを更新する。
func (s *AthleteService) Update(ctx context.Context, academyID, id int64, input *model.AthleteInput) (*model.Athlete, error) {
	if err := validateAthleteInput(input); err != nil {
		return nil, err
	}

	athlete, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return nil, model.NewAthleteNotFoundError(id)
	}

	athlete.FirstName = input.FirstName
	athlete.LastName = input.LastName
	athlete.BirthDate = input.BirthDate
	athlete.Gender = input.Gender
	athlete.Email = input.Email
	athlete.Phone = input.Phone
	athlete.IdentityDocument = input.IdentityDocument

	if err := s.repo.Update(ctx, athlete); err != nil {
		return nil, fmt.Errorf("failed to update athlete: %w", err)
	}

	return athlete, nil
}

// Delete は指定IDのアスリートを削除する。
func (s *AthleteService) Delete(ctx context.Context, academyID, id int64) error {
	athlete, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return model.NewAthleteNotFoundError(id)
	}

	if err := s.repo.Delete(ctx, academyID, id); err != nil {
		return fmt.Errorf("failed to delete athlete: %w", err)
	}
	return nil
}

// validateAthleteInput はアスリート入力を検証する。
func validateAthleteInput(input *model.AthleteInput) error {
	fields := map[string][]string{}

	if input.FirstName == "" {
		fields["nombre"] = append(fields["nombre"], "El nombre es obligatorio.")
	}
	if input.LastName == "" {
		fields["apellido"] = append(fields["apellido"], "El apellido es obligatorio.")
	}
	if input.BirthDate == "" {
		fields["fecha_nacimiento"] = append(fields["fecha_nacimiento"], "La fecha de nacimiento es obligatoria.")
	} else if _, err := time.Parse("2006-01-02", input.BirthDate); err != nil {
		fields["fecha_nacimiento"] = append(fields["fecha_nacimiento"], "La fecha debe tener el formato YYYY-MM-DD.")
	}
	switch input.Gender {
	case model.GenderMale, model.GenderFemale, model.GenderOther:
	default:
		fields["genero"] = append(fields["genero"], "El género debe ser M, F u Otro.")
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}
