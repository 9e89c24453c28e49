package academy

import (
	"context"
	"fmt"

	"github.com/hitoshi/acadman/internal/model"
	"github.com/hitoshi/acadman/internal/repository"
	"github.com/hitoshi/acadman/internal/security"
)

// PlanService はトレーニングプラン管理のサービス層。
// 説明文はHTML入力を許容するため、保存前にサニタイズする。
type PlanService struct {
	repo      repository.TrainingPlanRepository
	sanitizer security.ContentSanitizerService
}

// NewPlanService はPlanServiceを生成する。
func NewPlanService(repo repository.TrainingPlanRepository, sanitizer security.ContentSanitizerService) *PlanService {
	return &PlanService{repo: repo, sanitizer: sanitizer}
}

// List はアカデミーのプラン一覧を有効登録数付きで返す。
func (s *PlanService) List(ctx context.Context, academyID int64) ([]*model.TrainingPlan, error) {
	plans, err := s.repo.ListByAcademy(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list training plans: %w", err)
	}
	return plans, nil
}

// Get は指定IDのプランを返す。
func (s *PlanService) Get(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error) {
	plan, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find training plan: %w", err)
	}
	if plan == nil {
		return nil, model.NewPlanNotFoundError(id)
	}
	return plan, nil
}

// Create はプランを作成する。
func (s *PlanService) Create(ctx context.Context, academyID int64, input *model.TrainingPlanInput) (*model.TrainingPlan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	plan := &model.TrainingPlan{
		AcademyID:       academyID,
		Name:            input.Name,
		Description:     s.sanitizer.Sanitize(input.Description),
		DurationMonths:  input.DurationMonths,
		SessionsPerWeek: input.SessionsPerWeek,
		Price:           input.Price,
		Capacity:        input.Capacity,
		Status:          input.Status,
	}
	if plan.Status == "" {
		plan.Status = model.PlanStatusActive
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create training plan: %w", err)
	}

	return plan, nil
}

// Update は指定IDのプランを更新する。
func (s *PlanService) Update(ctx context.Context, academyID, id int64, input *model.TrainingPlanInput) (*model.TrainingPlan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	plan, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find training plan: %w", err)
	}
	if plan == nil {
		return nil, model.NewPlanNotFoundError(id)
	}

	plan.Name = input.Name
	plan.Description = s.sanitizer.Sanitize(input.Description)
	plan.DurationMonths = input.DurationMonths
	plan.SessionsPerWeek = input.SessionsPerWeek
	plan.Price = input.Price
	plan.Capacity = input.Capacity
	if input.Status != "" {
		plan.Status = input.Status
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update training plan: %w", err)
	}

	return plan, nil
}

// Delete は指定IDのプランを削除する。
func (s *PlanService) Delete(ctx context.Context, academyID, id int64) error {
	plan, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return fmt.Errorf("failed to find training plan: %w", err)
	}
	if plan == nil {
		return model.NewPlanNotFoundError(id)
	}

	if err := s.repo.Delete(ctx, academyID, id); err != nil {
		return fmt.Errorf("failed to delete training plan: %w", err)
	}
	return nil
}

// validatePlanInput はプラン入力を検証する。
func validatePlanInput(input *model.TrainingPlanInput) error {
	fields := map[string][]string{}

	if input.Name == "" {
		fields["name"] = append(fields["name"], "El nombre del plan es obligatorio.")
	}
	if input.Price < 0 {
		fields["price"] = append(fields["price"], "El precio no puede ser negativo.")
	}
	if input.DurationMonths < 0 {
		fields["duration_months"] = append(fields["duration_months"], "La duración no puede ser negativa.")
	}
	if input.SessionsPerWeek < 0 {
		fields["sessions_per_week"] = append(fields["sessions_per_week"], "Las sesiones por semana no pueden ser negativas.")
	}
	if input.Capacity < 0 {
		fields["capacity"] = append(fields["capacity"], "La capacidad no puede ser negativa.")
	}
	if input.Status != "" {
		switch input.Status {
		case model.PlanStatusActive, model.PlanStatusInactive, model.PlanStatusArchived:
		default:
			fields["status"] = append(fields["status"], "El estado debe ser Activo, Inactivo o Archivado.")
		}
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}
