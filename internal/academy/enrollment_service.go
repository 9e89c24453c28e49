package academy

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/acadman/internal/model"
	"github.com/hitoshi/acadman/internal/repository"
	"github.com/hitoshi/acadman/internal/security"
)

// EnrollmentService は登録管理のサービス層。
// 作成・更新時に参照先のアスリートとプランを検証し、
// 一覧表示用の名前（athlete_name, plan_name）を解決する。
type EnrollmentService struct {
	repo        repository.EnrollmentRepository
	athleteRepo repository.AthleteRepository
	planRepo    repository.TrainingPlanRepository
	sanitizer   security.ContentSanitizerService
}

// NewEnrollmentService はEnrollmentServiceを生成する。
func NewEnrollmentService(
	repo repository.EnrollmentRepository,
	athleteRepo repository.AthleteRepository,
	planRepo repository.TrainingPlanRepository,
	sanitizer security.ContentSanitizerService,
) *EnrollmentService {
	return &EnrollmentService{
		repo:        repo,
		athleteRepo: athleteRepo,
		planRepo:    planRepo,
		sanitizer:   sanitizer,
	}
}

// List はアカデミーの登録一覧を表示名付きで返す。
func (s *EnrollmentService) List(ctx context.Context, academyID int64) ([]*model.Enrollment, error) {
	enrollments, err := s.repo.ListByAcademy(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// Get は指定IDの登録を返す。
func (s *EnrollmentService) Get(ctx context.Context, academyID, id int64) (*model.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, model.NewEnrollmentNotFoundError(id)
	}
	return enrollment, nil
}

// Create は登録を作成する。
// アスリートとプランは同一アカデミー内に存在しなければならない。
// priceは入力値をそのまま保存する。省略時はnilのままで、
// プラン価格からの自動補完は行わない。
func (s *EnrollmentService) Create(ctx context.Context, academyID int64, input *model.EnrollmentInput) (*model.Enrollment, error) {
	if err := validateEnrollmentInput(input); err != nil {
		return nil, err
	}

	athlete, plan, err := s.resolveRefs(ctx, academyID, input)
	if err != nil {
		return nil, err
	}

	enrollment := &model.Enrollment{
		AcademyID: academyID,
		AthleteID: input.AthleteID,
		PlanID:    input.PlanID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    input.Status,
		Notes:     s.sanitizer.Sanitize(input.Notes),
		Price:     input.Price,
	}
	if enrollment.Status == "" {
		enrollment.Status = model.EnrollmentStatusPending
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	enrollment.AthleteName = athlete.FirstName + " " + athlete.LastName
	enrollment.PlanName = plan.Name

	return enrollment, nil
}

// Update は指定IDの登録を更新する。
func (s *EnrollmentService) Update(ctx context.Context, academyID, id int64, input *model.EnrollmentInput) (*model.Enrollment, error) {
	if err := validateEnrollmentInput(input); err != nil {
		return nil, err
	}

	enrollment, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, model.NewEnrollmentNotFoundError(id)
	}

	athlete, plan, err := s.resolveRefs(ctx, academyID, input)
	if err != nil {
		return nil, err
	}

	enrollment.AthleteID = input.AthleteID
	enrollment.PlanID = input.PlanID
	enrollment.StartDate = input.StartDate
	enrollment.EndDate = input.EndDate
	enrollment.Notes = s.sanitizer.Sanitize(input.Notes)
	enrollment.Price = input.Price
	if input.Status != "" {
		enrollment.Status = input.Status
	}

	if err := s.repo.Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	enrollment.AthleteName = athlete.FirstName + " " + athlete.LastName
	enrollment.PlanName = plan.Name

	return enrollment, nil
}

// Delete は指定IDの登録を削除する。
func (s *EnrollmentService) Delete(ctx context.Context, academyID, id int64) error {
	enrollment, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		return fmt.Errorf("failed to find enrollment: %w", err)
	}
	if enrollment == nil {
		return model.NewEnrollmentNotFoundError(id)
	}

	if err := s.repo.Delete(ctx, academyID, id); err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return nil
}

// resolveRefs は参照先のアスリートとプランを検証して返す。
func (s *EnrollmentService) resolveRefs(ctx context.Context, academyID int64, input *model.EnrollmentInput) (*model.Athlete, *model.TrainingPlan, error) {
	athlete, err := s.athleteRepo.FindByID(ctx, academyID, input.AthleteID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return nil, nil, model.NewAthleteNotFoundError(input.AthleteID)
	}

	plan, err := s.planRepo.FindByID(ctx, academyID, input.PlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find training plan: %w", err)
	}
	if plan == nil {
		return nil, nil, model.NewPlanNotFoundError(input.PlanID)
	}

	return athlete, plan, nil
}

// validateEnrollmentInput は登録入力を検証する。
func validateEnrollmentInput(input *model.EnrollmentInput) error {
	fields := map[string][]string{}

	if input.AthleteID == 0 {
		fields["athlete_id"] = append(fields["athlete_id"], "El atleta es obligatorio.")
	}
	if input.PlanID == 0 {
		fields["plan_id"] = append(fields["plan_id"], "El plan es obligatorio.")
	}
	if input.StartDate == "" {
		fields["start_date"] = append(fields["start_date"], "La fecha de inicio es obligatoria.")
	} else if _, err := time.Parse("2006-01-02", input.StartDate); err != nil {
		fields["start_date"] = append(fields["start_date"], "La fecha debe tener el formato YYYY-MM-DD.")
	}
	if input.EndDate != "" {
		if _, err := time.Parse("2006-01-02", input.EndDate); err != nil {
			fields["end_date"] = append(fields["end_date"], "La fecha debe tener el formato YYYY-MM-DD.")
		}
	}
	if input.Price != nil && *input.Price < 0 {
		fields["price"] = append(fields["price"], "El precio no puede ser negativo.")
	}
	if input.Status != "" {
		switch input.Status {
		case model.EnrollmentStatusActive, model.EnrollmentStatusPending,
			model.EnrollmentStatusFinished, model.EnrollmentStatusCancelled:
		default:
			fields["status"] = append(fields["status"], "El estado debe ser Activo, Pendiente, Finalizado o Cancelado.")
		}
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}
