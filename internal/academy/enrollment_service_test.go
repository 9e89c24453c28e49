package academy

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/acadman/internal/model"
)

func enrollmentFixtures() (*mockAthleteRepo, *mockPlanRepo) {
	athleteRepo := &mockAthleteRepo{
		findByIDFunc: func(ctx context.Context, academyID, id int64) (*model.Athlete, error) {
			if id == 1 {
				return &model.Athlete{ID: 1, AcademyID: academyID, FirstName: "Juan", LastName: "Perez"}, nil
			}
			return nil, nil
		},
	}
	planRepo := &mockPlanRepo{
		findByIDFunc: func(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error) {
			if id == 2 {
				return &model.TrainingPlan{ID: 2, AcademyID: academyID, Name: "Plan Elite", Price: 140000}, nil
			}
			return nil, nil
		},
	}
	return athleteRepo, planRepo
}

func TestEnrollmentService_Create_DenormalizesNames(t *testing.T) {
	athleteRepo, planRepo := enrollmentFixtures()

	var persisted *model.Enrollment
	repo := &mockEnrollmentRepo{
		createFunc: func(ctx context.Context, enrollment *model.Enrollment) error {
			enrollment.ID = 5
			persisted = enrollment
			return nil
		},
	}
	service := NewEnrollmentService(repo, athleteRepo, planRepo, passthroughSanitizer{})

	enrollment, err := service.Create(context.Background(), 10, &model.EnrollmentInput{
		AthleteID: 1,
		PlanID:    2,
		StartDate: "2026-01-15",
		Status:    model.EnrollmentStatusActive,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if enrollment.AthleteName != "Juan Perez" {
		t.Errorf("athlete name = %q, want %q", enrollment.AthleteName, "Juan Perez")
	}
	if enrollment.PlanName != "Plan Elite" {
		t.Errorf("plan name = %q, want %q", enrollment.PlanName, "Plan Elite")
	}
	if persisted.AthleteID != 1 || persisted.PlanID != 2 {
		t.Errorf("persisted refs: athlete=%d plan=%d", persisted.AthleteID, persisted.PlanID)
	}
}

func TestEnrollmentService_Create_PriceNeverAutoPopulated(t *testing.T) {
	athleteRepo, planRepo := enrollmentFixtures()

	var persisted *model.Enrollment
	repo := &mockEnrollmentRepo{
		createFunc: func(ctx context.Context, enrollment *model.Enrollment) error {
			persisted = enrollment
			return nil
		},
	}
	service := NewEnrollmentService(repo, athleteRepo, planRepo, passthroughSanitizer{})

	// priceを省略して作成: プラン価格140000があっても補完されない
	enrollment, err := service.Create(context.Background(), 10, &model.EnrollmentInput{
		AthleteID: 1,
		PlanID:    2,
		StartDate: "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if enrollment.Price != nil {
		t.Errorf("price = %v, want nil (plan price must not leak in)", *enrollment.Price)
	}
	if persisted.Price != nil {
		t.Errorf("persisted price = %v, want nil", *persisted.Price)
	}
}

func TestEnrollmentService_Create_ExplicitPriceKept(t *testing.T) {
	athleteRepo, planRepo := enrollmentFixtures()
	repo := &mockEnrollmentRepo{}
	service := NewEnrollmentService(repo, athleteRepo, planRepo, passthroughSanitizer{})

	price := 99000.0
	enrollment, err := service.Create(context.Background(), 10, &model.EnrollmentInput{
		AthleteID: 1,
		PlanID:    2,
		StartDate: "2026-01-15",
		Price:     &price,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if enrollment.Price == nil || *enrollment.Price != 99000 {
		t.Errorf("price = %v, want 99000", enrollment.Price)
	}
}

func TestEnrollmentService_Create_UnknownAthlete(t *testing.T) {
	athleteRepo, planRepo := enrollmentFixtures()
	service := NewEnrollmentService(&mockEnrollmentRepo{}, athleteRepo, planRepo, passthroughSanitizer{})

	_, err := service.Create(context.Background(), 10, &model.EnrollmentInput{
		AthleteID: 99,
		PlanID:    2,
		StartDate: "2026-01-15",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAthleteNotFound {
		t.Errorf("error = %v, want %s", err, model.ErrCodeAthleteNotFound)
	}
}

func TestEnrollmentService_Create_UnknownPlan(t *testing.T) {
	athleteRepo, planRepo := enrollmentFixtures()
	service := NewEnrollmentService(&mockEnrollmentRepo{}, athleteRepo, planRepo, passthroughSanitizer{})

	_, err := service.Create(context.Background(), 10, &model.EnrollmentInput{
		AthleteID: 1,
		PlanID:    99,
		StartDate: "2026-01-15",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePlanNotFound {
		t.Errorf("error = %v, want %s", err, model.ErrCodePlanNotFound)
	}
}

func TestEnrollmentService_Create_DefaultsToPending(t *testing.T) {
	athleteRepo, planRepo := enrollmentFixtures()
	service := NewEnrollmentService(&mockEnrollmentRepo{}, athleteRepo, planRepo, passthroughSanitizer{})

	enrollment, err := service.Create(context.Background(), 10, &model.EnrollmentInput{
		AthleteID: 1,
		PlanID:    2,
		StartDate: "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if enrollment.Status != model.EnrollmentStatusPending {
		t.Errorf("status = %q, want %q", enrollment.Status, model.EnrollmentStatusPending)
	}
}

func TestEnrollmentService_Update_RefreshesDenormalizedNames(t *testing.T) {
	athleteRepo, planRepo := enrollmentFixtures()

	repo := &mockEnrollmentRepo{
		findByIDFunc: func(ctx context.Context, academyID, id int64) (*model.Enrollment, error) {
			return &model.Enrollment{
				ID: 5, AcademyID: academyID,
				AthleteID: 1, AthleteName: "Nombre Viejo",
				PlanID: 2, PlanName: "Plan Viejo",
				StartDate: "2026-01-15",
				Status:    model.EnrollmentStatusActive,
			}, nil
		},
	}
	service := NewEnrollmentService(repo, athleteRepo, planRepo, passthroughSanitizer{})

	enrollment, err := service.Update(context.Background(), 10, 5, &model.EnrollmentInput{
		AthleteID: 1,
		PlanID:    2,
		StartDate: "2026-02-01",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if enrollment.AthleteName != "Juan Perez" {
		t.Errorf("athlete name = %q, want refreshed %q", enrollment.AthleteName, "Juan Perez")
	}
	if enrollment.PlanName != "Plan Elite" {
		t.Errorf("plan name = %q, want refreshed %q", enrollment.PlanName, "Plan Elite")
	}
	if enrollment.StartDate != "2026-02-01" {
		t.Errorf("start date = %q, want %q", enrollment.StartDate, "2026-02-01")
	}
}

func TestEnrollmentService_Validation(t *testing.T) {
	athleteRepo, planRepo := enrollmentFixtures()
	service := NewEnrollmentService(&mockEnrollmentRepo{}, athleteRepo, planRepo, passthroughSanitizer{})

	tests := []struct {
		name      string
		input     *model.EnrollmentInput
		wantField string
	}{
		{"missing athlete", &model.EnrollmentInput{PlanID: 2, StartDate: "2026-01-15"}, "athlete_id"},
		{"missing plan", &model.EnrollmentInput{AthleteID: 1, StartDate: "2026-01-15"}, "plan_id"},
		{"missing start date", &model.EnrollmentInput{AthleteID: 1, PlanID: 2}, "start_date"},
		{"bad end date", &model.EnrollmentInput{AthleteID: 1, PlanID: 2, StartDate: "2026-01-15", EndDate: "pronto"}, "end_date"},
		{"bad status", &model.EnrollmentInput{AthleteID: 1, PlanID: 2, StartDate: "2026-01-15", Status: "Desconocido"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), 10, tt.input)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
				t.Fatalf("error = %v, want validation error", err)
			}
			if len(apiErr.Fields[tt.wantField]) == 0 {
				t.Errorf("expected field error for %q, got %v", tt.wantField, apiErr.Fields)
			}
		})
	}
}
