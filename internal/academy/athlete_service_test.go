package academy

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/acadman/internal/model"
)

func validAthleteInput() *model.AthleteInput {
	return &model.AthleteInput{
		FirstName: "Juan",
		LastName:  "Perez",
		BirthDate: "2008-03-15",
		Gender:    model.GenderMale,
	}
}

func TestAthleteService_Create_Success(t *testing.T) {
	var created *model.Athlete
	repo := &mockAthleteRepo{
		createFunc: func(ctx context.Context, athlete *model.Athlete) error {
			athlete.ID = 7
			created = athlete
			return nil
		},
	}
	service := NewAthleteService(repo)

	athlete, err := service.Create(context.Background(), 10, validAthleteInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if athlete.ID != 7 {
		t.Errorf("ID = %d, want 7", athlete.ID)
	}
	if created.AcademyID != 10 {
		t.Errorf("academy ID = %d, want 10", created.AcademyID)
	}
	if created.FirstName != "Juan" || created.LastName != "Perez" {
		t.Errorf("unexpected names: %q %q", created.FirstName, created.LastName)
	}
}

func TestAthleteService_Create_ValidationErrors(t *testing.T) {
	service := NewAthleteService(&mockAthleteRepo{})

	tests := []struct {
		name      string
		mutate    func(*model.AthleteInput)
		wantField string
	}{
		{"missing first name", func(i *model.AthleteInput) { i.FirstName = "" }, "nombre"},
		{"missing last name", func(i *model.AthleteInput) { i.LastName = "" }, "apellido"},
		{"missing birth date", func(i *model.AthleteInput) { i.BirthDate = "" }, "fecha_nacimiento"},
		{"malformed birth date", func(i *model.AthleteInput) { i.BirthDate = "15/03/2008" }, "fecha_nacimiento"},
		{"invalid gender", func(i *model.AthleteInput) { i.Gender = "X" }, "genero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validAthleteInput()
			tt.mutate(input)

			_, err := service.Create(context.Background(), 10, input)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *model.APIError", err)
			}
			if apiErr.Code != model.ErrCodeValidationFailed {
				t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeValidationFailed)
			}
			if len(apiErr.Fields[tt.wantField]) == 0 {
				t.Errorf("expected field error for %q, got %v", tt.wantField, apiErr.Fields)
			}
		})
	}
}

func TestAthleteService_Get_NotFound(t *testing.T) {
	repo := &mockAthleteRepo{
		findByIDFunc: func(ctx context.Context, academyID, id int64) (*model.Athlete, error) {
			return nil, nil
		},
	}
	service := NewAthleteService(repo)

	_, err := service.Get(context.Background(), 10, 99)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAthleteNotFound {
		t.Errorf("error = %v, want %s", err, model.ErrCodeAthleteNotFound)
	}
}

func TestAthleteService_Update_AppliesInput(t *testing.T) {
	var updated *model.Athlete
	repo := &mockAthleteRepo{
		findByIDFunc: func(ctx context.Context, academyID, id int64) (*model.Athlete, error) {
			return &model.Athlete{ID: id, AcademyID: academyID, FirstName: "Old", LastName: "Name"}, nil
		},
		updateFunc: func(ctx context.Context, athlete *model.Athlete) error {
			updated = athlete
			return nil
		},
	}
	service := NewAthleteService(repo)

	input := validAthleteInput()
	input.Email = "juan@example.com"

	athlete, err := service.Update(context.Background(), 10, 7, input)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated == nil {
		t.Fatal("expected update to be persisted")
	}
	if athlete.FirstName != "Juan" {
		t.Errorf("first name = %q, want %q", athlete.FirstName, "Juan")
	}
	if athlete.Email != "juan@example.com" {
		t.Errorf("email = %q, want %q", athlete.Email, "juan@example.com")
	}
	if athlete.ID != 7 || athlete.AcademyID != 10 {
		t.Errorf("identity changed: id=%d academy=%d", athlete.ID, athlete.AcademyID)
	}
}

func TestAthleteService_Delete_NotFound(t *testing.T) {
	deleteCalled := false
	repo := &mockAthleteRepo{
		findByIDFunc: func(ctx context.Context, academyID, id int64) (*model.Athlete, error) {
			return nil, nil
		},
		deleteFunc: func(ctx context.Context, academyID, id int64) error {
			deleteCalled = true
			return nil
		},
	}
	service := NewAthleteService(repo)

	err := service.Delete(context.Background(), 10, 99)
	if err == nil {
		t.Fatal("expected not found error")
	}
	if deleteCalled {
		t.Error("delete must not be called for missing athlete")
	}
}
