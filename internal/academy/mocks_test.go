package academy

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/acadman/internal/model"
)

// mockAthleteRepo はAthleteRepositoryのテスト用モック。
type mockAthleteRepo struct {
	listByAcademyFunc func(ctx context.Context, academyID int64) ([]*model.Athlete, error)
	findByIDFunc      func(ctx context.Context, academyID, id int64) (*model.Athlete, error)
	createFunc        func(ctx context.Context, athlete *model.Athlete) error
	updateFunc        func(ctx context.Context, athlete *model.Athlete) error
	deleteFunc        func(ctx context.Context, academyID, id int64) error
}

func (m *mockAthleteRepo) ListByAcademy(ctx context.Context, academyID int64) ([]*model.Athlete, error) {
	return m.listByAcademyFunc(ctx, academyID)
}

func (m *mockAthleteRepo) FindByID(ctx context.Context, academyID, id int64) (*model.Athlete, error) {
	return m.findByIDFunc(ctx, academyID, id)
}

func (m *mockAthleteRepo) Create(ctx context.Context, athlete *model.Athlete) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, athlete)
	}
	return nil
}

func (m *mockAthleteRepo) Update(ctx context.Context, athlete *model.Athlete) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, athlete)
	}
	return nil
}

func (m *mockAthleteRepo) Delete(ctx context.Context, academyID, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, academyID, id)
	}
	return nil
}

// mockPlanRepo はTrainingPlanRepositoryのテスト用モック。
type mockPlanRepo struct {
	listByAcademyFunc func(ctx context.Context, academyID int64) ([]*model.TrainingPlan, error)
	findByIDFunc      func(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error)
	createFunc        func(ctx context.Context, plan *model.TrainingPlan) error
	updateFunc        func(ctx context.Context, plan *model.TrainingPlan) error
	deleteFunc        func(ctx context.Context, academyID, id int64) error
}

func (m *mockPlanRepo) ListByAcademy(ctx context.Context, academyID int64) ([]*model.TrainingPlan, error) {
	return m.listByAcademyFunc(ctx, academyID)
}

func (m *mockPlanRepo) FindByID(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error) {
	return m.findByIDFunc(ctx, academyID, id)
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *model.TrainingPlan) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepo) Update(ctx context.Context, plan *model.TrainingPlan) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepo) Delete(ctx context.Context, academyID, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, academyID, id)
	}
	return nil
}

// mockEnrollmentRepo はEnrollmentRepositoryのテスト用モック。
type mockEnrollmentRepo struct {
	listByAcademyFunc func(ctx context.Context, academyID int64) ([]*model.Enrollment, error)
	findByIDFunc      func(ctx context.Context, academyID, id int64) (*model.Enrollment, error)
	createFunc        func(ctx context.Context, enrollment *model.Enrollment) error
	updateFunc        func(ctx context.Context, enrollment *model.Enrollment) error
	deleteFunc        func(ctx context.Context, academyID, id int64) error
}

func (m *mockEnrollmentRepo) ListByAcademy(ctx context.Context, academyID int64) ([]*model.Enrollment, error) {
	return m.listByAcademyFunc(ctx, academyID)
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, academyID, id int64) (*model.Enrollment, error) {
	return m.findByIDFunc(ctx, academyID, id)
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, enrollment)
	}
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, enrollment *model.Enrollment) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, enrollment)
	}
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, academyID, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, academyID, id)
	}
	return nil
}

// mockAcademyRepo はAcademyRepositoryのテスト用モック。
type mockAcademyRepo struct {
	findByIDFunc      func(ctx context.Context, id int64) (*model.Academy, error)
	updateProfileFunc func(ctx context.Context, academy *model.Academy) error
}

func (m *mockAcademyRepo) FindByID(ctx context.Context, id int64) (*model.Academy, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockAcademyRepo) SyncFromAccounts(ctx context.Context, academy *model.Academy) error {
	return nil
}

func (m *mockAcademyRepo) UpdateProfile(ctx context.Context, academy *model.Academy) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, academy)
	}
	return nil
}

func (m *mockAcademyRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Academy, error) {
	return nil, nil
}

func (m *mockAcademyRepo) UpsertMembership(ctx context.Context, mem *model.Membership) error {
	return nil
}

func (m *mockAcademyRepo) FindMembership(ctx context.Context, userID, academyID int64) (*model.Membership, error) {
	return nil, nil
}

// passthroughSanitizer は入力をそのまま返すテスト用サニタイザー。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(rawHTML string) string { return rawHTML }

// allowAllGuard はすべてのURLを許可するテスト用SSRFガード。
type allowAllGuard struct{}

func (allowAllGuard) ValidateURL(rawURL string) error { return nil }

func (allowAllGuard) NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client {
	return &http.Client{Timeout: timeout}
}
