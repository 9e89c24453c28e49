package handler

import (
	"context"

	"github.com/hitoshi/acadman/internal/model"
)

// mockCoachService は関数フィールドで挙動を差し替えるコーチサービスのモック。
// 未設定のメソッドは空の結果を返す。
type mockCoachService struct {
	listFunc   func(ctx context.Context, academyID int64) ([]*model.Coach, error)
	getFunc    func(ctx context.Context, academyID, id int64) (*model.Coach, error)
	createFunc func(ctx context.Context, academyID int64, input *model.CoachInput) (*model.Coach, error)
	updateFunc func(ctx context.Context, academyID, id int64, input *model.CoachInput) (*model.Coach, error)
	deleteFunc func(ctx context.Context, academyID, id int64) error
}

func (m *mockCoachService) List(ctx context.Context, academyID int64) ([]*model.Coach, error) {
	if m.listFunc == nil {
		return []*model.Coach{}, nil
	}
	return m.listFunc(ctx, academyID)
}

func (m *mockCoachService) Get(ctx context.Context, academyID, id int64) (*model.Coach, error) {
	if m.getFunc == nil {
		return nil, model.NewCoachNotFoundError(id)
	}
	return m.getFunc(ctx, academyID, id)
}

func (m *mockCoachService) Create(ctx context.Context, academyID int64, input *model.CoachInput) (*model.Coach, error) {
	if m.createFunc == nil {
		return &model.Coach{}, nil
	}
	return m.createFunc(ctx, academyID, input)
}

func (m *mockCoachService) Update(ctx context.Context, academyID, id int64, input *model.CoachInput) (*model.Coach, error) {
	if m.updateFunc == nil {
		return nil, model.NewCoachNotFoundError(id)
	}
	return m.updateFunc(ctx, academyID, id, input)
}

func (m *mockCoachService) Delete(ctx context.Context, academyID, id int64) error {
	if m.deleteFunc == nil {
		return nil
	}
	return m.deleteFunc(ctx, academyID, id)
}

// mockPlanService は関数フィールドで挙動を差し替えるプランサービスのモック。
type mockPlanService struct {
	listFunc   func(ctx context.Context, academyID int64) ([]*model.TrainingPlan, error)
	getFunc    func(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error)
	createFunc func(ctx context.Context, academyID int64, input *model.TrainingPlanInput) (*model.TrainingPlan, error)
	updateFunc func(ctx context.Context, academyID, id int64, input *model.TrainingPlanInput) (*model.TrainingPlan, error)
	deleteFunc func(ctx context.Context, academyID, id int64) error
}

func (m *mockPlanService) List(ctx context.Context, academyID int64) ([]*model.TrainingPlan, error) {
	if m.listFunc == nil {
		return []*model.TrainingPlan{}, nil
	}
	return m.listFunc(ctx, academyID)
}

func (m *mockPlanService) Get(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error) {
	if m.getFunc == nil {
		return nil, model.NewPlanNotFoundError(id)
	}
	return m.getFunc(ctx, academyID, id)
}

func (m *mockPlanService) Create(ctx context.Context, academyID int64, input *model.TrainingPlanInput) (*model.TrainingPlan, error) {
	if m.createFunc == nil {
		return &model.TrainingPlan{}, nil
	}
	return m.createFunc(ctx, academyID, input)
}

func (m *mockPlanService) Update(ctx context.Context, academyID, id int64, input *model.TrainingPlanInput) (*model.TrainingPlan, error) {
	if m.updateFunc == nil {
		return nil, model.NewPlanNotFoundError(id)
	}
	return m.updateFunc(ctx, academyID, id, input)
}

func (m *mockPlanService) Delete(ctx context.Context, academyID, id int64) error {
	if m.deleteFunc == nil {
		return nil
	}
	return m.deleteFunc(ctx, academyID, id)
}

// mockEnrollmentService は関数フィールドで挙動を差し替える登録サービスのモック。
type mockEnrollmentService struct {
	listFunc   func(ctx context.Context, academyID int64) ([]*model.Enrollment, error)
	getFunc    func(ctx context.Context, academyID, id int64) (*model.Enrollment, error)
	createFunc func(ctx context.Context, academyID int64, input *model.EnrollmentInput) (*model.Enrollment, error)
	updateFunc func(ctx context.Context, academyID, id int64, input *model.EnrollmentInput) (*model.Enrollment, error)
	deleteFunc func(ctx context.Context, academyID, id int64) error
}

func (m *mockEnrollmentService) List(ctx context.Context, academyID int64) ([]*model.Enrollment, error) {
	if m.listFunc == nil {
		return []*model.Enrollment{}, nil
	}
	return m.listFunc(ctx, academyID)
}

func (m *mockEnrollmentService) Get(ctx context.Context, academyID, id int64) (*model.Enrollment, error) {
	if m.getFunc == nil {
		return nil, model.NewEnrollmentNotFoundError(id)
	}
	return m.getFunc(ctx, academyID, id)
}

func (m *mockEnrollmentService) Create(ctx context.Context, academyID int64, input *model.EnrollmentInput) (*model.Enrollment, error) {
	if m.createFunc == nil {
		return &model.Enrollment{}, nil
	}
	return m.createFunc(ctx, academyID, input)
}

func (m *mockEnrollmentService) Update(ctx context.Context, academyID, id int64, input *model.EnrollmentInput) (*model.Enrollment, error) {
	if m.updateFunc == nil {
		return nil, model.NewEnrollmentNotFoundError(id)
	}
	return m.updateFunc(ctx, academyID, id, input)
}

func (m *mockEnrollmentService) Delete(ctx context.Context, academyID, id int64) error {
	if m.deleteFunc == nil {
		return nil
	}
	return m.deleteFunc(ctx, academyID, id)
}
