package client

import (
	"context"
	"fmt"

	"github.com/hitoshi/acadman/internal/model"
)

// restService はバックエンドのRESTコレクションに対するEntityService実装。
type restService[T any, I any] struct {
	client   *Client
	basePath string
}

var _ EntityService[*model.Athlete, model.AthleteInput] = (*restService[*model.Athlete, model.AthleteInput])(nil)

func (s *restService[T, I]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := s.client.Get(ctx, s.basePath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *restService[T, I]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	if err := s.client.Get(ctx, fmt.Sprintf("%s/%d", s.basePath, id), &out); err != nil {
		return out, err
	}
	return out, nil
}

func (s *restService[T, I]) Create(ctx context.Context, input I) (T, error) {
	var out T
	if err := s.client.Post(ctx, s.basePath, input, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (s *restService[T, I]) Update(ctx context.Context, id int64, input I) (T, error) {
	var out T
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", s.basePath, id), input, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (s *restService[T, I]) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("%s/%d", s.basePath, id))
}

// NewRESTAthleteService はアスリートのREST実装を返す。
func NewRESTAthleteService(c *Client) EntityService[*model.Athlete, model.AthleteInput] {
	return &restService[*model.Athlete, model.AthleteInput]{client: c, basePath: "/api/athletes"}
}

// NewRESTCoachService はコーチのREST実装を返す。
func NewRESTCoachService(c *Client) EntityService[*model.Coach, model.CoachInput] {
	return &restService[*model.Coach, model.CoachInput]{client: c, basePath: "/api/coaches"}
}

// NewRESTPlanService はトレーニングプランのREST実装を返す。
func NewRESTPlanService(c *Client) EntityService[*model.TrainingPlan, model.TrainingPlanInput] {
	return &restService[*model.TrainingPlan, model.TrainingPlanInput]{client: c, basePath: "/api/plans"}
}

// NewRESTEnrollmentService は登録のREST実装を返す。
func NewRESTEnrollmentService(c *Client) EntityService[*model.Enrollment, model.EnrollmentInput] {
	return &restService[*model.Enrollment, model.EnrollmentInput]{client: c, basePath: "/api/enrollments"}
}

// NewAthleteStore はRESTサービスを注入したアスリートストアを返す。
func NewAthleteStore(service EntityService[*model.Athlete, model.AthleteInput]) *Store[*model.Athlete, model.AthleteInput] {
	return NewStore(service, func(a *model.Athlete) int64 { return a.ID })
}

// NewCoachStore はコーチストアを返す。
func NewCoachStore(service EntityService[*model.Coach, model.CoachInput]) *Store[*model.Coach, model.CoachInput] {
	return NewStore(service, func(c *model.Coach) int64 { return c.ID })
}

// NewPlanStore はトレーニングプランストアを返す。
func NewPlanStore(service EntityService[*model.TrainingPlan, model.TrainingPlanInput]) *Store[*model.TrainingPlan, model.TrainingPlanInput] {
	return NewStore(service, func(p *model.TrainingPlan) int64 { return p.ID })
}

// NewEnrollmentStore は登録ストアを返す。
func NewEnrollmentStore(service EntityService[*model.Enrollment, model.EnrollmentInput]) *Store[*model.Enrollment, model.EnrollmentInput] {
	return NewStore(service, func(e *model.Enrollment) int64 { return e.ID })
}
