package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hitoshi/acadman/internal/model"
)

// memoryCore はメモリ実装の共通部分。レイテンシのシミュレーションと
// 連番ID採番を提供する。delayゼロなら待機しない。
type memoryCore[T any] struct {
	mu    sync.Mutex
	items []T
	idOf  func(T) int64
	delay time.Duration
}

func (c *memoryCore[T]) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// nextIDLocked は既存IDの最大値+1を返す。空なら1。
func (c *memoryCore[T]) nextIDLocked() int64 {
	var max int64
	for _, it := range c.items {
		if id := c.idOf(it); id > max {
			max = id
		}
	}
	return max + 1
}

func (c *memoryCore[T]) indexLocked(id int64) int {
	for i, it := range c.items {
		if c.idOf(it) == id {
			return i
		}
	}
	return -1
}

// bumpUpdatedAt は更新時刻が前回より厳密に後になるよう調整する。
func bumpUpdatedAt(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func notFoundError(message string) *APIError {
	return &APIError{Kind: KindNotFound, StatusCode: 404, Message: message}
}

// MemoryAthleteService はバックエンドなしで動作するアスリートサービス。
// デモ環境とテストで使う。
type MemoryAthleteService struct {
	core memoryCore[*model.Athlete]
}

var _ EntityService[*model.Athlete, model.AthleteInput] = (*MemoryAthleteService)(nil)

// NewMemoryAthleteService はメモリ実装を生成する。delayは各操作の擬似遅延。
func NewMemoryAthleteService(delay time.Duration, seed []*model.Athlete) *MemoryAthleteService {
	s := &MemoryAthleteService{
		core: memoryCore[*model.Athlete]{
			idOf:  func(a *model.Athlete) int64 { return a.ID },
			delay: delay,
		},
	}
	for _, a := range seed {
		cp := *a
		s.core.items = append(s.core.items, &cp)
	}
	return s
}

func cloneAthlete(a *model.Athlete) *model.Athlete {
	cp := *a
	return &cp
}

func (s *MemoryAthleteService) List(ctx context.Context) ([]*model.Athlete, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	out := make([]*model.Athlete, 0, len(s.core.items))
	for _, a := range s.core.items {
		out = append(out, cloneAthlete(a))
	}
	return out, nil
}

func (s *MemoryAthleteService) Get(ctx context.Context, id int64) (*model.Athlete, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return nil, notFoundError(fmt.Sprintf("El atleta %d no existe.", id))
	}
	return cloneAthlete(s.core.items[i]), nil
}

func (s *MemoryAthleteService) Create(ctx context.Context, input model.AthleteInput) (*model.Athlete, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	now := time.Now()
	athlete := &model.Athlete{
		ID:               s.core.nextIDLocked(),
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		BirthDate:        input.BirthDate,
		Gender:           input.Gender,
		Email:            input.Email,
		Phone:            input.Phone,
		IdentityDocument: input.IdentityDocument,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.core.items = append(s.core.items, athlete)
	return cloneAthlete(athlete), nil
}

func (s *MemoryAthleteService) Update(ctx context.Context, id int64, input model.AthleteInput) (*model.Athlete, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return nil, notFoundError(fmt.Sprintf("El atleta %d no existe.", id))
	}
	prev := s.core.items[i]
	next := *prev
	next.FirstName = input.FirstName
	next.LastName = input.LastName
	next.BirthDate = input.BirthDate
	next.Gender = input.Gender
	next.Email = input.Email
	next.Phone = input.Phone
	next.IdentityDocument = input.IdentityDocument
	next.UpdatedAt = bumpUpdatedAt(prev.UpdatedAt)
	s.core.items[i] = &next
	return cloneAthlete(&next), nil
}

func (s *MemoryAthleteService) Delete(ctx context.Context, id int64) error {
	if err := s.core.wait(ctx); err != nil {
		return err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return notFoundError(fmt.Sprintf("El atleta %d no existe.", id))
	}
	s.core.items = append(s.core.items[:i], s.core.items[i+1:]...)
	return nil
}

// MemoryCoachService はバックエンドなしで動作するコーチサービス。
type MemoryCoachService struct {
	core memoryCore[*model.Coach]
}

var _ EntityService[*model.Coach, model.CoachInput] = (*MemoryCoachService)(nil)

// NewMemoryCoachService はメモリ実装を生成する。
func NewMemoryCoachService(delay time.Duration, seed []*model.Coach) *MemoryCoachService {
	s := &MemoryCoachService{
		core: memoryCore[*model.Coach]{
			idOf:  func(c *model.Coach) int64 { return c.ID },
			delay: delay,
		},
	}
	for _, c := range seed {
		s.core.items = append(s.core.items, cloneCoach(c))
	}
	return s
}

func cloneCoach(c *model.Coach) *model.Coach {
	cp := *c
	cp.Certifications = append([]string(nil), c.Certifications...)
	return &cp
}

func (s *MemoryCoachService) List(ctx context.Context) ([]*model.Coach, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	out := make([]*model.Coach, 0, len(s.core.items))
	for _, c := range s.core.items {
		out = append(out, cloneCoach(c))
	}
	return out, nil
}

func (s *MemoryCoachService) Get(ctx context.Context, id int64) (*model.Coach, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return nil, notFoundError(fmt.Sprintf("El entrenador %d no existe.", id))
	}
	return cloneCoach(s.core.items[i]), nil
}

func (s *MemoryCoachService) Create(ctx context.Context, input model.CoachInput) (*model.Coach, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	now := time.Now()
	coach := &model.Coach{
		ID:             s.core.nextIDLocked(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Specialty:      input.Specialty,
		Certifications: append([]string(nil), input.Certifications...),
		Status:         input.Status,
		PhotoURL:       input.PhotoURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if coach.Status == "" {
		coach.Status = model.CoachStatusActive
	}
	s.core.items = append(s.core.items, coach)
	return cloneCoach(coach), nil
}

func (s *MemoryCoachService) Update(ctx context.Context, id int64, input model.CoachInput) (*model.Coach, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return nil, notFoundError(fmt.Sprintf("El entrenador %d no existe.", id))
	}
	prev := s.core.items[i]
	next := *prev
	next.FirstName = input.FirstName
	next.LastName = input.LastName
	next.Email = input.Email
	next.Phone = input.Phone
	next.Specialty = input.Specialty
	next.Certifications = append([]string(nil), input.Certifications...)
	if input.Status != "" {
		next.Status = input.Status
	}
	next.PhotoURL = input.PhotoURL
	next.UpdatedAt = bumpUpdatedAt(prev.UpdatedAt)
	s.core.items[i] = &next
	return cloneCoach(&next), nil
}

func (s *MemoryCoachService) Delete(ctx context.Context, id int64) error {
	if err := s.core.wait(ctx); err != nil {
		return err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return notFoundError(fmt.Sprintf("El entrenador %d no existe.", id))
	}
	s.core.items = append(s.core.items[:i], s.core.items[i+1:]...)
	return nil
}

// MemoryPlanService はバックエンドなしで動作するトレーニングプランサービス。
type MemoryPlanService struct {
	core memoryCore[*model.TrainingPlan]
}

var _ EntityService[*model.TrainingPlan, model.TrainingPlanInput] = (*MemoryPlanService)(nil)

// NewMemoryPlanService はメモリ実装を生成する。
func NewMemoryPlanService(delay time.Duration, seed []*model.TrainingPlan) *MemoryPlanService {
	s := &MemoryPlanService{
		core: memoryCore[*model.TrainingPlan]{
			idOf:  func(p *model.TrainingPlan) int64 { return p.ID },
			delay: delay,
		},
	}
	for _, p := range seed {
		cp := *p
		s.core.items = append(s.core.items, &cp)
	}
	return s
}

func clonePlan(p *model.TrainingPlan) *model.TrainingPlan {
	cp := *p
	return &cp
}

func (s *MemoryPlanService) List(ctx context.Context) ([]*model.TrainingPlan, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	out := make([]*model.TrainingPlan, 0, len(s.core.items))
	for _, p := range s.core.items {
		out = append(out, clonePlan(p))
	}
	return out, nil
}

func (s *MemoryPlanService) Get(ctx context.Context, id int64) (*model.TrainingPlan, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return nil, notFoundError(fmt.Sprintf("El plan %d no existe.", id))
	}
	return clonePlan(s.core.items[i]), nil
}

func (s *MemoryPlanService) Create(ctx context.Context, input model.TrainingPlanInput) (*model.TrainingPlan, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	now := time.Now()
	plan := &model.TrainingPlan{
		ID:              s.core.nextIDLocked(),
		Name:            input.Name,
		Description:     input.Description,
		DurationMonths:  input.DurationMonths,
		SessionsPerWeek: input.SessionsPerWeek,
		Price:           input.Price,
		Capacity:        input.Capacity,
		Status:          input.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if plan.Status == "" {
		plan.Status = model.PlanStatusActive
	}
	s.core.items = append(s.core.items, plan)
	return clonePlan(plan), nil
}

func (s *MemoryPlanService) Update(ctx context.Context, id int64, input model.TrainingPlanInput) (*model.TrainingPlan, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return nil, notFoundError(fmt.Sprintf("El plan %d no existe.", id))
	}
	prev := s.core.items[i]
	next := *prev
	next.Name = input.Name
	next.Description = input.Description
	next.DurationMonths = input.DurationMonths
	next.SessionsPerWeek = input.SessionsPerWeek
	next.Price = input.Price
	next.Capacity = input.Capacity
	if input.Status != "" {
		next.Status = input.Status
	}
	next.UpdatedAt = bumpUpdatedAt(prev.UpdatedAt)
	s.core.items[i] = &next
	return clonePlan(&next), nil
}

func (s *MemoryPlanService) Delete(ctx context.Context, id int64) error {
	if err := s.core.wait(ctx); err != nil {
		return err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return notFoundError(fmt.Sprintf("El plan %d no existe.", id))
	}
	s.core.items = append(s.core.items[:i], s.core.items[i+1:]...)
	return nil
}

// MemoryEnrollmentService はバックエンドなしで動作する登録サービス。
// 表示名（athlete_name / plan_name）は作成・更新時にアスリート・プランの
// メモリ実装から解決する。priceは入力された値のみ保存し、プラン価格からの
// 自動補完は行わない。
type MemoryEnrollmentService struct {
	core     memoryCore[*model.Enrollment]
	athletes *MemoryAthleteService
	plans    *MemoryPlanService
}

var _ EntityService[*model.Enrollment, model.EnrollmentInput] = (*MemoryEnrollmentService)(nil)

// NewMemoryEnrollmentService はメモリ実装を生成する。
func NewMemoryEnrollmentService(delay time.Duration, athletes *MemoryAthleteService, plans *MemoryPlanService) *MemoryEnrollmentService {
	return &MemoryEnrollmentService{
		core: memoryCore[*model.Enrollment]{
			idOf:  func(e *model.Enrollment) int64 { return e.ID },
			delay: delay,
		},
		athletes: athletes,
		plans:    plans,
	}
}

func cloneEnrollment(e *model.Enrollment) *model.Enrollment {
	cp := *e
	if e.Price != nil {
		p := *e.Price
		cp.Price = &p
	}
	return &cp
}

// resolveRefs は参照先のアスリートとプランを検証して返す。
// 参照が壊れている場合は既存データを変更せずエラーを返す。
func (s *MemoryEnrollmentService) resolveRefs(ctx context.Context, input model.EnrollmentInput) (*model.Athlete, *model.TrainingPlan, error) {
	athlete, err := s.athletes.Get(ctx, input.AthleteID)
	if err != nil {
		return nil, nil, err
	}
	plan, err := s.plans.Get(ctx, input.PlanID)
	if err != nil {
		return nil, nil, err
	}
	return athlete, plan, nil
}

func (s *MemoryEnrollmentService) List(ctx context.Context) ([]*model.Enrollment, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	out := make([]*model.Enrollment, 0, len(s.core.items))
	for _, e := range s.core.items {
		out = append(out, cloneEnrollment(e))
	}
	return out, nil
}

func (s *MemoryEnrollmentService) Get(ctx context.Context, id int64) (*model.Enrollment, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return nil, notFoundError(fmt.Sprintf("La inscripción %d no existe.", id))
	}
	return cloneEnrollment(s.core.items[i]), nil
}

func (s *MemoryEnrollmentService) Create(ctx context.Context, input model.EnrollmentInput) (*model.Enrollment, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	athlete, plan, err := s.resolveRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	now := time.Now()
	enrollment := &model.Enrollment{
		ID:          s.core.nextIDLocked(),
		AthleteID:   input.AthleteID,
		AthleteName: athlete.FirstName + " " + athlete.LastName,
		PlanID:      input.PlanID,
		PlanName:    plan.Name,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      input.Status,
		Notes:       input.Notes,
		Price:       input.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if enrollment.Status == "" {
		enrollment.Status = model.EnrollmentStatusPending
	}
	s.core.items = append(s.core.items, enrollment)
	return cloneEnrollment(enrollment), nil
}

func (s *MemoryEnrollmentService) Update(ctx context.Context, id int64, input model.EnrollmentInput) (*model.Enrollment, error) {
	if err := s.core.wait(ctx); err != nil {
		return nil, err
	}
	athlete, plan, err := s.resolveRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return nil, notFoundError(fmt.Sprintf("La inscripción %d no existe.", id))
	}
	prev := s.core.items[i]
	next := *prev
	next.AthleteID = input.AthleteID
	next.AthleteName = athlete.FirstName + " " + athlete.LastName
	next.PlanID = input.PlanID
	next.PlanName = plan.Name
	next.StartDate = input.StartDate
	next.EndDate = input.EndDate
	if input.Status != "" {
		next.Status = input.Status
	}
	next.Notes = input.Notes
	next.Price = input.Price
	next.UpdatedAt = bumpUpdatedAt(prev.UpdatedAt)
	s.core.items[i] = &next
	return cloneEnrollment(&next), nil
}

func (s *MemoryEnrollmentService) Delete(ctx context.Context, id int64) error {
	if err := s.core.wait(ctx); err != nil {
		return err
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	i := s.core.indexLocked(id)
	if i < 0 {
		return notFoundError(fmt.Sprintf("La inscripción %d no existe.", id))
	}
	s.core.items = append(s.core.items[:i], s.core.items[i+1:]...)
	return nil
}
