package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/acadman/internal/model"
)

// PostgresTrainingPlanRepo はPostgreSQLを使用したトレーニングプランリポジトリ。
type PostgresTrainingPlanRepo struct {
	db *sql.DB
}

// NewPostgresTrainingPlanRepo はPostgresTrainingPlanRepoを生成する。
func NewPostgresTrainingPlanRepo(db *sql.DB) *PostgresTrainingPlanRepo {
	return &PostgresTrainingPlanRepo{db: db}
}

// enrolled_countは有効登録（Activo）のみを数える。
const planSelect = `SELECT p.id, p.academy_id, p.name, p.description,
	p.duration_months, p.sessions_per_week, p.price, p.capacity, p.status,
	COALESCE(e.cnt, 0), p.created_at, p.updated_at
	FROM training_plans p
	LEFT JOIN (
		SELECT plan_id, COUNT(*) AS cnt
		FROM enrollments
		WHERE status = 'Activo'
		GROUP BY plan_id
	) e ON e.plan_id = p.id`

func scanPlan(row interface{ Scan(...any) error }) (*model.TrainingPlan, error) {
	p := &model.TrainingPlan{}
	err := row.Scan(&p.ID, &p.AcademyID, &p.Name, &p.Description,
		&p.DurationMonths, &p.SessionsPerWeek, &p.Price, &p.Capacity, &p.Status,
		&p.EnrolledCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByAcademy はプラン一覧を有効登録数付きでID昇順で返す。
func (r *PostgresTrainingPlanRepo) ListByAcademy(ctx context.Context, academyID int64) ([]*model.TrainingPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		planSelect+` WHERE p.academy_id = $1 ORDER BY p.id`,
		academyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list training plans: %w", err)
	}
	defer rows.Close()

	var plans []*model.TrainingPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate training plans: %w", err)
	}

	return plans, nil
}

// FindByID は指定IDのプランを有効登録数付きで取得する。見つからない場合はnilを返す。
func (r *PostgresTrainingPlanRepo) FindByID(ctx context.Context, academyID, id int64) (*model.TrainingPlan, error) {
	p, err := scanPlan(r.db.QueryRowContext(ctx,
		planSelect+` WHERE p.academy_id = $1 AND p.id = $2`,
		academyID, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find training plan: %w", err)
	}
	return p, nil
}

// Create はプランを作成し、採番されたIDをplan.IDに設定する。
func (r *PostgresTrainingPlanRepo) Create(ctx context.Context, plan *model.TrainingPlan) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO training_plans (academy_id, name, description, duration_months,
		                             sessions_per_week, price, capacity, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 RETURNING id, created_at, updated_at`,
		plan.AcademyID, plan.Name, plan.Description, plan.DurationMonths,
		plan.SessionsPerWeek, plan.Price, plan.Capacity, plan.Status,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create training plan: %w", err)
	}
	return nil
}

// Update はプランを更新する。
func (r *PostgresTrainingPlanRepo) Update(ctx context.Context, plan *model.TrainingPlan) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE training_plans
		 SET name = $3, description = $4, duration_months = $5,
		     sessions_per_week = $6, price = $7, capacity = $8, status = $9,
		     updated_at = now()
		 WHERE academy_id = $1 AND id = $2
		 RETURNING updated_at`,
		plan.AcademyID, plan.ID,
		plan.Name, plan.Description, plan.DurationMonths,
		plan.SessionsPerWeek, plan.Price, plan.Capacity, plan.Status,
	).Scan(&plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update training plan: %w", err)
	}
	return nil
}

// Delete は指定IDのプランを削除する。
func (r *PostgresTrainingPlanRepo) Delete(ctx context.Context, academyID, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM training_plans WHERE academy_id = $1 AND id = $2`,
		academyID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete training plan: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TrainingPlanRepository = (*PostgresTrainingPlanRepo)(nil)
