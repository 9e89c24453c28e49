package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/acadman/internal/model"
)

// PostgresEnrollmentRepo はPostgreSQLを使用した登録リポジトリ。
type PostgresEnrollmentRepo struct {
	db *sql.DB
}

// NewPostgresEnrollmentRepo はPostgresEnrollmentRepoを生成する。
func NewPostgresEnrollmentRepo(db *sql.DB) *PostgresEnrollmentRepo {
	return &PostgresEnrollmentRepo{db: db}
}

// 表示名はJOINで都度解決する。アスリート名・プラン名の変更に追従するため。
const enrollmentSelect = `SELECT e.id, e.academy_id,
	e.athlete_id, a.nombre || ' ' || a.apellido,
	e.plan_id, p.name,
	to_char(e.start_date, 'YYYY-MM-DD'), to_char(e.end_date, 'YYYY-MM-DD'),
	e.status, e.notes, e.price, e.created_at, e.updated_at
	FROM enrollments e
	JOIN athletes a ON a.id = e.athlete_id
	JOIN training_plans p ON p.id = e.plan_id`

func scanEnrollment(row interface{ Scan(...any) error }) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	var endDate sql.NullString
	var price sql.NullFloat64
	err := row.Scan(&e.ID, &e.AcademyID,
		&e.AthleteID, &e.AthleteName,
		&e.PlanID, &e.PlanName,
		&e.StartDate, &endDate,
		&e.Status, &e.Notes, &price, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		e.EndDate = endDate.String
	}
	if price.Valid {
		e.Price = &price.Float64
	}
	return e, nil
}

// nullableDate は空文字列をNULLとして扱うためのヘルパー。
func nullableDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ListByAcademy は登録一覧を表示名付きでID昇順で返す。
func (r *PostgresEnrollmentRepo) ListByAcademy(ctx context.Context, academyID int64) ([]*model.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		enrollmentSelect+` WHERE e.academy_id = $1 ORDER BY e.id`,
		academyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollments: %w", err)
	}

	return enrollments, nil
}

// FindByID は指定IDの登録を表示名付きで取得する。見つからない場合はnilを返す。
func (r *PostgresEnrollmentRepo) FindByID(ctx context.Context, academyID, id int64) (*model.Enrollment, error) {
	e, err := scanEnrollment(r.db.QueryRowContext(ctx,
		enrollmentSelect+` WHERE e.academy_id = $1 AND e.id = $2`,
		academyID, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return e, nil
}

// Create は登録を作成し、採番されたIDをenrollment.IDに設定する。
// priceはnilのままINSERTされる。プラン価格からの補完は行わない。
func (r *PostgresEnrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO enrollments (academy_id, athlete_id, plan_id, start_date, end_date,
		                          status, notes, price, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 RETURNING id, created_at, updated_at`,
		enrollment.AcademyID, enrollment.AthleteID, enrollment.PlanID,
		enrollment.StartDate, nullableDate(enrollment.EndDate),
		enrollment.Status, enrollment.Notes, enrollment.Price,
	).Scan(&enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// Update は登録を更新する。
func (r *PostgresEnrollmentRepo) Update(ctx context.Context, enrollment *model.Enrollment) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE enrollments
		 SET athlete_id = $3, plan_id = $4, start_date = $5, end_date = $6,
		     status = $7, notes = $8, price = $9, updated_at = now()
		 WHERE academy_id = $1 AND id = $2
		 RETURNING updated_at`,
		enrollment.AcademyID, enrollment.ID,
		enrollment.AthleteID, enrollment.PlanID,
		enrollment.StartDate, nullableDate(enrollment.EndDate),
		enrollment.Status, enrollment.Notes, enrollment.Price,
	).Scan(&enrollment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	return nil
}

// Delete は指定IDの登録を削除する。
func (r *PostgresEnrollmentRepo) Delete(ctx context.Context, academyID, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM enrollments WHERE academy_id = $1 AND id = $2`,
		academyID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return nil
}

// compile-time interface check
var _ EnrollmentRepository = (*PostgresEnrollmentRepo)(nil)
