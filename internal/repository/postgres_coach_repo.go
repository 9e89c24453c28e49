package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/acadman/internal/model"
)

// PostgresCoachRepo はPostgreSQLを使用したコーチリポジトリ。
type PostgresCoachRepo struct {
	db *sql.DB
}

// NewPostgresCoachRepo はPostgresCoachRepoを生成する。
func NewPostgresCoachRepo(db *sql.DB) *PostgresCoachRepo {
	return &PostgresCoachRepo{db: db}
}

const coachColumns = `id, academy_id, nombre, apellido, email, telefono,
	especialidad, certificaciones, estado, foto_url, created_at, updated_at`

func scanCoach(row interface{ Scan(...any) error }) (*model.Coach, error) {
	c := &model.Coach{}
	err := row.Scan(&c.ID, &c.AcademyID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Specialty, pq.Array(&c.Certifications), &c.Status, &c.PhotoURL,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByAcademy はアカデミーのコーチ一覧をID昇順で返す。
func (r *PostgresCoachRepo) ListByAcademy(ctx context.Context, academyID int64) ([]*model.Coach, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+coachColumns+` FROM coaches WHERE academy_id = $1 ORDER BY id`,
		academyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	defer rows.Close()

	var coaches []*model.Coach
	for rows.Next() {
		c, err := scanCoach(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coach: %w", err)
		}
		coaches = append(coaches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate coaches: %w", err)
	}

	return coaches, nil
}

// FindByID は指定IDのコーチを取得する。見つからない場合はnilを返す。
func (r *PostgresCoachRepo) FindByID(ctx context.Context, academyID, id int64) (*model.Coach, error) {
	c, err := scanCoach(r.db.QueryRowContext(ctx,
		`SELECT `+coachColumns+` FROM coaches WHERE academy_id = $1 AND id = $2`,
		academyID, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find coach: %w", err)
	}
	return c, nil
}

// Create はコーチを作成し、採番されたIDをcoach.IDに設定する。
func (r *PostgresCoachRepo) Create(ctx context.Context, coach *model.Coach) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO coaches (academy_id, nombre, apellido, email, telefono,
		                      especialidad, certificaciones, estado, foto_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		 RETURNING id, created_at, updated_at`,
		coach.AcademyID, coach.FirstName, coach.LastName, coach.Email, coach.Phone,
		coach.Specialty, pq.Array(coach.Certifications), coach.Status, coach.PhotoURL,
	).Scan(&coach.ID, &coach.CreatedAt, &coach.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create coach: %w", err)
	}
	return nil
}

// Update はコーチを更新する。
func (r *PostgresCoachRepo) Update(ctx context.Context, coach *model.Coach) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE coaches
		 SET nombre = $3, apellido = $4, email = $5, telefono = $6,
		     especialidad = $7, certificaciones = $8, estado = $9, foto_url = $10,
		     updated_at = now()
		 WHERE academy_id = $1 AND id = $2
		 RETURNING updated_at`,
		coach.AcademyID, coach.ID,
		coach.FirstName, coach.LastName, coach.Email, coach.Phone,
		coach.Specialty, pq.Array(coach.Certifications), coach.Status, coach.PhotoURL,
	).Scan(&coach.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update coach: %w", err)
	}
	return nil
}

// Delete は指定IDのコーチを削除する。
func (r *PostgresCoachRepo) Delete(ctx context.Context, academyID, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM coaches WHERE academy_id = $1 AND id = $2`,
		academyID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete coach: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CoachRepository = (*PostgresCoachRepo)(nil)
