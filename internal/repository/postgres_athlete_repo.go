package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/acadman/internal/model"
)

// PostgresAthleteRepo はPostgreSQLを使用したアスリートリポジトリ。
type PostgresAthleteRepo struct {
	db *sql.DB
}

// NewPostgresAthleteRepo はPostgresAthleteRepoを生成する。
func NewPostgresAthleteRepo(db *sql.DB) *PostgresAthleteRepo {
	return &PostgresAthleteRepo{db: db}
}

const athleteColumns = `id, academy_id, nombre, apellido,
	to_char(fecha_nacimiento, 'YYYY-MM-DD'), genero,
	email, telefono, documento_identidad, created_at, updated_at`

func scanAthlete(row interface{ Scan(...any) error }) (*model.Athlete, error) {
	a := &model.Athlete{}
	err := row.Scan(&a.ID, &a.AcademyID, &a.FirstName, &a.LastName,
		&a.BirthDate, &a.Gender,
		&a.Email, &a.Phone, &a.IdentityDocument, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByAcademy はアカデミーのアスリート一覧をID昇順で返す。
func (r *PostgresAthleteRepo) ListByAcademy(ctx context.Context, academyID int64) ([]*model.Athlete, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+athleteColumns+` FROM athletes WHERE academy_id = $1 ORDER BY id`,
		academyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	defer rows.Close()

	var athletes []*model.Athlete
	for rows.Next() {
		a, err := scanAthlete(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan athlete: %w", err)
		}
		athletes = append(athletes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate athletes: %w", err)
	}

	return athletes, nil
}

// FindByID は指定IDのアスリートを取得する。見つからない場合はnilを返す。
func (r *PostgresAthleteRepo) FindByID(ctx context.Context, academyID, id int64) (*model.Athlete, error) {
	a, err := scanAthlete(r.db.QueryRowContext(ctx,
		`SELECT `+athleteColumns+` FROM athletes WHERE academy_id = $1 AND id = $2`,
		academyID, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find athlete: %w", err)
	}
	return a, nil
}

// Create はアスリートを作成し、採番されたIDをathlete.IDに設定する。
func (r *PostgresAthleteRepo) Create(ctx context.Context, athlete *model.Athlete) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO athletes (academy_id, nombre, apellido, fecha_nacimiento, genero,
		                       email, telefono, documento_identidad, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 RETURNING id, created_at, updated_at`,
		athlete.AcademyID, athlete.FirstName, athlete.LastName, athlete.BirthDate, athlete.Gender,
		athlete.Email, athlete.Phone, athlete.IdentityDocument,
	).Scan(&athlete.ID, &athlete.CreatedAt, &athlete.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create athlete: %w", err)
	}
	return nil
}

// Update はアスリートを更新する。
func (r *PostgresAthleteRepo) Update(ctx context.Context, athlete *model.Athlete) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE athletes
		 SET nombre = $3, apellido = $4, fecha_nacimiento = $5, genero = $6,
		     email = $7, telefono = $8, documento_identidad = $9, updated_at = now()
		 WHERE academy_id = $1 AND id = $2
		 RETURNING updated_at`,
		athlete.AcademyID, athlete.ID,
		athlete.FirstName, athlete.LastName, athlete.BirthDate, athlete.Gender,
		athlete.Email, athlete.Phone, athlete.IdentityDocument,
	).Scan(&athlete.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update athlete: %w", err)
	}
	return nil
}

// Delete は指定IDのアスリートを削除する。
func (r *PostgresAthleteRepo) Delete(ctx context.Context, academyID, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM athletes WHERE academy_id = $1 AND id = $2`,
		academyID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete athlete: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AthleteRepository = (*PostgresAthleteRepo)(nil)
