package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/acadman/internal/model"
)

// PostgresAcademyRepo はPostgreSQLを使用したアカデミーリポジトリ。
type PostgresAcademyRepo struct {
	db *sql.DB
}

// NewPostgresAcademyRepo はPostgresAcademyRepoを生成する。
func NewPostgresAcademyRepo(db *sql.DB) *PostgresAcademyRepo {
	return &PostgresAcademyRepo{db: db}
}

// FindByID は指定IDのアカデミーを取得する。見つからない場合はnilを返す。
func (r *PostgresAcademyRepo) FindByID(ctx context.Context, id int64) (*model.Academy, error) {
	a := &model.Academy{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nombre, alias, pais, identificador, tipo_identificador,
		        email_contacto, telefono_contacto, direccion, website, logo_url, description,
		        created_at, updated_at
		 FROM academies
		 WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Alias, &a.Country, &a.Identifier, &a.IdentifierType,
		&a.ContactEmail, &a.ContactPhone, &a.Address, &a.Website, &a.LogoURL, &a.Description,
		&a.CreatedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find academy: %w", err)
	}

	return a, nil
}

// SyncFromAccounts はAccountsApp由来の基本情報を作成または更新する。
// プロフィール項目（連絡先・ロゴ・説明等）はローカルの編集結果を保持する。
func (r *PostgresAcademyRepo) SyncFromAccounts(ctx context.Context, academy *model.Academy) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO academies (id, nombre, alias, pais, identificador, tipo_identificador, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		 ON CONFLICT (id) DO UPDATE
		 SET nombre = EXCLUDED.nombre,
		     alias = EXCLUDED.alias,
		     pais = EXCLUDED.pais,
		     identificador = EXCLUDED.identificador,
		     tipo_identificador = EXCLUDED.tipo_identificador,
		     updated_at = now()`,
		academy.ID, academy.Name, academy.Alias, academy.Country,
		academy.Identifier, academy.IdentifierType,
	)
	if err != nil {
		return fmt.Errorf("failed to sync academy: %w", err)
	}
	return nil
}

// UpdateProfile はアカデミーのプロフィール項目を更新する。
func (r *PostgresAcademyRepo) UpdateProfile(ctx context.Context, academy *model.Academy) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE academies
		 SET nombre = $2, alias = $3, pais = $4,
		     email_contacto = $5, telefono_contacto = $6, direccion = $7,
		     website = $8, logo_url = $9, description = $10,
		     updated_at = now()
		 WHERE id = $1`,
		academy.ID, academy.Name, academy.Alias, academy.Country,
		academy.ContactEmail, academy.ContactPhone, academy.Address,
		academy.Website, academy.LogoURL, academy.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update academy profile: %w", err)
	}
	return nil
}

// ListByUserID はユーザーが所属するアカデミー一覧をロール付きで返す。
func (r *PostgresAcademyRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Academy, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.nombre, a.alias, a.pais, a.identificador, a.tipo_identificador, m.rol
		 FROM academies a
		 JOIN academy_members m ON m.academy_id = a.id
		 WHERE m.user_id = $1
		 ORDER BY a.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list academies: %w", err)
	}
	defer rows.Close()

	var academies []*model.Academy
	for rows.Next() {
		a := &model.Academy{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Alias, &a.Country,
			&a.Identifier, &a.IdentifierType, &a.RolEmpresa); err != nil {
			return nil, fmt.Errorf("failed to scan academy: %w", err)
		}
		academies = append(academies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate academies: %w", err)
	}

	return academies, nil
}

// UpsertMembership は所属関係を作成または更新する。
func (r *PostgresAcademyRepo) UpsertMembership(ctx context.Context, m *model.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO academy_members (user_id, academy_id, rol, created_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, academy_id) DO UPDATE
		 SET rol = EXCLUDED.rol`,
		m.UserID, m.AcademyID, m.Rol,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

// FindMembership は所属関係を取得する。見つからない場合はnilを返す。
func (r *PostgresAcademyRepo) FindMembership(ctx context.Context, userID, academyID int64) (*model.Membership, error) {
	m := &model.Membership{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, academy_id, rol, created_at
		 FROM academy_members
		 WHERE user_id = $1 AND academy_id = $2`,
		userID, academyID,
	).Scan(&m.UserID, &m.AcademyID, &m.Rol, &m.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	return m, nil
}

// compile-time interface check
var _ AcademyRepository = (*PostgresAcademyRepo)(nil)
