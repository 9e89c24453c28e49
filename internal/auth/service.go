// Package auth はGAIANTISとのOAuth認証フローとローカルセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/acadman/internal/accounts"
	"github.com/hitoshi/acadman/internal/model"
	"github.com/hitoshi/acadman/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	provider    accounts.Provider
	userRepo    repository.UserRepository
	academyRepo repository.AcademyRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	provider accounts.Provider,
	userRepo repository.UserRepository,
	academyRepo repository.AcademyRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		provider:    provider,
		userRepo:    userRepo,
		academyRepo: academyRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// LoginURL はGAIANTISの認可URLを生成する。
func (s *Service) LoginURL(state string) string {
	return s.provider.AuthorizeURL(state)
}

// CallbackResult はコールバック処理の結果を表す。
// RequiresCompanyがtrueの場合、クライアントはCompaniesから
// 1件を選択してSelectAcademyを呼ぶ必要がある。
type CallbackResult struct {
	Token           string             `json:"token"`
	User            *model.User        `json:"user"`
	AccessModes     []model.AccessMode `json:"access_modes"`
	RequiresCompany bool               `json:"requires_company_selection"`
	Companies       []*model.Academy   `json:"companies,omitempty"`
	Sincronizer     string             `json:"sincronizer"`
}

// HandleCallback はOAuthコールバックを処理する。
// 認可コードを交換し、ユーザーと所属アカデミーをローカルにミラーしたうえで
// セッションを発行する。アクセスモードがcompany 1件のみの場合は
// そのアカデミーを自動選択する。
func (s *Service) HandleCallback(ctx context.Context, code string) (*CallbackResult, error) {
	result, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	if err := s.userRepo.Upsert(ctx, result.User); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	companies, err := s.syncMemberships(ctx, result.User.ID, result.AccessModes)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		UserID:      result.User.ID,
		Sincronizer: result.Sincronizer,
		ExpiresAt:   time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt:   time.Now(),
	}

	// company権限が1件だけならコンテキスト選択を省略できる
	requiresCompany := true
	if isGlobalAdmin(result.AccessModes) {
		requiresCompany = false
	} else if len(companies) == 1 {
		session.SelectedAcademyID = &companies[0].ID
		requiresCompany = false
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	session.Token = token

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("user logged in",
		slog.Int64("user_id", result.User.ID),
		slog.Int("companies", len(companies)),
		slog.Bool("requires_company", requiresCompany),
	)

	return &CallbackResult{
		Token:           token,
		User:            result.User,
		AccessModes:     result.AccessModes,
		RequiresCompany: requiresCompany,
		Companies:       companies,
		Sincronizer:     result.Sincronizer,
	}, nil
}

// syncMemberships はアクセスモードからアカデミーと所属関係をローカルへ同期し、
// 選択候補となるアカデミー一覧を返す。
func (s *Service) syncMemberships(ctx context.Context, userID int64, modes []model.AccessMode) ([]*model.Academy, error) {
	var companies []*model.Academy

	for _, mode := range modes {
		if mode.Type != model.AccessModeCompany || mode.AcademyID == nil || mode.Academy == nil {
			continue
		}

		if err := s.academyRepo.SyncFromAccounts(ctx, mode.Academy); err != nil {
			return nil, fmt.Errorf("failed to sync academy %d: %w", *mode.AcademyID, err)
		}
		if err := s.academyRepo.UpsertMembership(ctx, &model.Membership{
			UserID:    userID,
			AcademyID: *mode.AcademyID,
			Rol:       mode.Rol,
		}); err != nil {
			return nil, fmt.Errorf("failed to upsert membership for academy %d: %w", *mode.AcademyID, err)
		}

		company := *mode.Academy
		company.RolEmpresa = mode.Rol
		companies = append(companies, &company)
	}

	return companies, nil
}

// SelectAcademy はセッションの現在アカデミーを切り替える。
// 所属関係を検証してから更新するため、検証に失敗した場合は
// 既存の選択がそのまま残る。
func (s *Service) SelectAcademy(ctx context.Context, token string, academyID int64, rol string) (*model.Academy, error) {
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewSessionExpiredError()
	}

	membership, err := s.academyRepo.FindMembership(ctx, session.UserID, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if membership == nil {
		return nil, model.NewMembershipRequiredError(academyID)
	}

	academy, err := s.academyRepo.FindByID(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find academy: %w", err)
	}
	if academy == nil {
		return nil, model.NewAcademyNotFoundError(academyID)
	}

	if err := s.sessionRepo.UpdateSelectedAcademy(ctx, token, academyID); err != nil {
		return nil, fmt.Errorf("failed to update selected academy: %w", err)
	}

	academy.RolEmpresa = membership.Rol
	if rol != "" {
		academy.RolEmpresa = rol
	}

	slog.Info("academy selected",
		slog.Int64("user_id", session.UserID),
		slog.Int64("academy_id", academyID),
	)

	return academy, nil
}

// CurrentUser はセッショントークンから現在のユーザーと選択候補を返す。
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.User, []*model.Academy, error) {
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil, model.NewSessionExpiredError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewUserNotFoundError()
	}

	companies, err := s.academyRepo.ListByUserID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list academies: %w", err)
	}

	return user, companies, nil
}

// Logout はローカルセッションを破棄し、AccountsAppへ終了を通知する。
// リモート通知の失敗はログのみでエラーにしない。ローカルの破棄を優先する。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("session token is required")
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to find session: %w", err)
	}

	if session != nil && session.Sincronizer != "" {
		if err := s.provider.NotifyLogout(ctx, session.Sincronizer); err != nil {
			slog.Warn("failed to notify remote logout", slog.String("error", err.Error()))
		}
	}

	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out")
	return nil
}

// Authenticate はBearerトークンを検証し、セッションを返す。
// ミドルウェアから呼ばれる。
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Session, *model.User, error) {
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil, model.NewSessionExpiredError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewUserNotFoundError()
	}

	return session, user, nil
}

// isGlobalAdmin はglobal_admin権限を含むかを返す。
func isGlobalAdmin(modes []model.AccessMode) bool {
	for _, m := range modes {
		if m.Type == model.AccessModeGlobalAdmin {
			return true
		}
	}
	return false
}

// generateToken は暗号的に安全なセッショントークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
