package academy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/acadman/internal/model"
	"github.com/hitoshi/acadman/internal/repository"
	"github.com/hitoshi/acadman/internal/security"
)

// ProfileInput はアカデミープロフィールの更新入力を表す。
type ProfileInput struct {
	Name         string `json:"nombre"`
	Alias        string `json:"alias,omitempty"`
	Country      string `json:"pais,omitempty"`
	ContactEmail string `json:"email_contacto,omitempty"`
	ContactPhone string `json:"telefono_contacto,omitempty"`
	Address      string `json:"direccion,omitempty"`
	Website      string `json:"website,omitempty"`
	Description  string `json:"description,omitempty"`
}

// ProfileService はアカデミープロフィール管理のサービス層。
// 説明文のサニタイズ、website URLの検証、ロゴの自動取得を担う。
type ProfileService struct {
	repo        repository.AcademyRepository
	sanitizer   security.ContentSanitizerService
	ssrfGuard   SSRFValidator
	logoFetcher LogoFetcherService
}

// NewProfileService はProfileServiceを生成する。
func NewProfileService(
	repo repository.AcademyRepository,
	sanitizer security.ContentSanitizerService,
	ssrfGuard SSRFValidator,
	logoFetcher LogoFetcherService,
) *ProfileService {
	return &ProfileService{
		repo:        repo,
		sanitizer:   sanitizer,
		ssrfGuard:   ssrfGuard,
		logoFetcher: logoFetcher,
	}
}

// Get は指定IDのアカデミーを返す。
func (s *ProfileService) Get(ctx context.Context, academyID int64) (*model.Academy, error) {
	academy, err := s.repo.FindByID(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find academy: %w", err)
	}
	if academy == nil {
		return nil, model.NewAcademyNotFoundError(academyID)
	}
	return academy, nil
}

// Update はアカデミープロフィールを更新する。
// websiteが変更された場合はロゴを再取得する。ロゴ取得はベストエフォートで、
// 失敗してもプロフィール更新は成功する。
func (s *ProfileService) Update(ctx context.Context, academyID int64, input *ProfileInput) (*model.Academy, error) {
	if err := s.validateProfileInput(input); err != nil {
		return nil, err
	}

	academy, err := s.repo.FindByID(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find academy: %w", err)
	}
	if academy == nil {
		return nil, model.NewAcademyNotFoundError(academyID)
	}

	websiteChanged := academy.Website != input.Website

	academy.Name = input.Name
	academy.Alias = input.Alias
	academy.Country = input.Country
	academy.ContactEmail = input.ContactEmail
	academy.ContactPhone = input.ContactPhone
	academy.Address = input.Address
	academy.Website = input.Website
	academy.Description = s.sanitizer.Sanitize(input.Description)

	if websiteChanged {
		academy.LogoURL = s.refreshLogo(ctx, input.Website)
	}

	if err := s.repo.UpdateProfile(ctx, academy); err != nil {
		return nil, fmt.Errorf("failed to update academy profile: %w", err)
	}

	return academy, nil
}

// RefreshLogo はwebsiteからロゴを再取得して保存する。
func (s *ProfileService) RefreshLogo(ctx context.Context, academyID int64) (*model.Academy, error) {
	academy, err := s.repo.FindByID(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find academy: %w", err)
	}
	if academy == nil {
		return nil, model.NewAcademyNotFoundError(academyID)
	}

	academy.LogoURL = s.refreshLogo(ctx, academy.Website)

	if err := s.repo.UpdateProfile(ctx, academy); err != nil {
		return nil, fmt.Errorf("failed to update academy profile: %w", err)
	}

	return academy, nil
}

// refreshLogo はロゴをベストエフォートで取得する。失敗時は空文字列。
func (s *ProfileService) refreshLogo(ctx context.Context, website string) string {
	if website == "" || s.logoFetcher == nil {
		return ""
	}

	logo, err := s.logoFetcher.FetchLogoForSite(ctx, website)
	if err != nil {
		slog.Warn("failed to fetch academy logo", "website", website, "error", err)
		return ""
	}
	return logo
}

// validateProfileInput はプロフィール入力を検証する。
func (s *ProfileService) validateProfileInput(input *ProfileInput) error {
	fields := map[string][]string{}

	if input.Name == "" {
		fields["nombre"] = append(fields["nombre"], "El nombre es obligatorio.")
	}
	if input.Website != "" && s.ssrfGuard != nil {
		if err := s.ssrfGuard.ValidateURL(input.Website); err != nil {
			fields["website"] = append(fields["website"], "La URL del sitio web no es válida.")
		}
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}
