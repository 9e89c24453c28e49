package academy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hitoshi/acadman/internal/model"
	"github.com/hitoshi/acadman/internal/security"
)

// stubLogoFetcher は固定値を返すテスト用ロゴフェッチャー。
type stubLogoFetcher struct {
	logo  string
	calls []string
}

func (s *stubLogoFetcher) FetchLogoForSite(ctx context.Context, siteURL string) (string, error) {
	s.calls = append(s.calls, siteURL)
	return s.logo, nil
}

func TestProfileService_Update_SanitizesDescription(t *testing.T) {
	var persisted *model.Academy
	repo := &mockAcademyRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Academy, error) {
			return &model.Academy{ID: id, Name: "Academia Norte"}, nil
		},
		updateProfileFunc: func(ctx context.Context, academy *model.Academy) error {
			persisted = academy
			return nil
		},
	}
	service := NewProfileService(repo, security.NewContentSanitizer(), allowAllGuard{}, &stubLogoFetcher{})

	_, err := service.Update(context.Background(), 10, &ProfileInput{
		Name:        "Academia Norte",
		Description: `<p>Formamos campeones</p><script>alert("xss")</script>`,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if strings.Contains(persisted.Description, "<script") {
		t.Errorf("description not sanitized: %q", persisted.Description)
	}
	if !strings.Contains(persisted.Description, "Formamos campeones") {
		t.Errorf("safe content dropped: %q", persisted.Description)
	}
}

func TestProfileService_Update_WebsiteChangeRefreshesLogo(t *testing.T) {
	fetcher := &stubLogoFetcher{logo: "data:image/png;base64,bG9nbw=="}
	var persisted *model.Academy
	repo := &mockAcademyRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Academy, error) {
			return &model.Academy{ID: id, Name: "Academia Norte", Website: "https://old.example.com"}, nil
		},
		updateProfileFunc: func(ctx context.Context, academy *model.Academy) error {
			persisted = academy
			return nil
		},
	}
	service := NewProfileService(repo, passthroughSanitizer{}, allowAllGuard{}, fetcher)

	_, err := service.Update(context.Background(), 10, &ProfileInput{
		Name:    "Academia Norte",
		Website: "https://new.example.com",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(fetcher.calls) != 1 || fetcher.calls[0] != "https://new.example.com" {
		t.Errorf("fetcher calls = %v, want [https://new.example.com]", fetcher.calls)
	}
	if persisted.LogoURL != fetcher.logo {
		t.Errorf("logo = %q, want %q", persisted.LogoURL, fetcher.logo)
	}
}

func TestProfileService_Update_UnchangedWebsiteSkipsLogoFetch(t *testing.T) {
	fetcher := &stubLogoFetcher{}
	repo := &mockAcademyRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Academy, error) {
			return &model.Academy{ID: id, Name: "Academia Norte", Website: "https://same.example.com", LogoURL: "data:existing"}, nil
		},
	}
	service := NewProfileService(repo, passthroughSanitizer{}, allowAllGuard{}, fetcher)

	academy, err := service.Update(context.Background(), 10, &ProfileInput{
		Name:    "Academia Norte",
		Website: "https://same.example.com",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(fetcher.calls) != 0 {
		t.Errorf("logo fetch should be skipped, got calls %v", fetcher.calls)
	}
	if academy.LogoURL != "data:existing" {
		t.Errorf("logo = %q, want existing preserved", academy.LogoURL)
	}
}

// rejectAllGuard はすべてのURLを拒否するテスト用SSRFガード。
type rejectAllGuard struct {
	allowAllGuard
}

func (rejectAllGuard) ValidateURL(rawURL string) error { return fmt.Errorf("blocked: %s", rawURL) }

func TestProfileService_Update_RejectsDangerousWebsite(t *testing.T) {
	repo := &mockAcademyRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Academy, error) {
			return &model.Academy{ID: id, Name: "Academia Norte"}, nil
		},
	}
	service := NewProfileService(repo, passthroughSanitizer{}, rejectAllGuard{}, &stubLogoFetcher{})

	_, err := service.Update(context.Background(), 10, &ProfileInput{
		Name:    "Academia Norte",
		Website: "http://169.254.169.254/",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
		t.Fatalf("error = %v, want validation error", err)
	}
	if len(apiErr.Fields["website"]) == 0 {
		t.Errorf("expected website field error, got %v", apiErr.Fields)
	}
}

func TestProfileService_Get_NotFound(t *testing.T) {
	repo := &mockAcademyRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Academy, error) {
			return nil, nil
		},
	}
	service := NewProfileService(repo, passthroughSanitizer{}, allowAllGuard{}, &stubLogoFetcher{})

	_, err := service.Get(context.Background(), 99)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAcademyNotFound {
		t.Errorf("error = %v, want %s", err, model.ErrCodeAcademyNotFound)
	}
}
