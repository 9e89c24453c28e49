package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/acadman/internal/academy"
	"github.com/hitoshi/acadman/internal/model"
)

type mockProfileService struct {
	getFunc         func(ctx context.Context, academyID int64) (*model.Academy, error)
	updateFunc      func(ctx context.Context, academyID int64, input *academy.ProfileInput) (*model.Academy, error)
	refreshLogoFunc func(ctx context.Context, academyID int64) (*model.Academy, error)
}

func (m *mockProfileService) Get(ctx context.Context, academyID int64) (*model.Academy, error) {
	return m.getFunc(ctx, academyID)
}

func (m *mockProfileService) Update(ctx context.Context, academyID int64, input *academy.ProfileInput) (*model.Academy, error) {
	return m.updateFunc(ctx, academyID, input)
}

func (m *mockProfileService) RefreshLogo(ctx context.Context, academyID int64) (*model.Academy, error) {
	return m.refreshLogoFunc(ctx, academyID)
}

func academyTestRouter(service ProfileServiceInterface) http.Handler {
	h := NewAcademyHandler(service)
	r := chi.NewRouter()
	r.Get("/api/academies/{id}", h.Get)
	r.Put("/api/academies/{id}", h.Update)
	r.Post("/api/academies/{id}/logo/refresh", h.RefreshLogo)
	return r
}

func TestAcademyHandler_Get(t *testing.T) {
	service := &mockProfileService{
		getFunc: func(ctx context.Context, academyID int64) (*model.Academy, error) {
			return &model.Academy{ID: academyID, Name: "Academia Norte"}, nil
		},
	}
	router := academyTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodGet, "/api/academies/3", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body model.Academy
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Name != "Academia Norte" {
		t.Errorf("unexpected academy: %+v", body)
	}
}

func TestAcademyHandler_Get_OtherAcademyForbidden(t *testing.T) {
	service := &mockProfileService{
		getFunc: func(ctx context.Context, academyID int64) (*model.Academy, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	router := academyTestRouter(service)

	// 選択中のアカデミーは3。別のアカデミーにはアクセスできない。
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodGet, "/api/academies/7", ""))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAcademyHandler_Update(t *testing.T) {
	service := &mockProfileService{
		updateFunc: func(ctx context.Context, academyID int64, input *academy.ProfileInput) (*model.Academy, error) {
			if input.Name != "Academia Sur" {
				t.Errorf("name = %s", input.Name)
			}
			return &model.Academy{ID: academyID, Name: input.Name}, nil
		},
	}
	router := academyTestRouter(service)

	body := `{"nombre": "Academia Sur", "pais": "CO"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodPut, "/api/academies/3", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAcademyHandler_RefreshLogo(t *testing.T) {
	service := &mockProfileService{
		refreshLogoFunc: func(ctx context.Context, academyID int64) (*model.Academy, error) {
			return &model.Academy{ID: academyID, LogoURL: "data:image/png;base64,abc"}, nil
		},
	}
	router := academyTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, selectedRequest(http.MethodPost, "/api/academies/3/logo/refresh", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body model.Academy
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.LogoURL == "" {
		t.Error("logo_url should be set")
	}
}
