package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/hitoshi/acadman/internal/model"
)

// ProfileInput はアカデミープロフィールの更新入力。
// JSONフィールド名はバックエンドのPUT /api/academies/{id}に合わせている。
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

// ProfileStore は選択中アカデミーのプロフィールを保持する。
// 他の読み取りと同じく取得失敗はエラー状態への記録のみで、
// 保存系の失敗は呼び出し元にも返る。
type ProfileStore struct {
	mu      sync.Mutex
	client  *Client
	loading bool
	err     error
	academy *model.Academy
}

// NewProfileStore はProfileStoreを生成する。
func NewProfileStore(client *Client) *ProfileStore {
	return &ProfileStore{client: client}
}

// Academy は現在保持しているプロフィールを返す。未取得ならnil。
func (s *ProfileStore) Academy() *model.Academy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.academy
}

// Loading は進行中の操作があるかを返す。
func (s *ProfileStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err は直近に記録されたエラーを返す。
func (s *ProfileStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Load はプロフィールを取得する。失敗はエラー状態に記録するのみ。
func (s *ProfileStore) Load(ctx context.Context, academyID int64) *model.Academy {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var academy model.Academy
	err := s.client.Get(ctx, fmt.Sprintf("/api/academies/%d", academyID), &academy)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		return s.academy
	}
	s.err = nil
	s.academy = &academy
	return s.academy
}

// Save はプロフィールを更新する。
func (s *ProfileStore) Save(ctx context.Context, academyID int64, input ProfileInput) (*model.Academy, error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var academy model.Academy
	err := s.client.Put(ctx, fmt.Sprintf("/api/academies/%d", academyID), input, &academy)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		return nil, err
	}
	s.err = nil
	s.academy = &academy
	return s.academy, nil
}

// RefreshLogo はwebsiteからのロゴ再取得をバックエンドに依頼する。
func (s *ProfileStore) RefreshLogo(ctx context.Context, academyID int64) (*model.Academy, error) {
	var academy model.Academy
	err := s.client.Post(ctx, fmt.Sprintf("/api/academies/%d/logo/refresh", academyID), nil, &academy)
	if err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	s.academy = &academy
	return s.academy, nil
}
