package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hitoshi/acadman/internal/model"
)

// ContextStore は選択可能なアカデミー候補と現在の選択を保持する。
// 選択はバックエンドとの同期が成功した後にのみコミット・永続化される。
// 同期に失敗した場合は以前の選択が維持される。
type ContextStore struct {
	mu        sync.Mutex
	client    *Client
	storage   Storage
	available []*model.Academy
	current   *model.Academy
}

// NewContextStore はContextStoreを生成する。
func NewContextStore(client *Client, storage Storage) *ContextStore {
	return &ContextStore{
		client:  client,
		storage: storage,
	}
}

// Available は候補一覧を返す。
func (s *ContextStore) Available() []*model.Academy {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Academy, len(s.available))
	copy(out, s.available)
	return out
}

// Current は現在選択中のアカデミーを返す。未選択ならnil。
func (s *ContextStore) Current() *model.Academy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetAvailable は候補一覧を置き換える。マージはしない。
func (s *ContextStore) SetAvailable(contexts []*model.Academy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = make([]*model.Academy, len(contexts))
	copy(s.available, contexts)
}

// selectCompanyRequest はPOST /api/select-companyのボディ。
type selectCompanyRequest struct {
	CompanyID  int64  `json:"company_id"`
	RolEmpresa string `json:"rol_empresa"`
}

// Select は候補から指定IDのアカデミーを選択する。
// 候補にないIDは選択を変更せずfalseを返す（エラーにはしない）。
// バックエンドとの同期が成功した後にのみ現在値を更新し永続化する。
func (s *ContextStore) Select(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	var candidate *model.Academy
	for _, c := range s.available {
		if c.ID == id {
			candidate = c
			break
		}
	}
	s.mu.Unlock()

	if candidate == nil {
		return false, nil
	}

	var selected model.Academy
	req := selectCompanyRequest{CompanyID: candidate.ID, RolEmpresa: candidate.RolEmpresa}
	if err := s.client.Post(ctx, "/api/select-company", req, &selected); err != nil {
		return false, fmt.Errorf("failed to select company: %w", err)
	}

	s.mu.Lock()
	s.current = &selected
	if data, err := json.Marshal(&selected); err == nil {
		_ = s.storage.Set(StorageKeyCurrentContext, string(data))
	}
	s.mu.Unlock()

	return true, nil
}

// Clear は現在の選択と候補一覧を空にし、永続化エントリを削除する。
func (s *ContextStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.available = nil
	_ = s.storage.Delete(StorageKeyCurrentContext)
}

// Restore は起動時に永続化された選択を復元する。
// 壊れたJSONはエントリごと破棄する。
func (s *ContextStore) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, _ := s.storage.Get(StorageKeyCurrentContext)
	if !ok {
		return
	}
	var academy model.Academy
	if err := json.Unmarshal([]byte(raw), &academy); err != nil {
		_ = s.storage.Delete(StorageKeyCurrentContext)
		return
	}
	s.current = &academy
}
