package client

import "sync"

// 永続ストレージのキー。起動時に読み込み、セッション遷移で書き換える。
const (
	// StorageKeyAuthToken はBearerトークン。
	StorageKeyAuthToken = "auth_token"
	// StorageKeyUser はJSONエンコードされたユーザー情報。
	StorageKeyUser = "user"
	// StorageKeySincronizer はAccountsAppの同期コード。
	StorageKeySincronizer = "sincronizer_code"
	// StorageKeyCurrentContext はJSONエンコードされた現在のアカデミー。
	StorageKeyCurrentContext = "current_context"
)

// Storage は文字列キー・文字列値の永続ストレージ。
// ブラウザのlocalStorage相当で、値はJSONエンコードして保存する。
type Storage interface {
	// Get は指定キーの値を返す。存在しない場合は2番目の戻り値がfalse。
	Get(key string) (string, bool, error)
	// Set は指定キーに値を保存する。
	Set(key, value string) error
	// Delete は指定キーを削除する。存在しないキーでもエラーにならない。
	Delete(key string) error
}

// MemoryStorage はインメモリのStorage実装。テストと一時利用向け。
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStorage はMemoryStorageを生成する。
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

// Get は指定キーの値を返す。
func (s *MemoryStorage) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set は指定キーに値を保存する。
func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete は指定キーを削除する。
func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

var _ Storage = (*MemoryStorage)(nil)
