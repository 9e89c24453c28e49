package client

import (
	"context"
	"sync"
)

// EntityService はエンティティのCRUD操作を提供する。
// Storeはこのインターフェースにのみ依存し、REST実装とメモリ実装を差し替えられる。
type EntityService[T any, I any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, input I) (T, error)
	Update(ctx context.Context, id int64, input I) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Store はエンティティ一覧とロード・エラー状態を保持するクライアント側ストア。
// 各操作はシーケンス番号を割り当て、発行時のシーケンスが最新でなくなった
// 応答は状態に反映しない。結果として最後に発行した要求が勝つ。
type Store[T any, I any] struct {
	mu      sync.Mutex
	service EntityService[T, I]
	idOf    func(T) int64
	items   []T
	loading bool
	err     error
	seq     uint64
}

// NewStore はStoreを生成する。idOfはエンティティからIDを取り出す関数。
func NewStore[T any, I any](service EntityService[T, I], idOf func(T) int64) *Store[T, I] {
	return &Store[T, I]{
		service: service,
		idOf:    idOf,
	}
}

// Items は現在保持している一覧のコピーを返す。
func (s *Store[T, I]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Loading は進行中の操作があるかを返す。
func (s *Store[T, I]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err は直近に記録されたエラーを返す。
func (s *Store[T, I]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// begin は新しい操作のシーケンス番号を採番しロード状態にする。
func (s *Store[T, I]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = true
	return s.seq
}

// commit は操作結果を反映する。発行時のシーケンスが最新でなければ無視する。
func (s *Store[T, I]) commit(seq uint64, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	s.loading = false
	apply()
}

// Load は一覧を取得して状態を置き換える。
// 取得系の失敗はエラー状態に記録するのみで呼び出し元には返さない。
func (s *Store[T, I]) Load(ctx context.Context) []T {
	seq := s.begin()
	items, err := s.service.List(ctx)
	s.commit(seq, func() {
		if err != nil {
			s.err = err
			return
		}
		s.err = nil
		s.items = items
	})
	return s.Items()
}

// GetOne は単一エンティティを取得し、一覧内の該当エントリも更新する。
// 失敗はエラー状態に記録し (ゼロ値, false) を返す。
func (s *Store[T, I]) GetOne(ctx context.Context, id int64) (T, bool) {
	seq := s.begin()
	item, err := s.service.Get(ctx, id)
	var zero T
	if err != nil {
		s.commit(seq, func() { s.err = err })
		return zero, false
	}
	s.commit(seq, func() {
		s.err = nil
		s.upsertLocked(item)
	})
	return item, true
}

// Create はエンティティを作成し一覧に追加する。
// 更新系の失敗はエラー状態への記録に加えて呼び出し元にも返す。
func (s *Store[T, I]) Create(ctx context.Context, input I) (T, error) {
	seq := s.begin()
	item, err := s.service.Create(ctx, input)
	if err != nil {
		s.commit(seq, func() { s.err = err })
		var zero T
		return zero, err
	}
	s.commit(seq, func() {
		s.err = nil
		s.items = append(s.items, item)
	})
	return item, nil
}

// Update はエンティティを更新し一覧内のエントリを差し替える。
func (s *Store[T, I]) Update(ctx context.Context, id int64, input I) (T, error) {
	seq := s.begin()
	item, err := s.service.Update(ctx, id, input)
	if err != nil {
		s.commit(seq, func() { s.err = err })
		var zero T
		return zero, err
	}
	s.commit(seq, func() {
		s.err = nil
		s.upsertLocked(item)
	})
	return item, nil
}

// Delete はエンティティを削除し一覧から取り除く。
func (s *Store[T, I]) Delete(ctx context.Context, id int64) error {
	seq := s.begin()
	err := s.service.Delete(ctx, id)
	if err != nil {
		s.commit(seq, func() { s.err = err })
		return err
	}
	s.commit(seq, func() {
		s.err = nil
		filtered := s.items[:0]
		for _, it := range s.items {
			if s.idOf(it) != id {
				filtered = append(filtered, it)
			}
		}
		s.items = filtered
	})
	return nil
}

// upsertLocked は一覧内の同一IDエントリを差し替える。なければ追加する。
// 呼び出し側でロックを保持していること。
func (s *Store[T, I]) upsertLocked(item T) {
	id := s.idOf(item)
	for i, it := range s.items {
		if s.idOf(it) == id {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}
