package db

import (
	"context"
	"sync"

	"github.com/mithrel/scholia/pkg/api"
)

type memStore struct {
	mu     sync.RWMutex
	order  []int
	byID   map[int]api.Article
	nextID int
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[int]api.Article), nextID: 1}
}

func (m *memStore) ListArticles(ctx context.Context) ([]api.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Article, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *memStore) GetArticle(ctx context.Context, id int) (api.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return api.Article{}, ErrNotFound
	}
	return a, nil
}

func (m *memStore) CreateArticle(ctx context.Context, a api.Article) (api.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.nextID
	}
	if _, ok := m.byID[a.ID]; ok {
		return api.Article{}, ErrConflict
	}
	if a.ID >= m.nextID {
		m.nextID = a.ID + 1
	}
	a.Tags = normalizeTags(a.Tags)
	m.byID[a.ID] = a
	m.order = append(m.order, a.ID)
	return a, nil
}

func (m *memStore) Close() error { return nil }
