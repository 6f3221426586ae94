package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// MemoryBienRepository is an in-memory implementation of
// domain.BienRepository. Mutations are serialized by a mutex; reads
// return copies so callers never share store state. It backs the server
// when no database is configured, and the unit tests.
type MemoryBienRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Bien
}

// NewMemoryBienRepository creates an empty store.
func NewMemoryBienRepository() *MemoryBienRepository {
	return &MemoryBienRepository{items: map[string]*domain.Bien{}}
}

func (r *MemoryBienRepository) List(_ context.Context, f domain.BienFilters) ([]*domain.Bien, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Bien
	for _, b := range r.items {
		if f.Type != nil && b.Type != *f.Type {
			continue
		}
		if f.Statut != nil && b.Statut != *f.Statut {
			continue
		}
		if f.Ville != nil && !strings.Contains(strings.ToLower(b.Adresse), strings.ToLower(*f.Ville)) {
			continue
		}
		if f.SurfaceMin != nil && b.Surface < *f.SurfaceMin {
			continue
		}
		if f.SurfaceMax != nil && b.Surface > *f.SurfaceMax {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateCreation.After(out[j].DateCreation) })
	total := len(out)
	return paginate(out, f.Page, f.Limit), total, nil
}

func (r *MemoryBienRepository) GetByID(_ context.Context, id string) (*domain.Bien, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domain.NotFound("bien", id)
	}
	cp := *b
	return &cp, nil
}

func (r *MemoryBienRepository) Create(_ context.Context, bien *domain.Bien) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bien.ID = newID("bien")
	now := time.Now()
	bien.DateCreation = now
	bien.DateModification = now
	cp := *bien
	r.items[bien.ID] = &cp
	return nil
}

func (r *MemoryBienRepository) Update(_ context.Context, bien *domain.Bien) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[bien.ID]; !ok {
		return domain.NotFound("bien", bien.ID)
	}
	bien.DateModification = time.Now()
	cp := *bien
	r.items[bien.ID] = &cp
	return nil
}

func (r *MemoryBienRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("bien", id)
	}
	delete(r.items, id)
	return nil
}
