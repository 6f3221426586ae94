package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// MemoryChambreRepository is an in-memory domain.ChambreRepository.
type MemoryChambreRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Chambre
}

// NewMemoryChambreRepository creates an empty store.
func NewMemoryChambreRepository() *MemoryChambreRepository {
	return &MemoryChambreRepository{items: map[string]*domain.Chambre{}}
}

func (r *MemoryChambreRepository) List(_ context.Context, f domain.ChambreFilters) ([]*domain.Chambre, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Chambre
	for _, c := range r.items {
		if f.BienID != nil && c.BienID != *f.BienID {
			continue
		}
		if f.Statut != nil && c.Statut != *f.Statut {
			continue
		}
		if f.TypeChambre != nil && c.TypeChambre != *f.TypeChambre {
			continue
		}
		if f.SurfaceMin != nil && c.Surface < *f.SurfaceMin {
			continue
		}
		if f.SurfaceMax != nil && c.Surface > *f.SurfaceMax {
			continue
		}
		if f.LoyerMin != nil && c.LoyerMensuel < *f.LoyerMin {
			continue
		}
		if f.LoyerMax != nil && c.LoyerMensuel > *f.LoyerMax {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateCreation.After(out[j].DateCreation) })
	total := len(out)
	return paginate(out, f.Page, f.Limit), total, nil
}

func (r *MemoryChambreRepository) GetByID(_ context.Context, id string) (*domain.Chambre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.NotFound("chambre", id)
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryChambreRepository) Create(_ context.Context, chambre *domain.Chambre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chambre.ID = newID("chambre")
	now := time.Now()
	chambre.DateCreation = now
	chambre.DateModification = now
	cp := *chambre
	r.items[chambre.ID] = &cp
	return nil
}

func (r *MemoryChambreRepository) Update(_ context.Context, chambre *domain.Chambre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[chambre.ID]; !ok {
		return domain.NotFound("chambre", chambre.ID)
	}
	chambre.DateModification = time.Now()
	cp := *chambre
	r.items[chambre.ID] = &cp
	return nil
}

func (r *MemoryChambreRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("chambre", id)
	}
	delete(r.items, id)
	return nil
}
