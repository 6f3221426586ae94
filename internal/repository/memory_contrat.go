package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// MemoryContratRepository is an in-memory domain.ContratRepository. It
// enforces the single-active-lease-per-room invariant at creation.
type MemoryContratRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.ContratBail
}

// NewMemoryContratRepository creates an empty store.
func NewMemoryContratRepository() *MemoryContratRepository {
	return &MemoryContratRepository{items: map[string]*domain.ContratBail{}}
}

func copyContrat(c *domain.ContratBail) *domain.ContratBail {
	cp := *c
	if c.DateFin != nil {
		d := *c.DateFin
		cp.DateFin = &d
	}
	cp.ClausesSpecifiques = append([]string(nil), c.ClausesSpecifiques...)
	return &cp
}

func (r *MemoryContratRepository) List(_ context.Context, f domain.ContratFilters) ([]*domain.ContratBail, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.ContratBail
	for _, c := range r.items {
		if f.ChambreID != nil && c.ChambreID != *f.ChambreID {
			continue
		}
		if f.LocataireID != nil && c.LocataireID != *f.LocataireID {
			continue
		}
		if f.Statut != nil && c.Statut != *f.Statut {
			continue
		}
		out = append(out, copyContrat(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateCreation.After(out[j].DateCreation) })
	total := len(out)
	return paginate(out, f.Page, f.Limit), total, nil
}

func (r *MemoryContratRepository) GetByID(_ context.Context, id string) (*domain.ContratBail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.NotFound("contrat", id)
	}
	return copyContrat(c), nil
}

func (r *MemoryContratRepository) Create(_ context.Context, contrat *domain.ContratBail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contrat.Statut == "actif" {
		for _, existing := range r.items {
			if existing.ChambreID == contrat.ChambreID && existing.Statut == "actif" {
				return fmt.Errorf("chambre %s a deja un bail actif: %w", contrat.ChambreID, domain.ErrConflict)
			}
		}
	}
	contrat.ID = newID("contrat")
	now := time.Now()
	contrat.DateCreation = now
	contrat.DateModification = now
	r.items[contrat.ID] = copyContrat(contrat)
	return nil
}

func (r *MemoryContratRepository) Update(_ context.Context, contrat *domain.ContratBail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[contrat.ID]; !ok {
		return domain.NotFound("contrat", contrat.ID)
	}
	if contrat.Statut == "actif" {
		for id, existing := range r.items {
			if id != contrat.ID && existing.ChambreID == contrat.ChambreID && existing.Statut == "actif" {
				return fmt.Errorf("chambre %s a deja un bail actif: %w", contrat.ChambreID, domain.ErrConflict)
			}
		}
	}
	contrat.DateModification = time.Now()
	r.items[contrat.ID] = copyContrat(contrat)
	return nil
}

func (r *MemoryContratRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("contrat", id)
	}
	delete(r.items, id)
	return nil
}
