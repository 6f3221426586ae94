package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// MemoryLoyerRepository is an in-memory domain.LoyerRepository.
type MemoryLoyerRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Loyer
}

// NewMemoryLoyerRepository creates an empty store.
func NewMemoryLoyerRepository() *MemoryLoyerRepository {
	return &MemoryLoyerRepository{items: map[string]*domain.Loyer{}}
}

func copyLoyer(l *domain.Loyer) *domain.Loyer {
	cp := *l
	if l.DatePaiement != nil {
		d := *l.DatePaiement
		cp.DatePaiement = &d
	}
	if l.MontantPaye != nil {
		m := *l.MontantPaye
		cp.MontantPaye = &m
	}
	return &cp
}

func (r *MemoryLoyerRepository) List(_ context.Context, f domain.LoyerFilters) ([]*domain.Loyer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Loyer
	for _, l := range r.items {
		if f.ChambreID != nil && l.ChambreID != *f.ChambreID {
			continue
		}
		if f.ContratID != nil && l.ContratID != *f.ContratID {
			continue
		}
		if f.Statut != nil && l.Statut != *f.Statut {
			continue
		}
		if f.Mois != nil && l.Mois != *f.Mois {
			continue
		}
		if f.Annee != nil && l.Annee != *f.Annee {
			continue
		}
		out = append(out, copyLoyer(l))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Annee != out[j].Annee {
			return out[i].Annee > out[j].Annee
		}
		return out[i].Mois > out[j].Mois
	})
	total := len(out)
	return paginate(out, f.Page, f.Limit), total, nil
}

func (r *MemoryLoyerRepository) GetByID(_ context.Context, id string) (*domain.Loyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, domain.NotFound("loyer", id)
	}
	return copyLoyer(l), nil
}

func (r *MemoryLoyerRepository) Create(_ context.Context, loyer *domain.Loyer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	loyer.ID = newID("loyer")
	now := time.Now()
	loyer.DateCreation = now
	loyer.DateModification = now
	r.items[loyer.ID] = copyLoyer(loyer)
	return nil
}

func (r *MemoryLoyerRepository) Update(_ context.Context, loyer *domain.Loyer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[loyer.ID]; !ok {
		return domain.NotFound("loyer", loyer.ID)
	}
	loyer.DateModification = time.Now()
	r.items[loyer.ID] = copyLoyer(loyer)
	return nil
}

func (r *MemoryLoyerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("loyer", id)
	}
	delete(r.items, id)
	return nil
}
