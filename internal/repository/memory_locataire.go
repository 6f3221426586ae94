package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// MemoryLocataireRepository is an in-memory domain.LocataireRepository.
type MemoryLocataireRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Locataire
}

// NewMemoryLocataireRepository creates an empty store.
func NewMemoryLocataireRepository() *MemoryLocataireRepository {
	return &MemoryLocataireRepository{items: map[string]*domain.Locataire{}}
}

func copyLocataire(l *domain.Locataire) *domain.Locataire {
	cp := *l
	if l.ChambreID != nil {
		id := *l.ChambreID
		cp.ChambreID = &id
	}
	cp.CoOccupants = append([]domain.CoOccupant(nil), l.CoOccupants...)
	return &cp
}

func (r *MemoryLocataireRepository) List(_ context.Context, f domain.LocataireFilters) ([]*domain.Locataire, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Locataire
	for _, l := range r.items {
		if f.Statut != nil && l.Statut != *f.Statut {
			continue
		}
		if f.Profession != nil && !strings.EqualFold(l.Profession, *f.Profession) {
			continue
		}
		if f.ChambreID != nil && (l.ChambreID == nil || *l.ChambreID != *f.ChambreID) {
			continue
		}
		if f.AgeMin != nil && l.Age < *f.AgeMin {
			continue
		}
		if f.AgeMax != nil && l.Age > *f.AgeMax {
			continue
		}
		out = append(out, copyLocataire(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateCreation.After(out[j].DateCreation) })
	total := len(out)
	return paginate(out, f.Page, f.Limit), total, nil
}

func (r *MemoryLocataireRepository) GetByID(_ context.Context, id string) (*domain.Locataire, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, domain.NotFound("locataire", id)
	}
	return copyLocataire(l), nil
}

func (r *MemoryLocataireRepository) Create(_ context.Context, locataire *domain.Locataire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	locataire.ID = newID("locataire")
	now := time.Now()
	locataire.DateCreation = now
	locataire.DateModification = now
	if locataire.CoOccupants == nil {
		locataire.CoOccupants = []domain.CoOccupant{}
	}
	r.items[locataire.ID] = copyLocataire(locataire)
	return nil
}

func (r *MemoryLocataireRepository) Update(_ context.Context, locataire *domain.Locataire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[locataire.ID]; !ok {
		return domain.NotFound("locataire", locataire.ID)
	}
	locataire.DateModification = time.Now()
	r.items[locataire.ID] = copyLocataire(locataire)
	return nil
}

func (r *MemoryLocataireRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("locataire", id)
	}
	delete(r.items, id)
	return nil
}
