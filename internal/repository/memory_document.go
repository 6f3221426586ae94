package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// MemoryDocumentRepository is an in-memory domain.DocumentRepository.
type MemoryDocumentRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Document
}

// NewMemoryDocumentRepository creates an empty store.
func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{items: map[string]*domain.Document{}}
}

func copyDocument(d *domain.Document) *domain.Document {
	cp := *d
	cp.Contenu = append([]byte(nil), d.Contenu...)
	return &cp
}

func (r *MemoryDocumentRepository) Create(document *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	document.ID = newID("document")
	document.DateCreation = time.Now()
	document.TailleOctets = int64(len(document.Contenu))
	r.items[document.ID] = copyDocument(document)
	return nil
}

func (r *MemoryDocumentRepository) GetByID(id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[id]
	if !ok {
		return nil, domain.NotFound("document", id)
	}
	return copyDocument(d), nil
}

func (r *MemoryDocumentRepository) ListByLocataire(locataireID string) ([]*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Document
	for _, d := range r.items {
		if d.LocataireID == locataireID {
			out = append(out, copyDocument(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateCreation.After(out[j].DateCreation) })
	return out, nil
}

func (r *MemoryDocumentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("document", id)
	}
	delete(r.items, id)
	return nil
}
