package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/validation"
)

// BienService manages properties.
type BienService struct {
	repo   domain.BienRepository
	logger *slog.Logger
}

// BienStats summarizes the property portfolio.
type BienStats struct {
	Total         int            `json:"total"`
	ParStatut     map[string]int `json:"par_statut"`
	SurfaceTotale float64        `json:"surface_totale"`
}

// NewBienService creates a new bien service
func NewBienService(repo domain.BienRepository, logger *slog.Logger) *BienService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BienService{repo: repo, logger: logger}
}

// GetAll lists properties with optional filters and pagination.
func (s *BienService) GetAll(ctx context.Context, filters domain.BienFilters) ListResponse[*domain.Bien] {
	biens, total, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list biens", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("bien", "list", "error")
		return failListFrom[*domain.Bien](err)
	}
	metrics.ObserveEntityOp("bien", "list", "success")
	return okList(biens, listMeta(total, filters.Page, filters.Limit))
}

// GetByID retrieves one property.
func (s *BienService) GetByID(ctx context.Context, id string) Response[domain.Bien] {
	bien, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("bien", "get", "error")
		return failFrom[domain.Bien](err)
	}
	metrics.ObserveEntityOp("bien", "get", "success")
	return ok(bien, "")
}

// Create validates and stores a new property. The store assigns the id and
// both timestamps.
func (s *BienService) Create(ctx context.Context, bien *domain.Bien) Response[domain.Bien] {
	if res := validation.ValidateBien(bien); !res.Valid {
		metrics.ObserveEntityOp("bien", "create", "invalid")
		return failFrom[domain.Bien](domain.NewValidationError(res.Errors))
	}
	if bien.Statut == "" {
		bien.Statut = "libre"
	}
	if err := s.repo.Create(ctx, bien); err != nil {
		s.logger.Error("failed to create bien", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("bien", "create", "error")
		return failFrom[domain.Bien](err)
	}
	s.logger.Info("bien created", slog.String("bien_id", bien.ID), slog.String("nom", bien.Nom))
	metrics.ObserveEntityOp("bien", "create", "success")
	return ok(bien, "bien cree")
}

// Update applies a partial patch. An empty patch only refreshes
// date_modification.
func (s *BienService) Update(ctx context.Context, id string, patch domain.BienPatch) Response[domain.Bien] {
	bien, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("bien", "update", "error")
		return failFrom[domain.Bien](err)
	}

	if patch.Nom != nil {
		bien.Nom = *patch.Nom
	}
	if patch.Adresse != nil {
		bien.Adresse = *patch.Adresse
	}
	if patch.Type != nil {
		bien.Type = *patch.Type
	}
	if patch.Surface != nil {
		bien.Surface = *patch.Surface
	}
	if patch.NbPieces != nil {
		bien.NbPieces = *patch.NbPieces
	}
	if patch.Description != nil {
		bien.Description = *patch.Description
	}
	if patch.Statut != nil {
		bien.Statut = *patch.Statut
	}

	if res := validation.ValidateBien(bien); !res.Valid {
		metrics.ObserveEntityOp("bien", "update", "invalid")
		return failFrom[domain.Bien](domain.NewValidationError(res.Errors))
	}
	if err := s.repo.Update(ctx, bien); err != nil {
		metrics.ObserveEntityOp("bien", "update", "error")
		return failFrom[domain.Bien](err)
	}
	metrics.ObserveEntityOp("bien", "update", "success")
	return ok(bien, "bien mis a jour")
}

// Delete removes a property. An unknown id yields a not-found envelope and
// leaves the store untouched.
func (s *BienService) Delete(ctx context.Context, id string) Response[struct{}] {
	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.ObserveEntityOp("bien", "delete", "error")
		return failFrom[struct{}](err)
	}
	s.logger.Info("bien deleted", slog.String("bien_id", id))
	metrics.ObserveEntityOp("bien", "delete", "success")
	return ok[struct{}](nil, "bien supprime")
}

// Rechercher performs a case- and accent-insensitive substring search over
// nom, adresse and description. A blank term returns an empty result
// without touching the store.
func (s *BienService) Rechercher(ctx context.Context, term string) ListResponse[*domain.Bien] {
	if strings.TrimSpace(term) == "" {
		return okList([]*domain.Bien{}, listMeta(0, 1, 0))
	}
	biens, _, err := s.repo.List(ctx, domain.BienFilters{})
	if err != nil {
		return failListFrom[*domain.Bien](err)
	}
	var matched []*domain.Bien
	for _, b := range biens {
		if validation.MatchesSearch(term, b.Nom, b.Adresse, b.Description) {
			matched = append(matched, b)
		}
	}
	return okList(matched, listMeta(len(matched), 1, 0))
}

// Statistiques computes portfolio totals: count, per-status breakdown and
// total surface.
func (s *BienService) Statistiques(ctx context.Context) Response[BienStats] {
	biens, _, err := s.repo.List(ctx, domain.BienFilters{})
	if err != nil {
		return failFrom[BienStats](err)
	}
	stats := BienStats{ParStatut: map[string]int{}}
	for _, b := range biens {
		stats.Total++
		stats.ParStatut[b.Statut]++
		stats.SurfaceTotale += b.Surface
	}
	return ok(&stats, "")
}
