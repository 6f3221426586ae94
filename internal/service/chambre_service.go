package service

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/validation"
)

// ChambreService manages rentable rooms.
type ChambreService struct {
	repo   domain.ChambreRepository
	logger *slog.Logger
}

// ChambreStats summarizes room occupancy and expected revenue.
// RevenusMensuels sums loyer+charges over rented rooms only;
// TauxOccupation is louees/total rounded to the nearest percent, 0 when
// there are no rooms.
type ChambreStats struct {
	Total           int     `json:"total"`
	Libres          int     `json:"libres"`
	Louees          int     `json:"louees"`
	Travaux         int     `json:"travaux"`
	RevenusMensuels float64 `json:"revenus_mensuels"`
	TauxOccupation  float64 `json:"taux_occupation"`
}

// NewChambreService creates a new chambre service
func NewChambreService(repo domain.ChambreRepository, logger *slog.Logger) *ChambreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChambreService{repo: repo, logger: logger}
}

// GetAll lists rooms with optional filters and pagination.
func (s *ChambreService) GetAll(ctx context.Context, filters domain.ChambreFilters) ListResponse[*domain.Chambre] {
	chambres, total, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list chambres", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("chambre", "list", "error")
		return failListFrom[*domain.Chambre](err)
	}
	metrics.ObserveEntityOp("chambre", "list", "success")
	return okList(chambres, listMeta(total, filters.Page, filters.Limit))
}

// GetByID retrieves one room.
func (s *ChambreService) GetByID(ctx context.Context, id string) Response[domain.Chambre] {
	chambre, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("chambre", "get", "error")
		return failFrom[domain.Chambre](err)
	}
	metrics.ObserveEntityOp("chambre", "get", "success")
	return ok(chambre, "")
}

// GetByBienID lists all rooms of one property.
func (s *ChambreService) GetByBienID(ctx context.Context, bienID string) ListResponse[*domain.Chambre] {
	return s.GetAll(ctx, domain.ChambreFilters{BienID: &bienID})
}

// GetChambresLibres lists available rooms, optionally within one property.
func (s *ChambreService) GetChambresLibres(ctx context.Context, bienID *string) ListResponse[*domain.Chambre] {
	statut := "libre"
	return s.GetAll(ctx, domain.ChambreFilters{Statut: &statut, BienID: bienID})
}

// GetChambresLouees lists rented rooms, optionally within one property.
func (s *ChambreService) GetChambresLouees(ctx context.Context, bienID *string) ListResponse[*domain.Chambre] {
	statut := "louee"
	return s.GetAll(ctx, domain.ChambreFilters{Statut: &statut, BienID: bienID})
}

// Create validates and stores a new room.
func (s *ChambreService) Create(ctx context.Context, chambre *domain.Chambre) Response[domain.Chambre] {
	if res := validation.ValidateChambre(chambre); !res.Valid {
		metrics.ObserveEntityOp("chambre", "create", "invalid")
		return failFrom[domain.Chambre](domain.NewValidationError(res.Errors))
	}
	if chambre.Statut == "" {
		chambre.Statut = "libre"
	}
	if err := s.repo.Create(ctx, chambre); err != nil {
		s.logger.Error("failed to create chambre", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("chambre", "create", "error")
		return failFrom[domain.Chambre](err)
	}
	s.logger.Info("chambre created", slog.String("chambre_id", chambre.ID), slog.String("bien_id", chambre.BienID))
	metrics.ObserveEntityOp("chambre", "create", "success")
	return ok(chambre, "chambre creee")
}

// Update applies a partial patch. An empty patch only refreshes
// date_modification.
func (s *ChambreService) Update(ctx context.Context, id string, patch domain.ChambrePatch) Response[domain.Chambre] {
	chambre, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("chambre", "update", "error")
		return failFrom[domain.Chambre](err)
	}

	if patch.Nom != nil {
		chambre.Nom = *patch.Nom
	}
	if patch.Surface != nil {
		chambre.Surface = *patch.Surface
	}
	if patch.LoyerMensuel != nil {
		chambre.LoyerMensuel = *patch.LoyerMensuel
	}
	if patch.ChargesMensuelles != nil {
		chambre.ChargesMensuelles = *patch.ChargesMensuelles
	}
	if patch.TypeChambre != nil {
		chambre.TypeChambre = *patch.TypeChambre
	}
	if patch.Statut != nil {
		chambre.Statut = *patch.Statut
	}
	if patch.Description != nil {
		chambre.Description = *patch.Description
	}
	if patch.Equipements != nil {
		chambre.Equipements = *patch.Equipements
	}

	if res := validation.ValidateChambre(chambre); !res.Valid {
		metrics.ObserveEntityOp("chambre", "update", "invalid")
		return failFrom[domain.Chambre](domain.NewValidationError(res.Errors))
	}
	if err := s.repo.Update(ctx, chambre); err != nil {
		metrics.ObserveEntityOp("chambre", "update", "error")
		return failFrom[domain.Chambre](err)
	}
	metrics.ObserveEntityOp("chambre", "update", "success")
	return ok(chambre, "chambre mise a jour")
}

// UpdateStatut changes only the room status.
func (s *ChambreService) UpdateStatut(ctx context.Context, id, statut string) Response[domain.Chambre] {
	if !slices.Contains(domain.ChambreStatuts, statut) {
		return failFrom[domain.Chambre](domain.NewValidationError([]string{"statut invalide"}))
	}
	return s.Update(ctx, id, domain.ChambrePatch{Statut: &statut})
}

// UpdateLoyer changes the rent and charges of a room.
func (s *ChambreService) UpdateLoyer(ctx context.Context, id string, loyer, charges float64) Response[domain.Chambre] {
	if !validation.IsValidAmount(loyer) || !validation.IsValidAmount(charges) {
		return failFrom[domain.Chambre](domain.NewValidationError([]string{"montant invalide"}))
	}
	return s.Update(ctx, id, domain.ChambrePatch{LoyerMensuel: &loyer, ChargesMensuelles: &charges})
}

// Delete removes a room.
func (s *ChambreService) Delete(ctx context.Context, id string) Response[struct{}] {
	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.ObserveEntityOp("chambre", "delete", "error")
		return failFrom[struct{}](err)
	}
	s.logger.Info("chambre deleted", slog.String("chambre_id", id))
	metrics.ObserveEntityOp("chambre", "delete", "success")
	return ok[struct{}](nil, "chambre supprimee")
}

// Statistiques computes occupancy and revenue figures and refreshes the
// corresponding gauges.
func (s *ChambreService) Statistiques(ctx context.Context) Response[ChambreStats] {
	chambres, _, err := s.repo.List(ctx, domain.ChambreFilters{})
	if err != nil {
		return failFrom[ChambreStats](err)
	}
	stats := ChambreStats{}
	for _, c := range chambres {
		stats.Total++
		switch c.Statut {
		case "libre":
			stats.Libres++
		case "louee":
			stats.Louees++
			stats.RevenusMensuels += c.LoyerTotal()
		case "travaux":
			stats.Travaux++
		}
	}
	if stats.Total > 0 {
		stats.TauxOccupation = math.Round(float64(stats.Louees) / float64(stats.Total) * 100)
	}
	metrics.SetTauxOccupation(stats.TauxOccupation)
	metrics.SetRevenusMensuels(stats.RevenusMensuels)
	return ok(&stats, "")
}
