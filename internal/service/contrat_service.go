package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/validation"
)

// ContratService manages leases. At most one active lease may reference a
// room; the repositories enforce that and the service reports the conflict
// in the envelope.
type ContratService struct {
	repo   domain.ContratRepository
	logger *slog.Logger
}

// ContratStats summarizes the lease book.
type ContratStats struct {
	Total         int     `json:"total"`
	Actifs        int     `json:"actifs"`
	Expires       int     `json:"expires"`
	Resilies      int     `json:"resilies"`
	DepotsDetenus float64 `json:"depots_detenus"`
}

// NewContratService creates a new contrat service
func NewContratService(repo domain.ContratRepository, logger *slog.Logger) *ContratService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContratService{repo: repo, logger: logger}
}

// GetAll lists leases with optional filters and pagination.
func (s *ContratService) GetAll(ctx context.Context, filters domain.ContratFilters) ListResponse[*domain.ContratBail] {
	contrats, total, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list contrats", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("contrat", "list", "error")
		return failListFrom[*domain.ContratBail](err)
	}
	metrics.ObserveEntityOp("contrat", "list", "success")
	return okList(contrats, listMeta(total, filters.Page, filters.Limit))
}

// GetByID retrieves one lease.
func (s *ContratService) GetByID(ctx context.Context, id string) Response[domain.ContratBail] {
	contrat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("contrat", "get", "error")
		return failFrom[domain.ContratBail](err)
	}
	metrics.ObserveEntityOp("contrat", "get", "success")
	return ok(contrat, "")
}

// GetActifs lists leases with statut actif.
func (s *ContratService) GetActifs(ctx context.Context) ListResponse[*domain.ContratBail] {
	statut := "actif"
	return s.GetAll(ctx, domain.ContratFilters{Statut: &statut})
}

// GetByChambreID lists all leases ever signed on a room.
func (s *ContratService) GetByChambreID(ctx context.Context, chambreID string) ListResponse[*domain.ContratBail] {
	return s.GetAll(ctx, domain.ContratFilters{ChambreID: &chambreID})
}

// Create validates and stores a new lease.
func (s *ContratService) Create(ctx context.Context, contrat *domain.ContratBail) Response[domain.ContratBail] {
	if res := validation.ValidateContrat(contrat); !res.Valid {
		metrics.ObserveEntityOp("contrat", "create", "invalid")
		return failFrom[domain.ContratBail](domain.NewValidationError(res.Errors))
	}
	if contrat.Statut == "" {
		contrat.Statut = "actif"
	}
	if err := s.repo.Create(ctx, contrat); err != nil {
		s.logger.Error("failed to create contrat",
			slog.String("chambre_id", contrat.ChambreID),
			slog.String("error", err.Error()))
		metrics.ObserveEntityOp("contrat", "create", "error")
		return failFrom[domain.ContratBail](err)
	}
	s.logger.Info("contrat created",
		slog.String("contrat_id", contrat.ID),
		slog.String("chambre_id", contrat.ChambreID),
		slog.String("locataire_id", contrat.LocataireID))
	metrics.ObserveEntityOp("contrat", "create", "success")
	return ok(contrat, "contrat cree")
}

// Update applies a partial patch. An explicit JSON null on date_fin reopens
// a lease without an end date.
func (s *ContratService) Update(ctx context.Context, id string, patch domain.ContratPatch) Response[domain.ContratBail] {
	contrat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("contrat", "update", "error")
		return failFrom[domain.ContratBail](err)
	}

	if patch.DateDebut != nil {
		contrat.DateDebut = *patch.DateDebut
	}
	if patch.DateFin.Set {
		contrat.DateFin = patch.DateFin.Value
	}
	if patch.LoyerMensuel != nil {
		contrat.LoyerMensuel = *patch.LoyerMensuel
	}
	if patch.ChargesMensuelles != nil {
		contrat.ChargesMensuelles = *patch.ChargesMensuelles
	}
	if patch.DepotGarantie != nil {
		contrat.DepotGarantie = *patch.DepotGarantie
	}
	if patch.TypeBail != nil {
		contrat.TypeBail = *patch.TypeBail
	}
	if patch.Statut != nil {
		contrat.Statut = *patch.Statut
	}
	if patch.ClausesSpecifiques != nil {
		contrat.ClausesSpecifiques = *patch.ClausesSpecifiques
	}

	if res := validation.ValidateContrat(contrat); !res.Valid {
		metrics.ObserveEntityOp("contrat", "update", "invalid")
		return failFrom[domain.ContratBail](domain.NewValidationError(res.Errors))
	}
	if err := s.repo.Update(ctx, contrat); err != nil {
		metrics.ObserveEntityOp("contrat", "update", "error")
		return failFrom[domain.ContratBail](err)
	}
	metrics.ObserveEntityOp("contrat", "update", "success")
	return ok(contrat, "contrat mis a jour")
}

// Resilier terminates a lease: statut resilie, date_fin set to now unless
// already present.
func (s *ContratService) Resilier(ctx context.Context, id string) Response[domain.ContratBail] {
	contrat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failFrom[domain.ContratBail](err)
	}
	contrat.Statut = "resilie"
	if contrat.DateFin == nil {
		fin := time.Now()
		// A lease that has not started yet ends on its start date, keeping
		// date_fin >= date_debut.
		if fin.Before(contrat.DateDebut) {
			fin = contrat.DateDebut
		}
		contrat.DateFin = &fin
	}
	if err := s.repo.Update(ctx, contrat); err != nil {
		return failFrom[domain.ContratBail](err)
	}
	s.logger.Info("contrat resilie", slog.String("contrat_id", id))
	metrics.ObserveEntityOp("contrat", "resilier", "success")
	return ok(contrat, "contrat resilie")
}

// Delete removes a lease.
func (s *ContratService) Delete(ctx context.Context, id string) Response[struct{}] {
	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.ObserveEntityOp("contrat", "delete", "error")
		return failFrom[struct{}](err)
	}
	s.logger.Info("contrat deleted", slog.String("contrat_id", id))
	metrics.ObserveEntityOp("contrat", "delete", "success")
	return ok[struct{}](nil, "contrat supprime")
}

// Statistiques computes lease counts and the deposits currently held on
// active leases.
func (s *ContratService) Statistiques(ctx context.Context) Response[ContratStats] {
	contrats, _, err := s.repo.List(ctx, domain.ContratFilters{})
	if err != nil {
		return failFrom[ContratStats](err)
	}
	stats := ContratStats{}
	for _, c := range contrats {
		stats.Total++
		switch c.Statut {
		case "actif":
			stats.Actifs++
			stats.DepotsDetenus += c.DepotGarantie
		case "expire":
			stats.Expires++
		case "resilie":
			stats.Resilies++
		}
	}
	return ok(&stats, "")
}
