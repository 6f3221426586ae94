package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/validation"
)

// LoyerService manages monthly rent records.
type LoyerService struct {
	repo   domain.LoyerRepository
	logger *slog.Logger
}

// LoyerStats summarizes rent collection. EnRetard and EnAttente are kept
// as separate counters.
type LoyerStats struct {
	Total         int     `json:"total"`
	Payes         int     `json:"payes"`
	EnRetard      int     `json:"en_retard"`
	EnAttente     int     `json:"en_attente"`
	TotalEncaisse float64 `json:"total_encaisse"`
	TotalAttendu  float64 `json:"total_attendu"`
}

// NewLoyerService creates a new loyer service
func NewLoyerService(repo domain.LoyerRepository, logger *slog.Logger) *LoyerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoyerService{repo: repo, logger: logger}
}

// GetAll lists rent records with optional filters and pagination.
func (s *LoyerService) GetAll(ctx context.Context, filters domain.LoyerFilters) ListResponse[*domain.Loyer] {
	loyers, total, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list loyers", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("loyer", "list", "error")
		return failListFrom[*domain.Loyer](err)
	}
	metrics.ObserveEntityOp("loyer", "list", "success")
	return okList(loyers, listMeta(total, filters.Page, filters.Limit))
}

// GetByID retrieves one rent record.
func (s *LoyerService) GetByID(ctx context.Context, id string) Response[domain.Loyer] {
	loyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("loyer", "get", "error")
		return failFrom[domain.Loyer](err)
	}
	metrics.ObserveEntityOp("loyer", "get", "success")
	return ok(loyer, "")
}

// GetByContratID lists all rent records of one lease.
func (s *LoyerService) GetByContratID(ctx context.Context, contratID string) ListResponse[*domain.Loyer] {
	return s.GetAll(ctx, domain.LoyerFilters{ContratID: &contratID})
}

// GetEnRetard lists overdue rents.
func (s *LoyerService) GetEnRetard(ctx context.Context) ListResponse[*domain.Loyer] {
	statut := "en_retard"
	return s.GetAll(ctx, domain.LoyerFilters{Statut: &statut})
}

// GetEnAttente lists rents awaiting payment.
func (s *LoyerService) GetEnAttente(ctx context.Context) ListResponse[*domain.Loyer] {
	statut := "en_attente"
	return s.GetAll(ctx, domain.LoyerFilters{Statut: &statut})
}

// Create validates and stores a new rent record. montant_total must equal
// montant_loyer + montant_charges.
func (s *LoyerService) Create(ctx context.Context, loyer *domain.Loyer) Response[domain.Loyer] {
	if res := validation.ValidateLoyer(loyer); !res.Valid {
		metrics.ObserveEntityOp("loyer", "create", "invalid")
		return failFrom[domain.Loyer](domain.NewValidationError(res.Errors))
	}
	if loyer.Statut == "" {
		loyer.Statut = "en_attente"
	}
	if err := s.repo.Create(ctx, loyer); err != nil {
		s.logger.Error("failed to create loyer", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("loyer", "create", "error")
		return failFrom[domain.Loyer](err)
	}
	metrics.ObserveEntityOp("loyer", "create", "success")
	return ok(loyer, "loyer cree")
}

// Update applies a partial patch. An explicit JSON null on date_paiement
// reverts a payment entry.
func (s *LoyerService) Update(ctx context.Context, id string, patch domain.LoyerPatch) Response[domain.Loyer] {
	loyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("loyer", "update", "error")
		return failFrom[domain.Loyer](err)
	}

	if patch.MontantLoyer != nil {
		loyer.MontantLoyer = *patch.MontantLoyer
	}
	if patch.MontantCharges != nil {
		loyer.MontantCharges = *patch.MontantCharges
	}
	if patch.MontantLoyer != nil || patch.MontantCharges != nil {
		loyer.MontantTotal = loyer.MontantLoyer + loyer.MontantCharges
	}
	if patch.DateEcheance != nil {
		loyer.DateEcheance = *patch.DateEcheance
	}
	if patch.DatePaiement.Set {
		loyer.DatePaiement = patch.DatePaiement.Value
	}
	if patch.ModePaiement != nil {
		loyer.ModePaiement = *patch.ModePaiement
	}
	if patch.Statut != nil {
		loyer.Statut = *patch.Statut
	}
	if patch.MontantPaye != nil {
		loyer.MontantPaye = patch.MontantPaye
	}
	if patch.Commentaire != nil {
		loyer.Commentaire = *patch.Commentaire
	}

	if res := validation.ValidateLoyer(loyer); !res.Valid {
		metrics.ObserveEntityOp("loyer", "update", "invalid")
		return failFrom[domain.Loyer](domain.NewValidationError(res.Errors))
	}
	if err := s.repo.Update(ctx, loyer); err != nil {
		metrics.ObserveEntityOp("loyer", "update", "error")
		return failFrom[domain.Loyer](err)
	}
	metrics.ObserveEntityOp("loyer", "update", "success")
	return ok(loyer, "loyer mis a jour")
}

// MarquerPaye records a full payment: statut paye, date_paiement now,
// montant_paye set to the total.
func (s *LoyerService) MarquerPaye(ctx context.Context, id, modePaiement string) Response[domain.Loyer] {
	loyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failFrom[domain.Loyer](err)
	}
	now := time.Now()
	montant := loyer.MontantTotal
	loyer.Statut = "paye"
	loyer.DatePaiement = &now
	loyer.ModePaiement = modePaiement
	loyer.MontantPaye = &montant

	if res := validation.ValidateLoyer(loyer); !res.Valid {
		return failFrom[domain.Loyer](domain.NewValidationError(res.Errors))
	}
	if err := s.repo.Update(ctx, loyer); err != nil {
		return failFrom[domain.Loyer](err)
	}
	s.logger.Info("loyer paye",
		slog.String("loyer_id", id),
		slog.Float64("montant", montant),
		slog.String("mode", modePaiement))
	metrics.ObserveEntityOp("loyer", "marquer_paye", "success")
	return ok(loyer, "loyer marque paye")
}

// Delete removes a rent record.
func (s *LoyerService) Delete(ctx context.Context, id string) Response[struct{}] {
	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.ObserveEntityOp("loyer", "delete", "error")
		return failFrom[struct{}](err)
	}
	metrics.ObserveEntityOp("loyer", "delete", "success")
	return ok[struct{}](nil, "loyer supprime")
}

// Statistiques computes collection counters. Overdue and awaiting rents are
// never conflated.
func (s *LoyerService) Statistiques(ctx context.Context) Response[LoyerStats] {
	loyers, _, err := s.repo.List(ctx, domain.LoyerFilters{})
	if err != nil {
		return failFrom[LoyerStats](err)
	}
	stats := LoyerStats{}
	for _, l := range loyers {
		stats.Total++
		stats.TotalAttendu += l.MontantTotal
		switch l.Statut {
		case "paye":
			stats.Payes++
		case "en_retard":
			stats.EnRetard++
		case "en_attente":
			stats.EnAttente++
		}
		if l.MontantPaye != nil {
			stats.TotalEncaisse += *l.MontantPaye
		}
	}
	return ok(&stats, "")
}
