package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
)

// LocationService runs the multi-step rental operation across rooms,
// tenants and leases. Each step that succeeds before a later failure is
// explicitly compensated; there is no assumed atomicity across stores.
type LocationService struct {
	chambres   *ChambreService
	locataires *LocataireService
	contrats   *ContratService
	logger     *slog.Logger
}

// BailConditions carries the financial terms of a new lease.
type BailConditions struct {
	DateDebut         time.Time  `json:"date_debut"`
	DateFin           *time.Time `json:"date_fin,omitempty"`
	LoyerMensuel      float64    `json:"loyer_mensuel"`
	ChargesMensuelles float64    `json:"charges_mensuelles"`
	DepotGarantie     float64    `json:"depot_garantie"`
	TypeBail          string     `json:"type_bail"`
}

// NewLocationService creates the rental saga service
func NewLocationService(
	chambres *ChambreService,
	locataires *LocataireService,
	contrats *ContratService,
	logger *slog.Logger,
) *LocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationService{
		chambres:   chambres,
		locataires: locataires,
		contrats:   contrats,
		logger:     logger,
	}
}

// Louer rents a room to a tenant: creates the lease, marks the room louee
// and attaches the tenant (chambre_id set, statut actif). If a later step
// fails, the earlier steps are rolled back and the failure is reported.
func (s *LocationService) Louer(ctx context.Context, chambreID, locataireID string, terms BailConditions) Response[domain.ContratBail] {
	chambreResp := s.chambres.GetByID(ctx, chambreID)
	if !chambreResp.Success {
		return fail[domain.ContratBail](chambreResp.Kind, chambreResp.Error)
	}
	chambre := chambreResp.Data
	if chambre.Statut != "libre" {
		return fail[domain.ContratBail](KindConflict, "chambre non disponible a la location")
	}

	locataireResp := s.locataires.GetByID(ctx, locataireID)
	if !locataireResp.Success {
		return fail[domain.ContratBail](locataireResp.Kind, locataireResp.Error)
	}

	// Step 1: create the lease. The store rejects a second active lease on
	// the same room.
	contrat := &domain.ContratBail{
		ChambreID:         chambreID,
		LocataireID:       locataireID,
		DateDebut:         terms.DateDebut,
		DateFin:           terms.DateFin,
		LoyerMensuel:      terms.LoyerMensuel,
		ChargesMensuelles: terms.ChargesMensuelles,
		DepotGarantie:     terms.DepotGarantie,
		TypeBail:          terms.TypeBail,
		Statut:            "actif",
	}
	contratResp := s.contrats.Create(ctx, contrat)
	if !contratResp.Success {
		return contratResp
	}
	contratID := contratResp.Data.ID

	// Step 2: mark the room rented. On failure, compensate step 1.
	statutResp := s.chambres.UpdateStatut(ctx, chambreID, "louee")
	if !statutResp.Success {
		s.logger.Error("failed to mark chambre louee, rolling back contrat",
			slog.String("chambre_id", chambreID),
			slog.String("contrat_id", contratID),
			slog.String("error", statutResp.Error))
		s.compensateContrat(ctx, contratID)
		metrics.ObserveEntityOp("location", "louer", "rollback")
		return fail[domain.ContratBail](statutResp.Kind, "location annulee: "+statutResp.Error)
	}

	// Step 3: attach the tenant. On failure, compensate steps 1 and 2.
	actif := "actif"
	patch := domain.LocatairePatch{ChambreID: domain.Some(chambreID), Statut: &actif}
	attachResp := s.locataires.Update(ctx, locataireID, patch)
	if !attachResp.Success {
		s.logger.Error("failed to attach locataire, rolling back",
			slog.String("locataire_id", locataireID),
			slog.String("contrat_id", contratID),
			slog.String("error", attachResp.Error))
		if r := s.chambres.UpdateStatut(ctx, chambreID, chambre.Statut); !r.Success {
			s.logger.Error("compensation failed: chambre statut not restored",
				slog.String("chambre_id", chambreID), slog.String("error", r.Error))
		}
		s.compensateContrat(ctx, contratID)
		metrics.ObserveEntityOp("location", "louer", "rollback")
		return fail[domain.ContratBail](attachResp.Kind, "location annulee: "+attachResp.Error)
	}

	s.logger.Info("location conclue",
		slog.String("contrat_id", contratID),
		slog.String("chambre_id", chambreID),
		slog.String("locataire_id", locataireID))
	metrics.ObserveEntityOp("location", "louer", "success")
	return contratResp
}

// Liberer ends a rental symmetrically: lease resilie, room libre, tenant
// ancien with chambre_id cleared.
func (s *LocationService) Liberer(ctx context.Context, contratID string) Response[domain.ContratBail] {
	contratResp := s.contrats.GetByID(ctx, contratID)
	if !contratResp.Success {
		return contratResp
	}
	contrat := contratResp.Data
	if contrat.Statut != "actif" {
		return fail[domain.ContratBail](KindConflict, "contrat deja termine")
	}

	resilieResp := s.contrats.Resilier(ctx, contratID)
	if !resilieResp.Success {
		return resilieResp
	}

	if r := s.chambres.UpdateStatut(ctx, contrat.ChambreID, "libre"); !r.Success {
		s.logger.Error("failed to free chambre after resiliation",
			slog.String("chambre_id", contrat.ChambreID),
			slog.String("error", r.Error))
	}

	ancien := "ancien"
	patch := domain.LocatairePatch{ChambreID: domain.Null[string](), Statut: &ancien}
	if r := s.locataires.Update(ctx, contrat.LocataireID, patch); !r.Success {
		s.logger.Error("failed to detach locataire after resiliation",
			slog.String("locataire_id", contrat.LocataireID),
			slog.String("error", r.Error))
	}

	s.logger.Info("location terminee",
		slog.String("contrat_id", contratID),
		slog.String("chambre_id", contrat.ChambreID))
	metrics.ObserveEntityOp("location", "liberer", "success")
	return resilieResp
}

// compensateContrat deletes a freshly created lease during rollback.
func (s *LocationService) compensateContrat(ctx context.Context, contratID string) {
	if r := s.contrats.Delete(ctx, contratID); !r.Success {
		s.logger.Error("compensation failed: contrat not deleted",
			slog.String("contrat_id", contratID),
			slog.String("error", r.Error))
	}
}
