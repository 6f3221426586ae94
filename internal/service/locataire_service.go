package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/validation"
)

// LocataireService manages tenants and candidates.
type LocataireService struct {
	repo   domain.LocataireRepository
	logger *slog.Logger
}

// LocataireStats summarizes the tenant base.
type LocataireStats struct {
	Total          int     `json:"total"`
	Actifs         int     `json:"actifs"`
	Inactifs       int     `json:"inactifs"`
	NouveauxCeMois int     `json:"nouveaux_ce_mois"`
	AgeMoyen       float64 `json:"age_moyen"`
}

// NewLocataireService creates a new locataire service
func NewLocataireService(repo domain.LocataireRepository, logger *slog.Logger) *LocataireService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocataireService{repo: repo, logger: logger}
}

// GetAll lists tenants with optional filters and pagination.
func (s *LocataireService) GetAll(ctx context.Context, filters domain.LocataireFilters) ListResponse[*domain.Locataire] {
	locataires, total, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list locataires", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("locataire", "list", "error")
		return failListFrom[*domain.Locataire](err)
	}
	metrics.ObserveEntityOp("locataire", "list", "success")
	return okList(locataires, listMeta(total, filters.Page, filters.Limit))
}

// GetByID retrieves one tenant.
func (s *LocataireService) GetByID(ctx context.Context, id string) Response[domain.Locataire] {
	locataire, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("locataire", "get", "error")
		return failFrom[domain.Locataire](err)
	}
	metrics.ObserveEntityOp("locataire", "get", "success")
	return ok(locataire, "")
}

// GetActifs lists tenants with statut actif.
func (s *LocataireService) GetActifs(ctx context.Context) ListResponse[*domain.Locataire] {
	statut := "actif"
	return s.GetAll(ctx, domain.LocataireFilters{Statut: &statut})
}

// GetInactifs lists tenants that are not active (candidat, ancien,
// suspendu).
func (s *LocataireService) GetInactifs(ctx context.Context) ListResponse[*domain.Locataire] {
	locataires, _, err := s.repo.List(ctx, domain.LocataireFilters{})
	if err != nil {
		return failListFrom[*domain.Locataire](err)
	}
	var inactifs []*domain.Locataire
	for _, l := range locataires {
		if l.Statut != "actif" {
			inactifs = append(inactifs, l)
		}
	}
	return okList(inactifs, listMeta(len(inactifs), 1, 0))
}

// Create validates and stores a new tenant.
func (s *LocataireService) Create(ctx context.Context, locataire *domain.Locataire) Response[domain.Locataire] {
	if res := validation.ValidateLocataire(locataire); !res.Valid {
		metrics.ObserveEntityOp("locataire", "create", "invalid")
		return failFrom[domain.Locataire](domain.NewValidationError(res.Errors))
	}
	if locataire.Statut == "" {
		locataire.Statut = "candidat"
	}
	if err := s.repo.Create(ctx, locataire); err != nil {
		s.logger.Error("failed to create locataire", slog.String("error", err.Error()))
		metrics.ObserveEntityOp("locataire", "create", "error")
		return failFrom[domain.Locataire](err)
	}
	s.logger.Info("locataire created",
		slog.String("locataire_id", locataire.ID),
		slog.String("nom", locataire.NomComplet()))
	metrics.ObserveEntityOp("locataire", "create", "success")
	return ok(locataire, "locataire cree")
}

// Update applies a partial patch. An explicit JSON null on chambre_id
// detaches the tenant from its room; an empty patch only refreshes
// date_modification.
func (s *LocataireService) Update(ctx context.Context, id string, patch domain.LocatairePatch) Response[domain.Locataire] {
	locataire, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveEntityOp("locataire", "update", "error")
		return failFrom[domain.Locataire](err)
	}

	if patch.Prenom != nil {
		locataire.Prenom = *patch.Prenom
	}
	if patch.Nom != nil {
		locataire.Nom = *patch.Nom
	}
	if patch.Email != nil {
		locataire.Email = *patch.Email
	}
	if patch.Telephone != nil {
		locataire.Telephone = *patch.Telephone
	}
	if patch.Age != nil {
		locataire.Age = *patch.Age
	}
	if patch.Profession != nil {
		locataire.Profession = *patch.Profession
	}
	if patch.SeraSeul != nil {
		locataire.SeraSeul = *patch.SeraSeul
	}
	if patch.ChambreID.Set {
		locataire.ChambreID = patch.ChambreID.Value
	}
	if patch.Statut != nil {
		locataire.Statut = *patch.Statut
	}
	if patch.CoOccupants != nil {
		locataire.CoOccupants = *patch.CoOccupants
	}

	if res := validation.ValidateLocataire(locataire); !res.Valid {
		metrics.ObserveEntityOp("locataire", "update", "invalid")
		return failFrom[domain.Locataire](domain.NewValidationError(res.Errors))
	}
	if err := s.repo.Update(ctx, locataire); err != nil {
		metrics.ObserveEntityOp("locataire", "update", "error")
		return failFrom[domain.Locataire](err)
	}
	metrics.ObserveEntityOp("locataire", "update", "success")
	return ok(locataire, "locataire mis a jour")
}

// UpdateStatut changes only the tenant status.
func (s *LocataireService) UpdateStatut(ctx context.Context, id, statut string) Response[domain.Locataire] {
	if !slices.Contains(domain.LocataireStatuts, statut) {
		return failFrom[domain.Locataire](domain.NewValidationError([]string{"statut invalide"}))
	}
	return s.Update(ctx, id, domain.LocatairePatch{Statut: &statut})
}

// UpdateContact changes the email and phone of a tenant.
func (s *LocataireService) UpdateContact(ctx context.Context, id, email, telephone string) Response[domain.Locataire] {
	var errs []string
	if !validation.IsValidEmail(email) {
		errs = append(errs, "email invalide")
	}
	if !validation.IsValidPhoneFR(telephone) {
		errs = append(errs, "telephone invalide")
	}
	if len(errs) > 0 {
		return failFrom[domain.Locataire](domain.NewValidationError(errs))
	}
	return s.Update(ctx, id, domain.LocatairePatch{Email: &email, Telephone: &telephone})
}

// Delete removes a tenant.
func (s *LocataireService) Delete(ctx context.Context, id string) Response[struct{}] {
	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.ObserveEntityOp("locataire", "delete", "error")
		return failFrom[struct{}](err)
	}
	s.logger.Info("locataire deleted", slog.String("locataire_id", id))
	metrics.ObserveEntityOp("locataire", "delete", "success")
	return ok[struct{}](nil, "locataire supprime")
}

// Rechercher performs a case- and accent-insensitive substring search over
// prenom, nom, email and profession. A blank term returns an empty result
// without touching the store.
func (s *LocataireService) Rechercher(ctx context.Context, term string) ListResponse[*domain.Locataire] {
	if strings.TrimSpace(term) == "" {
		return okList([]*domain.Locataire{}, listMeta(0, 1, 0))
	}
	locataires, _, err := s.repo.List(ctx, domain.LocataireFilters{})
	if err != nil {
		return failListFrom[*domain.Locataire](err)
	}
	var matched []*domain.Locataire
	for _, l := range locataires {
		if validation.MatchesSearch(term, l.Prenom, l.Nom, l.Email, l.Profession) {
			matched = append(matched, l)
		}
	}
	return okList(matched, listMeta(len(matched), 1, 0))
}

// Statistiques computes tenant counts, this month's arrivals and the
// average age.
func (s *LocataireService) Statistiques(ctx context.Context) Response[LocataireStats] {
	locataires, _, err := s.repo.List(ctx, domain.LocataireFilters{})
	if err != nil {
		return failFrom[LocataireStats](err)
	}
	now := time.Now()
	stats := LocataireStats{}
	ageSum := 0
	for _, l := range locataires {
		stats.Total++
		if l.Statut == "actif" {
			stats.Actifs++
		} else {
			stats.Inactifs++
		}
		if l.DateCreation.Year() == now.Year() && l.DateCreation.Month() == now.Month() {
			stats.NouveauxCeMois++
		}
		ageSum += l.Age
	}
	if stats.Total > 0 {
		stats.AgeMoyen = float64(ageSum) / float64(stats.Total)
	}
	return ok(&stats, "")
}
