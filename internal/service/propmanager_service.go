package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/reliability/circuitbreaker"
	"github.com/yourorg/propmanager/pkg/cache"
)

const dashboardCacheKey = "dashboard"

// PropManagerService composes the entity services into aggregate views:
// dashboard, global search, consistency report, connectivity check and
// period activity report.
type PropManagerService struct {
	biens      *BienService
	chambres   *ChambreService
	locataires *LocataireService
	contrats   *ContratService
	loyers     *LoyerService
	cache      *cache.Cache
	cacheTTL   time.Duration
	breakers   map[string]*circuitbreaker.CircuitBreaker
	logger     *slog.Logger
}

// DashboardResume is the headline block of the dashboard.
type DashboardResume struct {
	TotalBiens           int     `json:"total_biens"`
	TotalChambres        int     `json:"total_chambres"`
	TotalLocataires      int     `json:"total_locataires"`
	RevenusMensuels      float64 `json:"revenus_mensuels"`
	TauxOccupationGlobal float64 `json:"taux_occupation_global"`
	LoyersEnRetard       int     `json:"loyers_en_retard"`
}

// DashboardStats merges the per-entity statistics. A failed sub-request
// leaves its section zero-valued.
type DashboardStats struct {
	Biens      BienStats       `json:"biens"`
	Chambres   ChambreStats    `json:"chambres"`
	Locataires LocataireStats  `json:"locataires"`
	Loyers     LoyerStats      `json:"loyers"`
	Resume     DashboardResume `json:"resume"`
}

// RechercheResultat merges property and tenant search hits.
type RechercheResultat struct {
	Biens      []*domain.Bien      `json:"biens"`
	Locataires []*domain.Locataire `json:"locataires"`
	Total      int                 `json:"total"`
}

// SyncRapport lists human-readable data inconsistencies. Report-only: the
// synchronization never mutates anything.
type SyncRapport struct {
	Incoherences []string  `json:"incoherences"`
	Coherent     bool      `json:"coherent"`
	VerifieLe    time.Time `json:"verifie_le"`
}

// Connectivite is the per-service availability map.
type Connectivite struct {
	Services map[string]bool `json:"services"`
	Ensemble bool            `json:"ensemble"`
}

// RapportPeriode summarizes activity between two dates.
type RapportPeriode struct {
	Debut              time.Time `json:"debut"`
	Fin                time.Time `json:"fin"`
	NouveauxLocataires int       `json:"nouveaux_locataires"`
	NouvellesChambres  int       `json:"nouvelles_chambres"`
	ContratsSignes     int       `json:"contrats_signes"`
	RevenusEncaisses   float64   `json:"revenus_encaisses"`
}

// NewPropManagerService creates the aggregation service. cacheTTL bounds
// how stale a memoized dashboard may be.
func NewPropManagerService(
	biens *BienService,
	chambres *ChambreService,
	locataires *LocataireService,
	contrats *ContratService,
	loyers *LoyerService,
	dashboardCache *cache.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *PropManagerService {
	if logger == nil {
		logger = slog.Default()
	}
	if dashboardCache == nil {
		dashboardCache = cache.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}
	breakers := map[string]*circuitbreaker.CircuitBreaker{}
	for _, name := range []string{"biens", "chambres", "locataires", "contrats", "loyers"} {
		breakers[name] = circuitbreaker.NewCircuitBreaker(3, 1, 30*time.Second)
	}
	return &PropManagerService{
		biens:      biens,
		chambres:   chambres,
		locataires: locataires,
		contrats:   contrats,
		loyers:     loyers,
		cache:      dashboardCache,
		cacheTTL:   cacheTTL,
		breakers:   breakers,
		logger:     logger,
	}
}

// GetDashboard runs the four stats sub-requests concurrently and merges
// them. Success is true when at least one sub-request succeeded; a failed
// section stays zero-valued. The merged result is memoized for cacheTTL.
func (s *PropManagerService) GetDashboard(ctx context.Context) Response[DashboardStats] {
	if cached, found := s.cache.Get(dashboardCacheKey); found {
		if stats, okType := cached.(DashboardStats); okType {
			return ok(&stats, "depuis le cache")
		}
	}

	start := time.Now()
	var (
		wg            sync.WaitGroup
		bienResp      Response[BienStats]
		chambreResp   Response[ChambreStats]
		locataireResp Response[LocataireStats]
		loyerResp     Response[LoyerStats]
	)
	wg.Add(4)
	go func() { defer wg.Done(); bienResp = s.biens.Statistiques(ctx) }()
	go func() { defer wg.Done(); chambreResp = s.chambres.Statistiques(ctx) }()
	go func() { defer wg.Done(); locataireResp = s.locataires.Statistiques(ctx) }()
	go func() { defer wg.Done(); loyerResp = s.loyers.Statistiques(ctx) }()
	wg.Wait()

	stats := DashboardStats{}
	succeeded := 0
	if bienResp.Success && bienResp.Data != nil {
		stats.Biens = *bienResp.Data
		succeeded++
	}
	if chambreResp.Success && chambreResp.Data != nil {
		stats.Chambres = *chambreResp.Data
		succeeded++
	}
	if locataireResp.Success && locataireResp.Data != nil {
		stats.Locataires = *locataireResp.Data
		succeeded++
	}
	if loyerResp.Success && loyerResp.Data != nil {
		stats.Loyers = *loyerResp.Data
		succeeded++
	}

	stats.Resume = DashboardResume{
		TotalBiens:           stats.Biens.Total,
		TotalChambres:        stats.Chambres.Total,
		TotalLocataires:      stats.Locataires.Total,
		RevenusMensuels:      stats.Chambres.RevenusMensuels,
		TauxOccupationGlobal: stats.Chambres.TauxOccupation,
		LoyersEnRetard:       stats.Loyers.EnRetard,
	}

	if succeeded == 0 {
		metrics.ObserveDashboard("error", time.Since(start))
		return fail[DashboardStats](KindUnavailable, "aucune statistique disponible")
	}

	s.cache.Set(dashboardCacheKey, stats, s.cacheTTL)
	metrics.ObserveDashboard("success", time.Since(start))
	if succeeded < 4 {
		s.logger.Warn("dashboard partially degraded", slog.Int("sections_ok", succeeded))
		return ok(&stats, "statistiques partielles")
	}
	return ok(&stats, "")
}

// InvalidateDashboard drops the memoized dashboard, forcing the next call
// to recompute.
func (s *PropManagerService) InvalidateDashboard() {
	s.cache.Delete(dashboardCacheKey)
}

// RechercheGlobale searches properties and tenants concurrently. A blank
// term short-circuits to an empty result.
func (s *PropManagerService) RechercheGlobale(ctx context.Context, term string) Response[RechercheResultat] {
	if strings.TrimSpace(term) == "" {
		return ok(&RechercheResultat{Biens: []*domain.Bien{}, Locataires: []*domain.Locataire{}}, "")
	}

	var (
		wg            sync.WaitGroup
		bienResp      ListResponse[*domain.Bien]
		locataireResp ListResponse[*domain.Locataire]
	)
	wg.Add(2)
	go func() { defer wg.Done(); bienResp = s.biens.Rechercher(ctx, term) }()
	go func() { defer wg.Done(); locataireResp = s.locataires.Rechercher(ctx, term) }()
	wg.Wait()

	if !bienResp.Success && !locataireResp.Success {
		return fail[RechercheResultat](KindUnavailable, "recherche indisponible")
	}

	result := RechercheResultat{
		Biens:      bienResp.Data,
		Locataires: locataireResp.Data,
		Total:      len(bienResp.Data) + len(locataireResp.Data),
	}
	return ok(&result, "")
}

// SynchroniserDonnees cross-checks rooms, tenants and leases and reports
// inconsistencies without mutating anything.
func (s *PropManagerService) SynchroniserDonnees(ctx context.Context) Response[SyncRapport] {
	chambresResp := s.chambres.GetAll(ctx, domain.ChambreFilters{})
	locatairesResp := s.locataires.GetAll(ctx, domain.LocataireFilters{})
	contratsResp := s.contrats.GetAll(ctx, domain.ContratFilters{})
	if !chambresResp.Success || !locatairesResp.Success || !contratsResp.Success {
		return fail[SyncRapport](KindUnavailable, "donnees indisponibles pour la synchronisation")
	}

	chambres := map[string]*domain.Chambre{}
	for _, c := range chambresResp.Data {
		chambres[c.ID] = c
	}
	activeLeases := map[string]int{}
	for _, c := range contratsResp.Data {
		if c.Statut == "actif" {
			activeLeases[c.ChambreID]++
		}
	}

	var incoherences []string
	for _, c := range chambresResp.Data {
		n := activeLeases[c.ID]
		if c.Statut == "louee" && n == 0 {
			incoherences = append(incoherences,
				fmt.Sprintf("chambre %s (%s) est louee sans contrat actif", c.ID, c.Nom))
		}
		if c.Statut != "louee" && n > 0 {
			incoherences = append(incoherences,
				fmt.Sprintf("chambre %s (%s) a un contrat actif mais n'est pas louee", c.ID, c.Nom))
		}
		if n > 1 {
			incoherences = append(incoherences,
				fmt.Sprintf("chambre %s (%s) a %d contrats actifs", c.ID, c.Nom, n))
		}
	}
	for _, l := range locatairesResp.Data {
		if l.Statut == "actif" && l.ChambreID != nil {
			if _, exists := chambres[*l.ChambreID]; !exists {
				incoherences = append(incoherences,
					fmt.Sprintf("locataire %s (%s) reference la chambre inexistante %s", l.ID, l.NomComplet(), *l.ChambreID))
			}
		}
	}

	metrics.SetIncoherences(len(incoherences))
	if incoherences == nil {
		incoherences = []string{}
	}
	rapport := SyncRapport{
		Incoherences: incoherences,
		Coherent:     len(incoherences) == 0,
		VerifieLe:    time.Now(),
	}
	return ok(&rapport, "")
}

// VerifierConnectivite probes every entity service with a minimal read.
// Each probe runs behind a circuit breaker so a repeatedly failing store is
// skipped instead of hammered.
func (s *PropManagerService) VerifierConnectivite(ctx context.Context) Response[Connectivite] {
	probes := map[string]func() bool{
		"biens": func() bool {
			return s.biens.GetAll(ctx, domain.BienFilters{Limit: 1}).Success
		},
		"chambres": func() bool {
			return s.chambres.GetAll(ctx, domain.ChambreFilters{Limit: 1}).Success
		},
		"locataires": func() bool {
			return s.locataires.GetAll(ctx, domain.LocataireFilters{Limit: 1}).Success
		},
		"contrats": func() bool {
			return s.contrats.GetAll(ctx, domain.ContratFilters{Limit: 1}).Success
		},
		"loyers": func() bool {
			return s.loyers.GetAll(ctx, domain.LoyerFilters{Limit: 1}).Success
		},
	}

	result := Connectivite{Services: map[string]bool{}, Ensemble: true}
	for name, probe := range probes {
		breaker := s.breakers[name]
		if !breaker.AllowRequest() {
			result.Services[name] = false
			result.Ensemble = false
			continue
		}
		up := probe()
		if up {
			breaker.RecordSuccess()
		} else {
			breaker.RecordFailure()
		}
		result.Services[name] = up
		result.Ensemble = result.Ensemble && up
	}
	return ok(&result, "")
}

// RapportActivite summarizes what happened between debut and fin: arrivals,
// new rooms, signed leases and collected rent.
func (s *PropManagerService) RapportActivite(ctx context.Context, debut, fin time.Time) Response[RapportPeriode] {
	if fin.Before(debut) {
		return fail[RapportPeriode](KindValidation, "la date de fin precede la date de debut")
	}

	locatairesResp := s.locataires.GetAll(ctx, domain.LocataireFilters{})
	chambresResp := s.chambres.GetAll(ctx, domain.ChambreFilters{})
	contratsResp := s.contrats.GetAll(ctx, domain.ContratFilters{})
	loyersResp := s.loyers.GetAll(ctx, domain.LoyerFilters{})
	if !locatairesResp.Success || !chambresResp.Success || !contratsResp.Success || !loyersResp.Success {
		return fail[RapportPeriode](KindUnavailable, "donnees indisponibles pour le rapport")
	}

	inPeriod := func(t time.Time) bool {
		return !t.Before(debut) && !t.After(fin)
	}

	rapport := RapportPeriode{Debut: debut, Fin: fin}
	for _, l := range locatairesResp.Data {
		if inPeriod(l.DateCreation) {
			rapport.NouveauxLocataires++
		}
	}
	for _, c := range chambresResp.Data {
		if inPeriod(c.DateCreation) {
			rapport.NouvellesChambres++
		}
	}
	for _, c := range contratsResp.Data {
		if inPeriod(c.DateDebut) {
			rapport.ContratsSignes++
		}
	}
	for _, l := range loyersResp.Data {
		if l.DatePaiement != nil && inPeriod(*l.DatePaiement) && l.MontantPaye != nil {
			rapport.RevenusEncaisses += *l.MontantPaye
		}
	}
	return ok(&rapport, "")
}
