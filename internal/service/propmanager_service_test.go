package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
)

type aggregateFixture struct {
	svc        *PropManagerService
	biens      *BienService
	chambres   *ChambreService
	locataires *LocataireService
	contrats   *ContratService
	loyers     *LoyerService
}

func newAggregateFixture(bienRepo domain.BienRepository, chambreRepo domain.ChambreRepository) *aggregateFixture {
	if bienRepo == nil {
		bienRepo = repository.NewMemoryBienRepository()
	}
	if chambreRepo == nil {
		chambreRepo = repository.NewMemoryChambreRepository()
	}
	f := &aggregateFixture{
		biens:      NewBienService(bienRepo, nil),
		chambres:   NewChambreService(chambreRepo, nil),
		locataires: NewLocataireService(repository.NewMemoryLocataireRepository(), nil),
		contrats:   NewContratService(repository.NewMemoryContratRepository(), nil),
		loyers:     NewLoyerService(repository.NewMemoryLoyerRepository(), nil),
	}
	f.svc = NewPropManagerService(f.biens, f.chambres, f.locataires, f.contrats, f.loyers, nil, time.Minute, nil)
	return f
}

// brokenBienRepo fails every read.
type brokenBienRepo struct{ domain.BienRepository }

func (r *brokenBienRepo) List(context.Context, domain.BienFilters) ([]*domain.Bien, int, error) {
	return nil, 0, errors.New("panne du magasin")
}

type brokenChambreRepo struct{ domain.ChambreRepository }

func (r *brokenChambreRepo) List(context.Context, domain.ChambreFilters) ([]*domain.Chambre, int, error) {
	return nil, 0, errors.New("panne du magasin")
}

func TestDashboard(t *testing.T) {
	f := newAggregateFixture(nil, nil)
	ctx := context.Background()
	addChambre(t, f.chambres, "A", "louee", 450, 50)
	addChambre(t, f.chambres, "B", "libre", 400, 40)
	addLocataire(t, f.locataires, "jean", "Dupont", "actif")
	addLoyer(t, f.loyers, 3, 450, 50, "en_retard")

	resp := f.svc.GetDashboard(ctx)
	if !resp.Success || resp.Message != "" {
		t.Fatalf("expected full dashboard, got %+v", resp)
	}
	stats := resp.Data
	if stats.Resume.TotalChambres != 2 || stats.Resume.TotalLocataires != 1 {
		t.Fatalf("unexpected resume: %+v", stats.Resume)
	}
	if stats.Resume.RevenusMensuels != 500 {
		t.Fatalf("only louee rooms earn, got %v", stats.Resume.RevenusMensuels)
	}
	if stats.Resume.TauxOccupationGlobal != 50 {
		t.Fatalf("expected 50%% occupancy, got %v", stats.Resume.TauxOccupationGlobal)
	}
	if stats.Resume.LoyersEnRetard != 1 {
		t.Fatalf("expected 1 overdue rent, got %d", stats.Resume.LoyersEnRetard)
	}
}

func TestDashboardMemoise(t *testing.T) {
	f := newAggregateFixture(nil, nil)
	ctx := context.Background()

	first := f.svc.GetDashboard(ctx)
	if !first.Success {
		t.Fatalf("dashboard failed: %s", first.Error)
	}
	second := f.svc.GetDashboard(ctx)
	if second.Message != "depuis le cache" {
		t.Fatalf("second call must hit the cache, got message %q", second.Message)
	}

	f.svc.InvalidateDashboard()
	third := f.svc.GetDashboard(ctx)
	if third.Message == "depuis le cache" {
		t.Fatal("invalidation must force a recompute")
	}
}

func TestDashboardPartiel(t *testing.T) {
	f := newAggregateFixture(&brokenBienRepo{repository.NewMemoryBienRepository()}, nil)
	ctx := context.Background()
	addChambre(t, f.chambres, "A", "libre", 400, 40)

	resp := f.svc.GetDashboard(ctx)
	if !resp.Success || resp.Message != "statistiques partielles" {
		t.Fatalf("one failed section must degrade, not fail: %+v", resp)
	}
	if resp.Data.Biens.Total != 0 || resp.Data.Chambres.Total != 1 {
		t.Fatalf("failed section must stay zero-valued: %+v", resp.Data)
	}
}

func TestRechercheGlobale(t *testing.T) {
	f := newAggregateFixture(nil, nil)
	ctx := context.Background()
	bienResp := f.biens.Create(ctx, &domain.Bien{
		Nom:      "Résidence Hélène",
		Adresse:  "2 rue des Lilas, Lyon",
		Type:     "appartement",
		Surface:  80,
		NbPieces: 3,
	})
	if !bienResp.Success {
		t.Fatalf("create bien failed: %s", bienResp.Error)
	}
	addLocataire(t, f.locataires, "hélène", "Moreau", "actif")

	resp := f.svc.RechercheGlobale(ctx, "helene")
	if !resp.Success {
		t.Fatalf("recherche failed: %s", resp.Error)
	}
	if len(resp.Data.Biens) != 1 || len(resp.Data.Locataires) != 1 || resp.Data.Total != 2 {
		t.Fatalf("expected one hit on each side, got %+v", resp.Data)
	}

	blank := f.svc.RechercheGlobale(ctx, "   ")
	if !blank.Success || blank.Data.Total != 0 {
		t.Fatalf("blank term must return empty, got %+v", blank.Data)
	}
}

func TestSynchroniserDonnees(t *testing.T) {
	f := newAggregateFixture(nil, nil)
	ctx := context.Background()

	clean := f.svc.SynchroniserDonnees(ctx)
	if !clean.Success || !clean.Data.Coherent {
		t.Fatalf("empty stores must be coherent, got %+v", clean.Data)
	}

	// A room flagged louee without an active lease.
	orpheline := addChambre(t, f.chambres, "Orpheline", "louee", 400, 40)
	// An active tenant pointing at a room that does not exist.
	loc := addLocataire(t, f.locataires, "jean", "Dupont", "actif")
	f.locataires.Update(ctx, loc.ID, domain.LocatairePatch{ChambreID: domain.Some("ch-fantome")})

	resp := f.svc.SynchroniserDonnees(ctx)
	if !resp.Success {
		t.Fatalf("synchronisation failed: %s", resp.Error)
	}
	if resp.Data.Coherent || len(resp.Data.Incoherences) != 2 {
		t.Fatalf("expected 2 incoherences, got %+v", resp.Data.Incoherences)
	}
	var sawOrpheline, sawFantome bool
	for _, msg := range resp.Data.Incoherences {
		if strings.Contains(msg, orpheline.ID) {
			sawOrpheline = true
		}
		if strings.Contains(msg, "ch-fantome") {
			sawFantome = true
		}
	}
	if !sawOrpheline || !sawFantome {
		t.Fatalf("both inconsistencies must be named: %+v", resp.Data.Incoherences)
	}
}

func TestVerifierConnectivite(t *testing.T) {
	f := newAggregateFixture(nil, nil)
	ctx := context.Background()

	resp := f.svc.VerifierConnectivite(ctx)
	if !resp.Success || !resp.Data.Ensemble {
		t.Fatalf("all memory stores must be up, got %+v", resp.Data)
	}
	if len(resp.Data.Services) != 5 {
		t.Fatalf("expected 5 probes, got %d", len(resp.Data.Services))
	}
}

func TestVerifierConnectiviteDisjoncteur(t *testing.T) {
	f := newAggregateFixture(nil, &brokenChambreRepo{repository.NewMemoryChambreRepository()})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp := f.svc.VerifierConnectivite(ctx)
		if resp.Data.Services["chambres"] || resp.Data.Ensemble {
			t.Fatalf("chambres must be reported down on pass %d", i)
		}
	}
	// After three failures the breaker is open: chambres stays down without
	// hitting the store, the other services are unaffected.
	resp := f.svc.VerifierConnectivite(ctx)
	if resp.Data.Services["chambres"] {
		t.Fatal("open breaker must keep chambres down")
	}
	if !resp.Data.Services["biens"] || !resp.Data.Services["loyers"] {
		t.Fatalf("healthy services must stay up: %+v", resp.Data.Services)
	}
}

func TestRapportActivite(t *testing.T) {
	f := newAggregateFixture(nil, nil)
	ctx := context.Background()
	debut := time.Now().Add(-24 * time.Hour)
	fin := time.Now().Add(24 * time.Hour)

	addLocataire(t, f.locataires, "jean", "Dupont", "actif")
	addChambre(t, f.chambres, "A", "libre", 400, 40)
	addContrat(t, f.contrats, "ch-1", "actif")
	loyer := addLoyer(t, f.loyers, 3, 450, 50, "")
	f.loyers.MarquerPaye(ctx, loyer.ID, "virement")

	resp := f.svc.RapportActivite(ctx, debut, fin)
	if !resp.Success {
		t.Fatalf("rapport failed: %s", resp.Error)
	}
	r := resp.Data
	if r.NouveauxLocataires != 1 || r.NouvellesChambres != 1 {
		t.Fatalf("unexpected arrivals: %+v", r)
	}
	if r.RevenusEncaisses != 500 {
		t.Fatalf("expected 500 collected, got %v", r.RevenusEncaisses)
	}

	inverse := f.svc.RapportActivite(ctx, fin, debut)
	if inverse.Success || inverse.Kind != KindValidation {
		t.Fatalf("fin before debut must be rejected, got %+v", inverse)
	}
}
