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

type locationFixture struct {
	location   *LocationService
	chambres   *ChambreService
	locataires *LocataireService
	contrats   *ContratService
	chambre    *domain.Chambre
	locataire  *domain.Locataire
}

func newLocationFixture(t *testing.T, locataireRepo domain.LocataireRepository) *locationFixture {
	t.Helper()
	if locataireRepo == nil {
		locataireRepo = repository.NewMemoryLocataireRepository()
	}
	chambres := NewChambreService(repository.NewMemoryChambreRepository(), nil)
	locataires := NewLocataireService(locataireRepo, nil)
	contrats := NewContratService(repository.NewMemoryContratRepository(), nil)

	f := &locationFixture{
		location:   NewLocationService(chambres, locataires, contrats, nil),
		chambres:   chambres,
		locataires: locataires,
		contrats:   contrats,
	}
	f.chambre = addChambre(t, chambres, "Chambre A", "libre", 450, 50)
	f.locataire = addLocataire(t, locataires, "jean", "Dupont", "candidat")
	return f
}

func standardTerms() BailConditions {
	return BailConditions{
		DateDebut:         time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		LoyerMensuel:      450,
		ChargesMensuelles: 50,
		DepotGarantie:     450,
		TypeBail:          "meuble",
	}
}

func TestLouer(t *testing.T) {
	f := newLocationFixture(t, nil)
	ctx := context.Background()

	resp := f.location.Louer(ctx, f.chambre.ID, f.locataire.ID, standardTerms())
	if !resp.Success {
		t.Fatalf("louer failed: %s", resp.Error)
	}
	contrat := resp.Data
	if contrat.Statut != "actif" || contrat.ChambreID != f.chambre.ID || contrat.LocataireID != f.locataire.ID {
		t.Fatalf("unexpected lease: %+v", contrat)
	}

	chambre := f.chambres.GetByID(ctx, f.chambre.ID).Data
	if chambre.Statut != "louee" {
		t.Fatalf("room must be louee, got %q", chambre.Statut)
	}
	locataire := f.locataires.GetByID(ctx, f.locataire.ID).Data
	if locataire.Statut != "actif" || locataire.ChambreID == nil || *locataire.ChambreID != f.chambre.ID {
		t.Fatalf("tenant must be actif on the room, got %+v", locataire)
	}
}

func TestLouerChambreNonLibre(t *testing.T) {
	f := newLocationFixture(t, nil)
	ctx := context.Background()
	f.chambres.UpdateStatut(ctx, f.chambre.ID, "travaux")

	resp := f.location.Louer(ctx, f.chambre.ID, f.locataire.ID, standardTerms())
	if resp.Success || resp.Kind != KindConflict {
		t.Fatalf("renting a non-free room must conflict, got %+v", resp)
	}
	if contrats := f.contrats.GetAll(ctx, domain.ContratFilters{}); len(contrats.Data) != 0 {
		t.Fatalf("no lease may be created, got %d", len(contrats.Data))
	}
}

func TestLouerLocataireInconnu(t *testing.T) {
	f := newLocationFixture(t, nil)
	ctx := context.Background()

	resp := f.location.Louer(ctx, f.chambre.ID, "loc-inconnu", standardTerms())
	if resp.Success || resp.Kind != KindNotFound {
		t.Fatalf("unknown tenant must be not found, got %+v", resp)
	}
	if chambre := f.chambres.GetByID(ctx, f.chambre.ID).Data; chambre.Statut != "libre" {
		t.Fatalf("room must stay libre, got %q", chambre.Statut)
	}
}

// brokenUpdateLocataireRepo fails every Update to force the saga into its
// compensation path.
type brokenUpdateLocataireRepo struct {
	domain.LocataireRepository
}

func (r *brokenUpdateLocataireRepo) Update(context.Context, *domain.Locataire) error {
	return errors.New("panne du magasin")
}

func TestLouerCompensation(t *testing.T) {
	broken := &brokenUpdateLocataireRepo{repository.NewMemoryLocataireRepository()}
	f := newLocationFixture(t, broken)
	ctx := context.Background()

	resp := f.location.Louer(ctx, f.chambre.ID, f.locataire.ID, standardTerms())
	if resp.Success {
		t.Fatal("louer must fail when the tenant cannot be attached")
	}
	if !strings.HasPrefix(resp.Error, "location annulee") {
		t.Fatalf("expected rollback message, got %q", resp.Error)
	}

	// Compensations: no lease left, room back to libre.
	if contrats := f.contrats.GetAll(ctx, domain.ContratFilters{}); len(contrats.Data) != 0 {
		t.Fatalf("lease must be rolled back, got %d", len(contrats.Data))
	}
	if chambre := f.chambres.GetByID(ctx, f.chambre.ID).Data; chambre.Statut != "libre" {
		t.Fatalf("room statut must be restored, got %q", chambre.Statut)
	}
}

func TestLiberer(t *testing.T) {
	f := newLocationFixture(t, nil)
	ctx := context.Background()

	louerResp := f.location.Louer(ctx, f.chambre.ID, f.locataire.ID, standardTerms())
	if !louerResp.Success {
		t.Fatalf("louer failed: %s", louerResp.Error)
	}
	contratID := louerResp.Data.ID

	resp := f.location.Liberer(ctx, contratID)
	if !resp.Success {
		t.Fatalf("liberer failed: %s", resp.Error)
	}
	if resp.Data.Statut != "resilie" || resp.Data.DateFin == nil {
		t.Fatalf("lease must be resilie with date_fin, got %+v", resp.Data)
	}
	if chambre := f.chambres.GetByID(ctx, f.chambre.ID).Data; chambre.Statut != "libre" {
		t.Fatalf("room must be libre, got %q", chambre.Statut)
	}
	locataire := f.locataires.GetByID(ctx, f.locataire.ID).Data
	if locataire.Statut != "ancien" || locataire.ChambreID != nil {
		t.Fatalf("tenant must be ancien and detached, got %+v", locataire)
	}

	// A second liberation is a conflict.
	again := f.location.Liberer(ctx, contratID)
	if again.Success || again.Kind != KindConflict || again.Error != "contrat deja termine" {
		t.Fatalf("expected contrat deja termine, got %+v", again)
	}
}
