package service

import (
	"context"
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
)

func newContratService() *ContratService {
	return NewContratService(repository.NewMemoryContratRepository(), nil)
}

func addContrat(t *testing.T, s *ContratService, chambreID, statut string) *domain.ContratBail {
	t.Helper()
	resp := s.Create(context.Background(), &domain.ContratBail{
		ChambreID:         chambreID,
		LocataireID:       "loc-1",
		DateDebut:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		LoyerMensuel:      500,
		ChargesMensuelles: 60,
		DepotGarantie:     500,
		TypeBail:          "meuble",
		Statut:            statut,
	})
	if !resp.Success {
		t.Fatalf("create contrat on %s failed: %s", chambreID, resp.Error)
	}
	return resp.Data
}

func TestContratCreateDefaultsActif(t *testing.T) {
	s := newContratService()
	contrat := addContrat(t, s, "ch-1", "")
	if contrat.Statut != "actif" {
		t.Fatalf("expected default statut actif, got %q", contrat.Statut)
	}
	if contrat.ID == "" || contrat.DateCreation.IsZero() {
		t.Fatalf("store must assign id and timestamps: %+v", contrat)
	}
}

func TestContratCreateRejectsFinAvantDebut(t *testing.T) {
	s := newContratService()
	fin := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	resp := s.Create(context.Background(), &domain.ContratBail{
		ChambreID:   "ch-1",
		LocataireID: "loc-1",
		DateDebut:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		DateFin:     &fin,
	})
	if resp.Success || resp.Kind != KindValidation {
		t.Fatalf("end before start must be rejected, got %+v", resp)
	}
}

func TestContratUneSeuleLocationActiveParChambre(t *testing.T) {
	s := newContratService()
	addContrat(t, s, "ch-1", "actif")

	resp := s.Create(context.Background(), &domain.ContratBail{
		ChambreID:   "ch-1",
		LocataireID: "loc-2",
		DateDebut:   time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		Statut:      "actif",
	})
	if resp.Success || resp.Kind != KindConflict {
		t.Fatalf("second active lease on the same room must conflict, got %+v", resp)
	}

	// A terminated lease on the same room is fine.
	if old := addContrat(t, s, "ch-1", "resilie"); old.Statut != "resilie" {
		t.Fatalf("unexpected statut: %q", old.Statut)
	}
}

func TestContratResilier(t *testing.T) {
	s := newContratService()
	ctx := context.Background()
	contrat := addContrat(t, s, "ch-1", "actif")

	resp := s.Resilier(ctx, contrat.ID)
	if !resp.Success || resp.Data.Statut != "resilie" {
		t.Fatalf("resilier failed: %+v", resp)
	}
	if resp.Data.DateFin == nil {
		t.Fatal("resiliation must stamp date_fin")
	}

	// The room is free for a new lease afterwards.
	addContrat(t, s, "ch-1", "actif")
}

func TestContratResilierAvantDebut(t *testing.T) {
	s := newContratService()
	ctx := context.Background()
	debut := time.Now().AddDate(0, 2, 0)
	resp := s.Create(ctx, &domain.ContratBail{
		ChambreID:   "ch-1",
		LocataireID: "loc-1",
		DateDebut:   debut,
		TypeBail:    "meuble",
		Statut:      "actif",
	})
	if !resp.Success {
		t.Fatalf("create contrat failed: %s", resp.Error)
	}

	resilie := s.Resilier(ctx, resp.Data.ID)
	if !resilie.Success {
		t.Fatalf("resilier failed: %s", resilie.Error)
	}
	if resilie.Data.DateFin == nil || resilie.Data.DateFin.Before(resilie.Data.DateDebut) {
		t.Fatalf("date_fin may not precede date_debut: %+v", resilie.Data)
	}
}

func TestContratActifs(t *testing.T) {
	s := newContratService()
	ctx := context.Background()
	actif := addContrat(t, s, "ch-1", "actif")
	addContrat(t, s, "ch-2", "expire")

	resp := s.GetActifs(ctx)
	if !resp.Success || len(resp.Data) != 1 || resp.Data[0].ID != actif.ID {
		t.Fatalf("expected only the active lease, got %+v", resp.Data)
	}

	parChambre := s.GetByChambreID(ctx, "ch-2")
	if !parChambre.Success || len(parChambre.Data) != 1 {
		t.Fatalf("expected one lease on ch-2, got %+v", parChambre.Data)
	}
}

func TestContratStatistiques(t *testing.T) {
	s := newContratService()
	ctx := context.Background()
	addContrat(t, s, "ch-1", "actif")
	addContrat(t, s, "ch-2", "actif")
	addContrat(t, s, "ch-3", "expire")
	addContrat(t, s, "ch-4", "resilie")

	resp := s.Statistiques(ctx)
	if !resp.Success {
		t.Fatalf("statistiques failed: %s", resp.Error)
	}
	stats := resp.Data
	if stats.Total != 4 || stats.Actifs != 2 || stats.Expires != 1 || stats.Resilies != 1 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	// Deposits are only held on active leases.
	if stats.DepotsDetenus != 1000 {
		t.Fatalf("unexpected depots detenus: %v", stats.DepotsDetenus)
	}
}
