package service

import (
	"context"
	"testing"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
)

func newChambreService() *ChambreService {
	return NewChambreService(repository.NewMemoryChambreRepository(), nil)
}

func addChambre(t *testing.T, s *ChambreService, nom, statut string, loyer, charges float64) *domain.Chambre {
	t.Helper()
	resp := s.Create(context.Background(), &domain.Chambre{
		BienID:            "bien-1",
		Nom:               nom,
		Surface:           12,
		LoyerMensuel:      loyer,
		ChargesMensuelles: charges,
		TypeChambre:       "privee",
		Statut:            statut,
	})
	if !resp.Success {
		t.Fatalf("create chambre %s failed: %s", nom, resp.Error)
	}
	return resp.Data
}

func TestChambreStatistiquesRevenusEtOccupation(t *testing.T) {
	s := newChambreService()
	ctx := context.Background()

	// 4 rented out of 9: revenue counts rented rooms only
	addChambre(t, s, "A1", "louee", 400, 50)
	addChambre(t, s, "A2", "louee", 450, 60)
	addChambre(t, s, "A3", "louee", 300, 0)
	addChambre(t, s, "A4", "louee", 250, 10)
	addChambre(t, s, "B1", "libre", 500, 70)
	addChambre(t, s, "B2", "libre", 480, 40)
	addChambre(t, s, "B3", "travaux", 350, 20)
	addChambre(t, s, "B4", "libre", 410, 30)
	addChambre(t, s, "B5", "libre", 390, 25)

	resp := s.Statistiques(ctx)
	if !resp.Success {
		t.Fatalf("statistiques failed: %s", resp.Error)
	}
	stats := resp.Data
	if stats.Total != 9 || stats.Louees != 4 || stats.Libres != 4 || stats.Travaux != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.RevenusMensuels != 1520 {
		t.Fatalf("expected revenus 1520, got %v", stats.RevenusMensuels)
	}
	// 4/9 rounds to 44
	if stats.TauxOccupation != 44 {
		t.Fatalf("expected taux 44, got %v", stats.TauxOccupation)
	}
}

func TestChambreStatistiquesVide(t *testing.T) {
	s := newChambreService()

	resp := s.Statistiques(context.Background())
	if !resp.Success {
		t.Fatalf("statistiques failed: %s", resp.Error)
	}
	if resp.Data.TauxOccupation != 0 || resp.Data.RevenusMensuels != 0 {
		t.Fatalf("empty store must yield zero stats, got %+v", resp.Data)
	}
}

func TestChambreUpdateStatut(t *testing.T) {
	s := newChambreService()
	ctx := context.Background()
	chambre := addChambre(t, s, "A1", "libre", 400, 50)

	resp := s.UpdateStatut(ctx, chambre.ID, "louee")
	if !resp.Success || resp.Data.Statut != "louee" {
		t.Fatalf("update statut failed: %+v", resp)
	}

	bad := s.UpdateStatut(ctx, chambre.ID, "occupee")
	if bad.Success || bad.Kind != KindValidation {
		t.Fatalf("expected invalid statut rejection, got %+v", bad)
	}
}

func TestChambreUpdateLoyer(t *testing.T) {
	s := newChambreService()
	ctx := context.Background()
	chambre := addChambre(t, s, "A1", "libre", 400, 50)

	resp := s.UpdateLoyer(ctx, chambre.ID, 450, 55)
	if !resp.Success || resp.Data.LoyerMensuel != 450 || resp.Data.ChargesMensuelles != 55 {
		t.Fatalf("update loyer failed: %+v", resp)
	}

	bad := s.UpdateLoyer(ctx, chambre.ID, -10, 0)
	if bad.Success || bad.Kind != KindValidation {
		t.Fatalf("expected negative amount rejection, got %+v", bad)
	}
}

func TestChambresLibresEtLouees(t *testing.T) {
	s := newChambreService()
	ctx := context.Background()
	addChambre(t, s, "A1", "libre", 400, 50)
	addChambre(t, s, "A2", "louee", 450, 60)

	libres := s.GetChambresLibres(ctx, nil)
	if !libres.Success || len(libres.Data) != 1 || libres.Data[0].Nom != "A1" {
		t.Fatalf("unexpected libres: %+v", libres)
	}

	louees := s.GetChambresLouees(ctx, nil)
	if !louees.Success || len(louees.Data) != 1 || louees.Data[0].Nom != "A2" {
		t.Fatalf("unexpected louees: %+v", louees)
	}
}
