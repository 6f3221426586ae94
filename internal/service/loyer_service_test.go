package service

import (
	"context"
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
)

func newLoyerService() *LoyerService {
	return NewLoyerService(repository.NewMemoryLoyerRepository(), nil)
}

func addLoyer(t *testing.T, s *LoyerService, mois int, montant, charges float64, statut string) *domain.Loyer {
	t.Helper()
	resp := s.Create(context.Background(), &domain.Loyer{
		ChambreID:      "ch-1",
		ContratID:      "co-1",
		Mois:           mois,
		Annee:          2026,
		MontantLoyer:   montant,
		MontantCharges: charges,
		MontantTotal:   montant + charges,
		DateEcheance:   time.Date(2026, time.Month(mois), 5, 0, 0, 0, 0, time.UTC),
		Statut:         statut,
	})
	if !resp.Success {
		t.Fatalf("create loyer mois=%d failed: %s", mois, resp.Error)
	}
	return resp.Data
}

func TestLoyerCreateDefaultsEnAttente(t *testing.T) {
	s := newLoyerService()
	loyer := addLoyer(t, s, 3, 500, 60, "")
	if loyer.Statut != "en_attente" {
		t.Fatalf("expected default statut en_attente, got %q", loyer.Statut)
	}
}

func TestLoyerCreateRejectsTotalIncoherent(t *testing.T) {
	s := newLoyerService()
	resp := s.Create(context.Background(), &domain.Loyer{
		ChambreID:      "ch-1",
		ContratID:      "co-1",
		Mois:           3,
		Annee:          2026,
		MontantLoyer:   500,
		MontantCharges: 60,
		MontantTotal:   550,
	})
	if resp.Success || resp.Kind != KindValidation {
		t.Fatalf("expected validation failure on incoherent total, got %+v", resp)
	}
}

func TestLoyerCreateRejectsDatePaiementSansStatut(t *testing.T) {
	s := newLoyerService()
	now := time.Now()
	resp := s.Create(context.Background(), &domain.Loyer{
		ChambreID:    "ch-1",
		ContratID:    "co-1",
		Mois:         3,
		Annee:        2026,
		MontantTotal: 0,
		DatePaiement: &now,
		Statut:       "en_attente",
	})
	if resp.Success || resp.Kind != KindValidation {
		t.Fatalf("date_paiement with statut en_attente must be rejected, got %+v", resp)
	}
}

func TestLoyerMarquerPaye(t *testing.T) {
	s := newLoyerService()
	ctx := context.Background()
	loyer := addLoyer(t, s, 4, 500, 60, "")

	resp := s.MarquerPaye(ctx, loyer.ID, "virement")
	if !resp.Success {
		t.Fatalf("marquer paye failed: %s", resp.Error)
	}
	paye := resp.Data
	if paye.Statut != "paye" || paye.ModePaiement != "virement" {
		t.Fatalf("unexpected state after payment: %+v", paye)
	}
	if paye.DatePaiement == nil {
		t.Fatal("date_paiement must be stamped")
	}
	if paye.MontantPaye == nil || *paye.MontantPaye != 560 {
		t.Fatalf("montant_paye must equal total, got %v", paye.MontantPaye)
	}

	if bad := s.MarquerPaye(ctx, loyer.ID, "troc"); bad.Success || bad.Kind != KindValidation {
		t.Fatalf("unknown payment mode must be rejected, got %+v", bad)
	}
	if missing := s.MarquerPaye(ctx, "loyer-inconnu", "virement"); missing.Success || missing.Kind != KindNotFound {
		t.Fatalf("unknown loyer must be not found, got %+v", missing)
	}
}

func TestLoyerListesParStatut(t *testing.T) {
	s := newLoyerService()
	ctx := context.Background()
	addLoyer(t, s, 1, 500, 60, "en_retard")
	addLoyer(t, s, 2, 500, 60, "en_attente")
	addLoyer(t, s, 3, 500, 60, "paye")

	retard := s.GetEnRetard(ctx)
	if !retard.Success || len(retard.Data) != 1 || retard.Data[0].Mois != 1 {
		t.Fatalf("expected the january rent overdue, got %+v", retard.Data)
	}
	attente := s.GetEnAttente(ctx)
	if !attente.Success || len(attente.Data) != 1 || attente.Data[0].Mois != 2 {
		t.Fatalf("expected the february rent pending, got %+v", attente.Data)
	}
}

func TestLoyerStatistiques(t *testing.T) {
	s := newLoyerService()
	ctx := context.Background()
	addLoyer(t, s, 1, 500, 60, "en_retard")
	addLoyer(t, s, 2, 400, 50, "en_attente")
	paye := addLoyer(t, s, 3, 300, 40, "")
	s.MarquerPaye(ctx, paye.ID, "cheque")

	resp := s.Statistiques(ctx)
	if !resp.Success {
		t.Fatalf("statistiques failed: %s", resp.Error)
	}
	stats := resp.Data
	if stats.Total != 3 || stats.Payes != 1 || stats.EnRetard != 1 || stats.EnAttente != 1 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats.TotalAttendu != 560+450+340 {
		t.Fatalf("unexpected total attendu: %v", stats.TotalAttendu)
	}
	if stats.TotalEncaisse != 340 {
		t.Fatalf("only the paid rent counts as collected, got %v", stats.TotalEncaisse)
	}
}
