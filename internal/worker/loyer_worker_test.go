package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func addContratActif(t *testing.T, repo domain.ContratRepository, chambreID string, debut time.Time) *domain.ContratBail {
	t.Helper()
	contrat := &domain.ContratBail{
		ChambreID:         chambreID,
		LocataireID:       "loc-1",
		DateDebut:         debut,
		LoyerMensuel:      450,
		ChargesMensuelles: 50,
		TypeBail:          "meuble",
		Statut:            "actif",
	}
	if err := repo.Create(context.Background(), contrat); err != nil {
		t.Fatalf("create contrat on %s: %v", chambreID, err)
	}
	return contrat
}

func TestLoyerWorkerGenereLoyersDuMois(t *testing.T) {
	contrats := repository.NewMemoryContratRepository()
	loyers := repository.NewMemoryLoyerRepository()
	w := NewLoyerWorker(contrats, loyers, discardLogger(), time.Minute, 5)
	ctx := context.Background()

	pastStart := time.Now().AddDate(0, -2, 0)
	addContratActif(t, contrats, "ch-1", pastStart)
	addContratActif(t, contrats, "ch-2", pastStart)

	w.RunOnce(ctx)

	all, total, err := loyers.List(ctx, domain.LoyerFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("expected one rent per active lease, got %d", total)
	}
	now := time.Now()
	for _, l := range all {
		if l.Mois != int(now.Month()) || l.Annee != now.Year() {
			t.Fatalf("rent not stamped with the current month: %+v", l)
		}
		if l.Statut != "en_attente" {
			t.Fatalf("generated rent must be en_attente, got %q", l.Statut)
		}
		if l.MontantTotal != 500 {
			t.Fatalf("total must follow the lease terms, got %v", l.MontantTotal)
		}
		if l.DateEcheance.Day() != 5 {
			t.Fatalf("due day must be the 5th, got %d", l.DateEcheance.Day())
		}
	}

	// Second pass is a no-op: the month already has its records.
	w.RunOnce(ctx)
	if _, total, _ = loyers.List(ctx, domain.LoyerFilters{}); total != 2 {
		t.Fatalf("generation must be idempotent, got %d", total)
	}
}

func TestLoyerWorkerIgnoreContratFutur(t *testing.T) {
	contrats := repository.NewMemoryContratRepository()
	loyers := repository.NewMemoryLoyerRepository()
	w := NewLoyerWorker(contrats, loyers, discardLogger(), time.Minute, 5)
	ctx := context.Background()

	addContratActif(t, contrats, "ch-1", time.Now().AddDate(0, 1, 0))

	w.RunOnce(ctx)
	if _, total, _ := loyers.List(ctx, domain.LoyerFilters{}); total != 0 {
		t.Fatalf("a lease starting next month has no rent yet, got %d", total)
	}
}

func TestLoyerWorkerMarqueRetards(t *testing.T) {
	contrats := repository.NewMemoryContratRepository()
	loyers := repository.NewMemoryLoyerRepository()
	w := NewLoyerWorker(contrats, loyers, discardLogger(), time.Minute, 5)
	ctx := context.Background()

	echu := &domain.Loyer{
		ChambreID:    "ch-1",
		ContratID:    "co-1",
		Mois:         1,
		Annee:        2026,
		MontantTotal: 500,
		MontantLoyer: 500,
		DateEcheance: time.Now().AddDate(0, 0, -10),
		Statut:       "en_attente",
	}
	aVenir := &domain.Loyer{
		ChambreID:    "ch-1",
		ContratID:    "co-1",
		Mois:         12,
		Annee:        2026,
		MontantTotal: 500,
		MontantLoyer: 500,
		DateEcheance: time.Now().AddDate(0, 0, 10),
		Statut:       "en_attente",
	}
	if err := loyers.Create(ctx, echu); err != nil {
		t.Fatal(err)
	}
	if err := loyers.Create(ctx, aVenir); err != nil {
		t.Fatal(err)
	}

	flipped, err := w.marquerRetards(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if flipped != 1 {
		t.Fatalf("expected 1 rent flipped, got %d", flipped)
	}

	got, err := loyers.GetByID(ctx, echu.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Statut != "en_retard" {
		t.Fatalf("past-due rent must be en_retard, got %q", got.Statut)
	}
	untouched, err := loyers.GetByID(ctx, aVenir.ID)
	if err != nil {
		t.Fatal(err)
	}
	if untouched.Statut != "en_attente" {
		t.Fatalf("future rent must stay en_attente, got %q", untouched.Statut)
	}
}
