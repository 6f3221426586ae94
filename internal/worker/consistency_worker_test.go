package worker

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
	"github.com/yourorg/propmanager/internal/service"
)

func TestConsistencyWorkerSignaleIncoherences(t *testing.T) {
	chambreRepo := repository.NewMemoryChambreRepository()
	biens := service.NewBienService(repository.NewMemoryBienRepository(), nil)
	chambres := service.NewChambreService(chambreRepo, nil)
	locataires := service.NewLocataireService(repository.NewMemoryLocataireRepository(), nil)
	contrats := service.NewContratService(repository.NewMemoryContratRepository(), nil)
	loyers := service.NewLoyerService(repository.NewMemoryLoyerRepository(), nil)
	pm := service.NewPropManagerService(biens, chambres, locataires, contrats, loyers, nil, time.Minute, nil)

	ctx := context.Background()
	if err := chambreRepo.Create(ctx, &domain.Chambre{
		BienID:       "bien-1",
		Nom:          "Orpheline",
		Surface:      12,
		LoyerMensuel: 400,
		TypeChambre:  "privee",
		Statut:       "louee",
	}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	w := NewConsistencyWorker(pm, logger, time.Minute)

	w.RunOnce(ctx)

	out := buf.String()
	if !strings.Contains(out, "incoherence detected") {
		t.Fatalf("expected an incoherence warning, got logs: %s", out)
	}
	if !strings.Contains(out, "sans contrat actif") {
		t.Fatalf("the orphan rented room must be named, got logs: %s", out)
	}
}

func TestConsistencyWorkerDonneesCoherentes(t *testing.T) {
	biens := service.NewBienService(repository.NewMemoryBienRepository(), nil)
	chambres := service.NewChambreService(repository.NewMemoryChambreRepository(), nil)
	locataires := service.NewLocataireService(repository.NewMemoryLocataireRepository(), nil)
	contrats := service.NewContratService(repository.NewMemoryContratRepository(), nil)
	loyers := service.NewLoyerService(repository.NewMemoryLoyerRepository(), nil)
	pm := service.NewPropManagerService(biens, chambres, locataires, contrats, loyers, nil, time.Minute, nil)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	w := NewConsistencyWorker(pm, logger, time.Minute)

	w.RunOnce(context.Background())

	if strings.Contains(buf.String(), "incoherence detected") {
		t.Fatalf("no incoherence expected on empty stores, got logs: %s", buf.String())
	}
}
