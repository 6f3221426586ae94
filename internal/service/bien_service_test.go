package service

import (
	"context"
	"testing"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
)

// countingBienRepo wraps a repository and counts List calls.
type countingBienRepo struct {
	domain.BienRepository
	listCalls int
}

func (c *countingBienRepo) List(ctx context.Context, f domain.BienFilters) ([]*domain.Bien, int, error) {
	c.listCalls++
	return c.BienRepository.List(ctx, f)
}

func validBien() *domain.Bien {
	return &domain.Bien{
		Nom:      "Maison Centre",
		Adresse:  "12 rue de la Paix, Lyon",
		Type:     "maison",
		Surface:  120,
		NbPieces: 5,
	}
}

func TestBienCreateAndGet(t *testing.T) {
	s := NewBienService(repository.NewMemoryBienRepository(), nil)
	ctx := context.Background()

	resp := s.Create(ctx, validBien())
	if !resp.Success {
		t.Fatalf("create failed: %s", resp.Error)
	}
	if resp.Data.ID == "" || resp.Data.DateCreation.IsZero() {
		t.Fatal("expected store-assigned id and creation timestamp")
	}
	if resp.Data.Statut != "libre" {
		t.Fatalf("expected default statut libre, got %s", resp.Data.Statut)
	}

	got := s.GetByID(ctx, resp.Data.ID)
	if !got.Success || got.Data.Nom != "Maison Centre" {
		t.Fatalf("get failed: %+v", got)
	}
}

func TestBienCreateInvalid(t *testing.T) {
	s := NewBienService(repository.NewMemoryBienRepository(), nil)

	resp := s.Create(context.Background(), &domain.Bien{Nom: "", Type: "igloo"})
	if resp.Success {
		t.Fatal("expected validation failure")
	}
	if resp.Kind != KindValidation {
		t.Fatalf("expected validation kind, got %v", resp.Kind)
	}
}

func TestBienUpdateEmptyPatchRefreshesTimestamp(t *testing.T) {
	s := NewBienService(repository.NewMemoryBienRepository(), nil)
	ctx := context.Background()

	created := s.Create(ctx, validBien())
	before := created.Data.DateModification

	resp := s.Update(ctx, created.Data.ID, domain.BienPatch{})
	if !resp.Success {
		t.Fatalf("update failed: %s", resp.Error)
	}
	if resp.Data.Nom != "Maison Centre" {
		t.Fatal("empty patch must not change fields")
	}
	if resp.Data.DateModification.Before(before) {
		t.Fatal("date_modification must be refreshed")
	}
}

func TestBienDeleteThenGet(t *testing.T) {
	s := NewBienService(repository.NewMemoryBienRepository(), nil)
	ctx := context.Background()

	created := s.Create(ctx, validBien())
	if resp := s.Delete(ctx, created.Data.ID); !resp.Success {
		t.Fatalf("delete failed: %s", resp.Error)
	}

	got := s.GetByID(ctx, created.Data.ID)
	if got.Success || got.Kind != KindNotFound {
		t.Fatalf("expected not found after delete, got %+v", got)
	}

	// Deleting an unknown id reports not found, not an internal error
	resp := s.Delete(ctx, "bien-inconnu")
	if resp.Success || resp.Kind != KindNotFound {
		t.Fatalf("expected not found kind, got %+v", resp)
	}
}

func TestBienRechercherBlankSkipsStore(t *testing.T) {
	counting := &countingBienRepo{BienRepository: repository.NewMemoryBienRepository()}
	s := NewBienService(counting, nil)

	resp := s.Rechercher(context.Background(), "   ")
	if !resp.Success || len(resp.Data) != 0 {
		t.Fatalf("expected empty success, got %+v", resp)
	}
	if counting.listCalls != 0 {
		t.Fatalf("blank search must not touch the store, got %d calls", counting.listCalls)
	}
}

func TestBienRechercherAccentInsensitive(t *testing.T) {
	s := NewBienService(repository.NewMemoryBienRepository(), nil)
	ctx := context.Background()

	b := validBien()
	b.Nom = "Résidence Hélène"
	s.Create(ctx, b)
	s.Create(ctx, validBien())

	resp := s.Rechercher(ctx, "helene")
	if !resp.Success || len(resp.Data) != 1 {
		t.Fatalf("expected one accent-insensitive match, got %d", len(resp.Data))
	}
}

func TestBienStatistiques(t *testing.T) {
	s := NewBienService(repository.NewMemoryBienRepository(), nil)
	ctx := context.Background()

	a := validBien()
	s.Create(ctx, a)

	b := validBien()
	b.Nom = "Appartement Gare"
	b.Type = "appartement"
	b.Statut = "travaux"
	b.Surface = 60
	s.Create(ctx, b)

	resp := s.Statistiques(ctx)
	if !resp.Success {
		t.Fatalf("statistiques failed: %s", resp.Error)
	}
	stats := resp.Data
	if stats.Total != 2 || stats.SurfaceTotale != 180 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ParStatut["libre"] != 1 || stats.ParStatut["travaux"] != 1 {
		t.Fatalf("unexpected par_statut: %+v", stats.ParStatut)
	}
}
