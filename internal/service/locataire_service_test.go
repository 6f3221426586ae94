package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
)

func newLocataireService() *LocataireService {
	return NewLocataireService(repository.NewMemoryLocataireRepository(), nil)
}

func addLocataire(t *testing.T, s *LocataireService, prenom, nom, statut string) *domain.Locataire {
	t.Helper()
	resp := s.Create(context.Background(), &domain.Locataire{
		Prenom: prenom,
		Nom:    nom,
		Age:    30,
		Statut: statut,
	})
	if !resp.Success {
		t.Fatalf("create locataire %s failed: %s", nom, resp.Error)
	}
	return resp.Data
}

func TestLocatairePatchDetacheChambre(t *testing.T) {
	s := newLocataireService()
	ctx := context.Background()
	loc := addLocataire(t, s, "jean", "Dupont", "actif")

	// Attach a room
	attach := s.Update(ctx, loc.ID, domain.LocatairePatch{ChambreID: domain.Some("ch-42")})
	if !attach.Success || attach.Data.ChambreID == nil || *attach.Data.ChambreID != "ch-42" {
		t.Fatalf("attach failed: %+v", attach)
	}

	// Explicit null detaches, absent field leaves untouched
	detach := s.Update(ctx, loc.ID, domain.LocatairePatch{ChambreID: domain.Null[string]()})
	if !detach.Success || detach.Data.ChambreID != nil {
		t.Fatalf("explicit null must detach, got %+v", detach.Data.ChambreID)
	}

	noop := s.Update(ctx, loc.ID, domain.LocatairePatch{})
	if !noop.Success || noop.Data.ChambreID != nil || noop.Data.Prenom != "jean" {
		t.Fatalf("empty patch must not change fields: %+v", noop.Data)
	}
}

func TestLocatairePatchJSONNullRoundTrip(t *testing.T) {
	// A JSON null and an absent field decode to different patches
	var withNull, absent domain.LocatairePatch
	if err := json.Unmarshal([]byte(`{"chambre_id":null}`), &withNull); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatal(err)
	}
	if !withNull.ChambreID.Set || withNull.ChambreID.Value != nil {
		t.Fatalf("null must decode as set+nil, got %+v", withNull.ChambreID)
	}
	if absent.ChambreID.Set {
		t.Fatal("absent field must stay unset")
	}
}

func TestLocataireUpdateContact(t *testing.T) {
	s := newLocataireService()
	ctx := context.Background()
	loc := addLocataire(t, s, "marie", "Martin", "actif")

	resp := s.UpdateContact(ctx, loc.ID, "marie.martin@mail.fr", "06 12 34 56 78")
	if !resp.Success || resp.Data.Email != "marie.martin@mail.fr" {
		t.Fatalf("update contact failed: %+v", resp)
	}

	bad := s.UpdateContact(ctx, loc.ID, "pas-un-email", "06 12 34 56 78")
	if bad.Success || bad.Kind != KindValidation {
		t.Fatalf("expected invalid email rejection, got %+v", bad)
	}
}

func TestLocataireActifsEtInactifs(t *testing.T) {
	s := newLocataireService()
	ctx := context.Background()
	addLocataire(t, s, "jean", "Dupont", "actif")
	addLocataire(t, s, "paul", "Durand", "candidat")
	addLocataire(t, s, "luc", "Petit", "ancien")

	actifs := s.GetActifs(ctx)
	if !actifs.Success || len(actifs.Data) != 1 {
		t.Fatalf("expected 1 actif, got %d", len(actifs.Data))
	}

	inactifs := s.GetInactifs(ctx)
	if !inactifs.Success || len(inactifs.Data) != 2 {
		t.Fatalf("expected 2 inactifs, got %d", len(inactifs.Data))
	}
}

func TestLocataireStatistiques(t *testing.T) {
	s := newLocataireService()
	ctx := context.Background()
	addLocataire(t, s, "jean", "Dupont", "actif")
	addLocataire(t, s, "paul", "Durand", "candidat")

	resp := s.Statistiques(ctx)
	if !resp.Success {
		t.Fatalf("statistiques failed: %s", resp.Error)
	}
	stats := resp.Data
	if stats.Total != 2 || stats.Actifs != 1 || stats.Inactifs != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	// Both created this month
	if stats.NouveauxCeMois != 2 {
		t.Fatalf("expected 2 nouveaux ce mois, got %d", stats.NouveauxCeMois)
	}
	if stats.AgeMoyen != 30 {
		t.Fatalf("expected age moyen 30, got %v", stats.AgeMoyen)
	}
}

func TestLocataireRechercher(t *testing.T) {
	s := newLocataireService()
	ctx := context.Background()
	loc := addLocataire(t, s, "véronique", "Lefèvre", "actif")
	addLocataire(t, s, "jean", "Dupont", "actif")

	resp := s.Rechercher(ctx, "lefevre")
	if !resp.Success || len(resp.Data) != 1 || resp.Data[0].ID != loc.ID {
		t.Fatalf("expected accent-insensitive match, got %+v", resp.Data)
	}
}
