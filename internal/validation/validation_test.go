package validation

import (
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"jean@example.com", "marie.dupont@mail.fr", "a@b.co"}
	invalid := []string{"", "jean", "jean@", "@example.com", "jean @example.com"}

	for _, s := range valid {
		if !IsValidEmail(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if IsValidEmail(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestIsValidPhoneFR(t *testing.T) {
	valid := []string{"0612345678", "06 12 34 56 78", "+33612345678", "01.23.45.67.89"}
	invalid := []string{"", "12345", "0012345678", "061234567", "abcdefghij"}

	for _, s := range valid {
		if !IsValidPhoneFR(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if IsValidPhoneFR(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestValidateBien(t *testing.T) {
	bien := &domain.Bien{
		Nom:      "Maison Centre",
		Adresse:  "12 rue de la Paix, Lyon",
		Type:     "maison",
		Surface:  120,
		NbPieces: 5,
	}
	if res := ValidateBien(bien); !res.Valid {
		t.Fatalf("expected valid bien, got errors: %v", res.Errors)
	}

	bad := &domain.Bien{Nom: "", Adresse: "", Type: "chateau", Surface: -3}
	res := ValidateBien(bad)
	if res.Valid {
		t.Fatal("expected invalid bien")
	}
	if len(res.Errors) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(res.Errors), res.Errors)
	}
}

func TestValidateChambreRequiresBien(t *testing.T) {
	chambre := &domain.Chambre{
		Nom:          "Chambre 1",
		Surface:      12,
		LoyerMensuel: 450,
		TypeChambre:  "privee",
	}
	res := ValidateChambre(chambre)
	if res.Valid {
		t.Fatal("expected missing bien_id to fail validation")
	}

	chambre.BienID = "bien-1"
	if res := ValidateChambre(chambre); !res.Valid {
		t.Fatalf("expected valid chambre, got errors: %v", res.Errors)
	}
}

func TestValidateLocataireOptionalFields(t *testing.T) {
	// Age 0, empty email and phone are accepted for candidates
	l := &domain.Locataire{Prenom: "Jean", Nom: "Dupont"}
	if res := ValidateLocataire(l); !res.Valid {
		t.Fatalf("expected valid candidate, got errors: %v", res.Errors)
	}

	l.Email = "not-an-email"
	l.Age = 12
	res := ValidateLocataire(l)
	if res.Valid || len(res.Errors) != 2 {
		t.Fatalf("expected email and age errors, got %v", res.Errors)
	}
}

func TestValidateContratDates(t *testing.T) {
	debut := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	finAvant := debut.AddDate(0, -1, 0)

	c := &domain.ContratBail{
		ChambreID:    "ch-1",
		LocataireID:  "loc-1",
		DateDebut:    debut,
		DateFin:      &finAvant,
		LoyerMensuel: 500,
	}
	if res := ValidateContrat(c); res.Valid {
		t.Fatal("expected end-before-start to fail validation")
	}

	c.DateFin = nil
	if res := ValidateContrat(c); !res.Valid {
		t.Fatalf("expected open-ended lease to be valid, got %v", res.Errors)
	}
}

func TestValidateLoyerTotalRule(t *testing.T) {
	l := &domain.Loyer{
		ChambreID:      "ch-1",
		ContratID:      "con-1",
		Mois:           3,
		Annee:          2026,
		MontantLoyer:   500,
		MontantCharges: 60,
		MontantTotal:   550,
	}
	if res := ValidateLoyer(l); res.Valid {
		t.Fatal("expected mismatched total to fail validation")
	}

	l.MontantTotal = 560
	if res := ValidateLoyer(l); !res.Valid {
		t.Fatalf("expected valid loyer, got %v", res.Errors)
	}
}

func TestValidateLoyerPaymentDateImpliesStatus(t *testing.T) {
	now := time.Now()
	l := &domain.Loyer{
		ChambreID:      "ch-1",
		ContratID:      "con-1",
		Mois:           3,
		Annee:          2026,
		MontantLoyer:   500,
		MontantCharges: 60,
		MontantTotal:   560,
		DatePaiement:   &now,
		Statut:         "en_attente",
	}
	if res := ValidateLoyer(l); res.Valid {
		t.Fatal("expected payment date with statut en_attente to fail")
	}

	l.Statut = "paye"
	if res := ValidateLoyer(l); !res.Valid {
		t.Fatalf("expected valid paid loyer, got %v", res.Errors)
	}
}
