package validation

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/yourorg/propmanager/internal/domain"
)

// Result is the outcome of an entity-level validation. A record is valid
// iff the error list is empty. Validation is advisory: callers decide
// whether to block the operation.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func newResult(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// French mobile/landline, tolerant of internal separators and the
	// +33 / 0033 international prefixes.
	phoneFRRe = regexp.MustCompile(`^(?:(?:\+|00)33|0)\s*[1-9](?:[\s.-]*\d{2}){4}$`)
)

// IsValidEmail reports whether s matches a conventional local@domain.tld
// pattern.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidPhoneFR reports whether s is a plausible French phone number.
// Internal whitespace is ignored.
func IsValidPhoneFR(s string) bool {
	return phoneFRRe.MatchString(strings.ReplaceAll(s, " ", ""))
}

// IsValidAmount reports whether n is a finite, non-negative amount.
func IsValidAmount(n float64) bool {
	return n >= 0 && !math.IsInf(n, 0) && !math.IsNaN(n)
}

// IsValidSurface reports whether n is a finite, strictly positive surface.
func IsValidSurface(n float64) bool {
	return n > 0 && !math.IsInf(n, 0) && !math.IsNaN(n)
}

// IsValidAge reports whether n is an acceptable tenant age.
func IsValidAge(n int) bool {
	return n >= 16 && n <= 120
}

// ValidateBien checks a property record before creation.
func ValidateBien(b *domain.Bien) Result {
	var errs []string
	if strings.TrimSpace(b.Nom) == "" {
		errs = append(errs, "le nom du bien est requis")
	}
	if strings.TrimSpace(b.Adresse) == "" {
		errs = append(errs, "l'adresse est requise")
	}
	if !slices.Contains(domain.BienTypes, b.Type) {
		errs = append(errs, "type de bien invalide")
	}
	if b.Statut != "" && !slices.Contains(domain.BienStatuts, b.Statut) {
		errs = append(errs, "statut de bien invalide")
	}
	if !IsValidSurface(b.Surface) {
		errs = append(errs, "la surface doit etre superieure a 0")
	}
	if b.NbPieces < 0 {
		errs = append(errs, "le nombre de pieces ne peut pas etre negatif")
	}
	return newResult(errs)
}

// ValidateChambre checks a room record before creation.
func ValidateChambre(c *domain.Chambre) Result {
	var errs []string
	if strings.TrimSpace(c.Nom) == "" {
		errs = append(errs, "le nom de la chambre est requis")
	}
	if c.BienID == "" {
		errs = append(errs, "le bien de rattachement est requis")
	}
	if !IsValidSurface(c.Surface) {
		errs = append(errs, "la surface doit etre superieure a 0")
	}
	if !IsValidAmount(c.LoyerMensuel) {
		errs = append(errs, "le loyer mensuel ne peut pas etre negatif")
	}
	if !IsValidAmount(c.ChargesMensuelles) {
		errs = append(errs, "les charges mensuelles ne peuvent pas etre negatives")
	}
	if !slices.Contains(domain.ChambreTypes, c.TypeChambre) {
		errs = append(errs, "type de chambre invalide")
	}
	if c.Statut != "" && !slices.Contains(domain.ChambreStatuts, c.Statut) {
		errs = append(errs, "statut de chambre invalide")
	}
	return newResult(errs)
}

// ValidateLocataire checks a tenant record before creation.
func ValidateLocataire(l *domain.Locataire) Result {
	var errs []string
	if strings.TrimSpace(l.Nom) == "" {
		errs = append(errs, "le nom est requis")
	}
	if strings.TrimSpace(l.Prenom) == "" {
		errs = append(errs, "le prenom est requis")
	}
	if l.Email != "" && !IsValidEmail(l.Email) {
		errs = append(errs, "l'email n'est pas valide")
	}
	if l.Telephone != "" && !IsValidPhoneFR(l.Telephone) {
		errs = append(errs, "le telephone n'est pas valide")
	}
	if l.Age != 0 && !IsValidAge(l.Age) {
		errs = append(errs, "l'age doit etre compris entre 16 et 120 ans")
	}
	if l.Statut != "" && !slices.Contains(domain.LocataireStatuts, l.Statut) {
		errs = append(errs, "statut de locataire invalide")
	}
	for _, co := range l.CoOccupants {
		if strings.TrimSpace(co.Nom) == "" {
			errs = append(errs, "chaque co-occupant doit avoir un nom")
			break
		}
	}
	return newResult(errs)
}

// ValidateContrat checks a lease record before creation.
func ValidateContrat(c *domain.ContratBail) Result {
	var errs []string
	if c.ChambreID == "" {
		errs = append(errs, "la chambre est requise")
	}
	if c.LocataireID == "" {
		errs = append(errs, "le locataire est requis")
	}
	if c.DateDebut.IsZero() {
		errs = append(errs, "la date de debut est requise")
	}
	if c.DateFin != nil && c.DateFin.Before(c.DateDebut) {
		errs = append(errs, "la date de fin doit etre posterieure a la date de debut")
	}
	if !IsValidAmount(c.LoyerMensuel) {
		errs = append(errs, "le loyer mensuel ne peut pas etre negatif")
	}
	if !IsValidAmount(c.ChargesMensuelles) {
		errs = append(errs, "les charges mensuelles ne peuvent pas etre negatives")
	}
	if !IsValidAmount(c.DepotGarantie) {
		errs = append(errs, "le depot de garantie ne peut pas etre negatif")
	}
	if c.TypeBail != "" && !slices.Contains(domain.TypesBail, c.TypeBail) {
		errs = append(errs, "type de bail invalide")
	}
	if c.Statut != "" && !slices.Contains(domain.ContratStatuts, c.Statut) {
		errs = append(errs, "statut de contrat invalide")
	}
	return newResult(errs)
}

// ValidateLoyer checks a rent charge before creation. MontantTotal must
// equal the sum of its components.
func ValidateLoyer(l *domain.Loyer) Result {
	var errs []string
	if l.ChambreID == "" {
		errs = append(errs, "la chambre est requise")
	}
	if l.ContratID == "" {
		errs = append(errs, "le contrat est requis")
	}
	if l.Mois < 1 || l.Mois > 12 {
		errs = append(errs, "le mois doit etre compris entre 1 et 12")
	}
	if !IsValidAmount(l.MontantLoyer) {
		errs = append(errs, "le montant du loyer ne peut pas etre negatif")
	}
	if !IsValidAmount(l.MontantCharges) {
		errs = append(errs, "le montant des charges ne peut pas etre negatif")
	}
	if l.MontantTotal != l.MontantLoyer+l.MontantCharges {
		errs = append(errs, "le montant total doit etre egal au loyer plus les charges")
	}
	if l.Statut != "" && !slices.Contains(domain.LoyerStatuts, l.Statut) {
		errs = append(errs, "statut de loyer invalide")
	}
	if l.DatePaiement != nil && l.Statut != "paye" && l.Statut != "partiel" {
		errs = append(errs, "une date de paiement implique un statut paye ou partiel")
	}
	if l.ModePaiement != "" && !slices.Contains(domain.ModesPaiement, l.ModePaiement) {
		errs = append(errs, "mode de paiement invalide")
	}
	return newResult(errs)
}
