package domain

import (
	"context"
	"time"
)

// Loyer represents a single month's rent charge and its payment status.
// MontantTotal must equal MontantLoyer + MontantCharges; the services
// reject records violating that at creation.
type Loyer struct {
	ID               string     `json:"id"`
	ChambreID        string     `json:"chambre_id"`
	ContratID        string     `json:"contrat_id"`
	Mois             int        `json:"mois"` // 1..12
	Annee            int        `json:"annee"`
	MontantLoyer     float64    `json:"montant_loyer"`
	MontantCharges   float64    `json:"montant_charges"`
	MontantTotal     float64    `json:"montant_total"`
	DateEcheance     time.Time  `json:"date_echeance"`
	DatePaiement     *time.Time `json:"date_paiement,omitempty"`
	ModePaiement     string     `json:"mode_paiement,omitempty"` // virement, cheque, especes, carte
	Statut           string     `json:"statut"`                  // en_attente, paye, en_retard, partiel, annule
	MontantPaye      *float64   `json:"montant_paye,omitempty"`
	Commentaire      string     `json:"commentaire,omitempty"`
	DateCreation     time.Time  `json:"date_creation"`
	DateModification time.Time  `json:"date_modification"`
}

var (
	LoyerStatuts  = []string{"en_attente", "paye", "en_retard", "partiel", "annule"}
	ModesPaiement = []string{"virement", "cheque", "especes", "carte"}
)

// LoyerFilters is a sparse set of constraints for listing rent charges.
type LoyerFilters struct {
	ChambreID *string
	ContratID *string
	Statut    *string
	Mois      *int
	Annee     *int
	Page      int
	Limit     int
}

// LoyerPatch carries a partial update. DatePaiement uses Optional so an
// explicit null reverts a payment entry.
type LoyerPatch struct {
	MontantLoyer   *float64            `json:"montant_loyer,omitempty"`
	MontantCharges *float64            `json:"montant_charges,omitempty"`
	DateEcheance   *time.Time          `json:"date_echeance,omitempty"`
	DatePaiement   Optional[time.Time] `json:"date_paiement,omitzero"`
	ModePaiement   *string             `json:"mode_paiement,omitempty"`
	Statut         *string             `json:"statut,omitempty"`
	MontantPaye    *float64            `json:"montant_paye,omitempty"`
	Commentaire    *string             `json:"commentaire,omitempty"`
}

// LoyerRepository defines data access for loyers.
type LoyerRepository interface {
	List(ctx context.Context, filters LoyerFilters) ([]*Loyer, int, error)
	GetByID(ctx context.Context, id string) (*Loyer, error)
	Create(ctx context.Context, loyer *Loyer) error
	Update(ctx context.Context, loyer *Loyer) error
	Delete(ctx context.Context, id string) error
}
