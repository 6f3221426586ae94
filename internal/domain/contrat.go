package domain

import (
	"context"
	"time"
)

// ContratBail binds one Chambre to one Locataire for a period. At most one
// contract with statut=actif may reference a given chambre at any time; the
// repositories enforce this at creation.
type ContratBail struct {
	ID                 string     `json:"id"`
	ChambreID          string     `json:"chambre_id"`
	LocataireID        string     `json:"locataire_id"`
	DateDebut          time.Time  `json:"date_debut"`
	DateFin            *time.Time `json:"date_fin,omitempty"`
	LoyerMensuel       float64    `json:"loyer_mensuel"`
	ChargesMensuelles  float64    `json:"charges_mensuelles"`
	DepotGarantie      float64    `json:"depot_garantie"`
	TypeBail           string     `json:"type_bail"` // meuble, non_meuble, mixte
	Statut             string     `json:"statut"`    // actif, expire, resilie, suspendu
	ClausesSpecifiques []string   `json:"clauses_specifiques,omitempty"`
	DateCreation       time.Time  `json:"date_creation"`
	DateModification   time.Time  `json:"date_modification"`
}

var (
	TypesBail      = []string{"meuble", "non_meuble", "mixte"}
	ContratStatuts = []string{"actif", "expire", "resilie", "suspendu"}
)

// ContratFilters is a sparse set of constraints for listing leases.
type ContratFilters struct {
	ChambreID   *string
	LocataireID *string
	Statut      *string
	Page        int
	Limit       int
}

// ContratPatch carries a partial update. DateFin uses Optional so an
// explicit null reopens a lease without an end date.
type ContratPatch struct {
	DateDebut          *time.Time          `json:"date_debut,omitempty"`
	DateFin            Optional[time.Time] `json:"date_fin,omitzero"`
	LoyerMensuel       *float64            `json:"loyer_mensuel,omitempty"`
	ChargesMensuelles  *float64            `json:"charges_mensuelles,omitempty"`
	DepotGarantie      *float64            `json:"depot_garantie,omitempty"`
	TypeBail           *string             `json:"type_bail,omitempty"`
	Statut             *string             `json:"statut,omitempty"`
	ClausesSpecifiques *[]string           `json:"clauses_specifiques,omitempty"`
}

// ContratRepository defines data access for contrats de bail.
type ContratRepository interface {
	List(ctx context.Context, filters ContratFilters) ([]*ContratBail, int, error)
	GetByID(ctx context.Context, id string) (*ContratBail, error)
	Create(ctx context.Context, contrat *ContratBail) error
	Update(ctx context.Context, contrat *ContratBail) error
	Delete(ctx context.Context, id string) error
}
