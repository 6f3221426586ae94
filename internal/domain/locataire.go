package domain

import (
	"context"
	"time"
)

// CoOccupant is a person living with the principal tenant without being
// the lease's primary signer.
type CoOccupant struct {
	Nom        string `json:"nom"`
	Sexe       string `json:"sexe"` // homme, femme, autre
	Age        int    `json:"age"`
	Telephone  string `json:"telephone,omitempty"`
	Profession string `json:"profession,omitempty"`
}

// Locataire represents a tenant, either a principal renter or a candidate.
// ChambreID is nil while the tenant has no assigned room.
type Locataire struct {
	ID               string       `json:"id"`
	Prenom           string       `json:"prenom"`
	Nom              string       `json:"nom"`
	Email            string       `json:"email"`
	Telephone        string       `json:"telephone"`
	Age              int          `json:"age"`
	Profession       string       `json:"profession"`
	SeraSeul         bool         `json:"sera_seul"`
	ChambreID        *string      `json:"chambre_id,omitempty"`
	Statut           string       `json:"statut"` // actif, candidat, ancien, suspendu
	CoOccupants      []CoOccupant `json:"co_occupants"`
	DateCreation     time.Time    `json:"date_creation"`
	DateModification time.Time    `json:"date_modification"`
}

var LocataireStatuts = []string{"actif", "candidat", "ancien", "suspendu"}

// NomComplet returns "Prenom Nom".
func (l *Locataire) NomComplet() string {
	return l.Prenom + " " + l.Nom
}

// LocataireFilters is a sparse set of constraints for listing tenants.
type LocataireFilters struct {
	Statut     *string
	Profession *string
	ChambreID  *string
	AgeMin     *int
	AgeMax     *int
	Page       int
	Limit      int
}

// LocatairePatch carries a partial update of a tenant. ChambreID uses
// Optional so an explicit JSON null detaches the tenant from its room.
type LocatairePatch struct {
	Prenom      *string          `json:"prenom,omitempty"`
	Nom         *string          `json:"nom,omitempty"`
	Email       *string          `json:"email,omitempty"`
	Telephone   *string          `json:"telephone,omitempty"`
	Age         *int             `json:"age,omitempty"`
	Profession  *string          `json:"profession,omitempty"`
	SeraSeul    *bool            `json:"sera_seul,omitempty"`
	ChambreID   Optional[string] `json:"chambre_id,omitzero"`
	Statut      *string          `json:"statut,omitempty"`
	CoOccupants *[]CoOccupant    `json:"co_occupants,omitempty"`
}

// LocataireRepository defines data access for locataires.
type LocataireRepository interface {
	List(ctx context.Context, filters LocataireFilters) ([]*Locataire, int, error)
	GetByID(ctx context.Context, id string) (*Locataire, error)
	Create(ctx context.Context, locataire *Locataire) error
	Update(ctx context.Context, locataire *Locataire) error
	Delete(ctx context.Context, id string) error
}
