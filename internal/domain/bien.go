package domain

import (
	"context"
	"time"
)

// Bien represents a managed property (house, apartment, office...)
type Bien struct {
	ID               string    `json:"id"`
	Nom              string    `json:"nom"`
	Adresse          string    `json:"adresse"`
	Type             string    `json:"type"` // maison, appartement, studio, bureau, local_commercial, autre
	Surface          float64   `json:"surface"`
	NbPieces         int       `json:"nb_pieces"`
	Description      string    `json:"description,omitempty"`
	Statut           string    `json:"statut"` // libre, loue, travaux, vente
	DateCreation     time.Time `json:"date_creation"`
	DateModification time.Time `json:"date_modification"`
}

// Bien type and status enumerations. The store accepts only these values.
var (
	BienTypes   = []string{"maison", "appartement", "studio", "bureau", "local_commercial", "autre"}
	BienStatuts = []string{"libre", "loue", "travaux", "vente"}
)

// BienFilters is a sparse set of equality/range constraints for listing.
// Nil fields impose no constraint.
type BienFilters struct {
	Type       *string
	Statut     *string
	Ville      *string
	SurfaceMin *float64
	SurfaceMax *float64
	Page       int
	Limit      int
}

// BienPatch carries a partial update. Present fields overwrite, absent
// fields are left untouched.
type BienPatch struct {
	Nom         *string  `json:"nom,omitempty"`
	Adresse     *string  `json:"adresse,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Surface     *float64 `json:"surface,omitempty"`
	NbPieces    *int     `json:"nb_pieces,omitempty"`
	Description *string  `json:"description,omitempty"`
	Statut      *string  `json:"statut,omitempty"`
}

// BienRepository defines data access for biens. Create assigns the ID and
// both timestamps; Update refreshes date_modification.
type BienRepository interface {
	List(ctx context.Context, filters BienFilters) ([]*Bien, int, error)
	GetByID(ctx context.Context, id string) (*Bien, error)
	Create(ctx context.Context, bien *Bien) error
	Update(ctx context.Context, bien *Bien) error
	Delete(ctx context.Context, id string) error
}
