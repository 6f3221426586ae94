package domain

import (
	"context"
	"time"
)

// Chambre represents a rentable room within a Bien.
type Chambre struct {
	ID                 string    `json:"id"`
	BienID             string    `json:"bien_id"`
	Nom                string    `json:"nom"`
	Surface            float64   `json:"surface"`
	LoyerMensuel       float64   `json:"loyer_mensuel"`
	ChargesMensuelles  float64   `json:"charges_mensuelles"`
	TypeChambre        string    `json:"type_chambre"` // privee, partagee, studio, suite
	Statut             string    `json:"statut"`       // libre, louee, travaux, reserve
	Description        string    `json:"description,omitempty"`
	Equipements        []string  `json:"equipements,omitempty"`
	DateCreation       time.Time `json:"date_creation"`
	DateModification   time.Time `json:"date_modification"`
}

var (
	ChambreTypes   = []string{"privee", "partagee", "studio", "suite"}
	ChambreStatuts = []string{"libre", "louee", "travaux", "reserve"}
)

// LoyerTotal returns the monthly rent including charges.
func (c *Chambre) LoyerTotal() float64 {
	return c.LoyerMensuel + c.ChargesMensuelles
}

// ChambreFilters is a sparse set of constraints for listing rooms.
type ChambreFilters struct {
	BienID      *string
	Statut      *string
	TypeChambre *string
	SurfaceMin  *float64
	SurfaceMax  *float64
	LoyerMin    *float64
	LoyerMax    *float64
	Page        int
	Limit       int
}

// ChambrePatch carries a partial update of a room.
type ChambrePatch struct {
	Nom               *string   `json:"nom,omitempty"`
	Surface           *float64  `json:"surface,omitempty"`
	LoyerMensuel      *float64  `json:"loyer_mensuel,omitempty"`
	ChargesMensuelles *float64  `json:"charges_mensuelles,omitempty"`
	TypeChambre       *string   `json:"type_chambre,omitempty"`
	Statut            *string   `json:"statut,omitempty"`
	Description       *string   `json:"description,omitempty"`
	Equipements       *[]string `json:"equipements,omitempty"`
}

// ChambreRepository defines data access for chambres.
type ChambreRepository interface {
	List(ctx context.Context, filters ChambreFilters) ([]*Chambre, int, error)
	GetByID(ctx context.Context, id string) (*Chambre, error)
	Create(ctx context.Context, chambre *Chambre) error
	Update(ctx context.Context, chambre *Chambre) error
	Delete(ctx context.Context, id string) error
}
