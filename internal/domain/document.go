package domain

import "time"

// Document is a file attached to a tenant (piece d'identite, fiche de
// paie, garant...). Contents are stored alongside the metadata; the
// repository decides the backing store.
type Document struct {
	ID           string    `json:"id"`
	LocataireID  string    `json:"locataire_id"`
	Nom          string    `json:"nom"`
	Type         string    `json:"type"` // identite, revenus, garant, autre
	ContentType  string    `json:"content_type"`
	TailleOctets int64     `json:"taille_octets"`
	Contenu      []byte    `json:"-"`
	DateCreation time.Time `json:"date_creation"`
}

// DocumentRepository defines data access for tenant documents.
type DocumentRepository interface {
	Create(document *Document) error
	GetByID(id string) (*Document, error)
	ListByLocataire(locataireID string) ([]*Document, error)
	Delete(id string) error
}
