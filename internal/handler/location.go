package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/service"
)

// LocationHandler exposes the rent/release saga endpoints.
type LocationHandler struct {
	location *service.LocationService
	activite *activity.Broadcaster
	logger   *slog.Logger
}

// NewLocationHandler creates a new rental handler.
func NewLocationHandler(location *service.LocationService, activite *activity.Broadcaster, logger *slog.Logger) *LocationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationHandler{location: location, activite: activite, logger: logger}
}

// LouerRequest identifies the room and tenant plus the lease terms.
type LouerRequest struct {
	ChambreID         string     `json:"chambre_id"`
	LocataireID       string     `json:"locataire_id"`
	DateDebut         time.Time  `json:"date_debut"`
	DateFin           *time.Time `json:"date_fin,omitempty"`
	LoyerMensuel      float64    `json:"loyer_mensuel"`
	ChargesMensuelles float64    `json:"charges_mensuelles"`
	DepotGarantie     float64    `json:"depot_garantie"`
	TypeBail          string     `json:"type_bail"`
}

// Louer handles POST /api/location/louer
func (h *LocationHandler) Louer(w http.ResponseWriter, r *http.Request) {
	var req LouerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ChambreID == "" || req.LocataireID == "" {
		writeJSON(w, http.StatusBadRequest, service.Response[struct{}]{
			Success: false,
			Error:   "chambre_id et locataire_id sont requis",
		})
		return
	}

	resp := h.location.Louer(r.Context(), req.ChambreID, req.LocataireID, service.BailConditions{
		DateDebut:         req.DateDebut,
		DateFin:           req.DateFin,
		LoyerMensuel:      req.LoyerMensuel,
		ChargesMensuelles: req.ChargesMensuelles,
		DepotGarantie:     req.DepotGarantie,
		TypeBail:          req.TypeBail,
	})
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "location",
			Entite:   "contrat",
			EntiteID: resp.Data.ID,
			Libelle:  "chambre " + req.ChambreID + " louee a " + req.LocataireID,
		})
	}
	writeEnvelope(w, resp, http.StatusCreated)
}

// Liberer handles POST /api/location/{contratID}/liberer
func (h *LocationHandler) Liberer(w http.ResponseWriter, r *http.Request) {
	contratID := r.PathValue("contratID")

	resp := h.location.Liberer(r.Context(), contratID)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "liberation",
			Entite:   "contrat",
			EntiteID: contratID,
			Libelle:  "chambre " + resp.Data.ChambreID + " liberee",
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}
