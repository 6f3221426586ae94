package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/service"
)

// ChambreHandler exposes the room endpoints, including the status and
// rent sub-resources.
type ChambreHandler struct {
	chambres     *service.ChambreService
	activite     *activity.Broadcaster
	logger       *slog.Logger
	defaultLimit int
	maxLimit     int
}

// NewChambreHandler creates a new room handler.
func NewChambreHandler(chambres *service.ChambreService, activite *activity.Broadcaster, logger *slog.Logger, defaultLimit, maxLimit int) *ChambreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChambreHandler{
		chambres:     chambres,
		activite:     activite,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List handles GET /api/chambres
func (h *ChambreHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, h.defaultLimit, h.maxLimit)
	filters := domain.ChambreFilters{
		BienID:      queryString(r, "bien_id"),
		Statut:      queryString(r, "statut"),
		TypeChambre: queryString(r, "type_chambre"),
		SurfaceMin:  queryFloat(r, "surface_min"),
		SurfaceMax:  queryFloat(r, "surface_max"),
		LoyerMin:    queryFloat(r, "loyer_min"),
		LoyerMax:    queryFloat(r, "loyer_max"),
		Page:        page,
		Limit:       limit,
	}
	writeListEnvelope(w, h.chambres.GetAll(r.Context(), filters))
}

// Get handles GET /api/chambres/{id}
func (h *ChambreHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.chambres.GetByID(r.Context(), r.PathValue("id")), http.StatusOK)
}

// ParBien handles GET /api/biens/{id}/chambres
func (h *ChambreHandler) ParBien(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.chambres.GetByBienID(r.Context(), r.PathValue("id")))
}

// Libres handles GET /api/chambres/libres
func (h *ChambreHandler) Libres(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.chambres.GetChambresLibres(r.Context(), queryString(r, "bien_id")))
}

// Louees handles GET /api/chambres/louees
func (h *ChambreHandler) Louees(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.chambres.GetChambresLouees(r.Context(), queryString(r, "bien_id")))
}

// Create handles POST /api/chambres
func (h *ChambreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var chambre domain.Chambre
	if !decodeJSON(w, r, &chambre) {
		return
	}

	resp := h.chambres.Create(r.Context(), &chambre)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "creation",
			Entite:   "chambre",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.Nom,
		})
	}
	writeEnvelope(w, resp, http.StatusCreated)
}

// Update handles PUT /api/chambres/{id}
func (h *ChambreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.ChambrePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	resp := h.chambres.Update(r.Context(), r.PathValue("id"), patch)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "chambre",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.Nom,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// UpdateStatutRequest carries the new room status.
type UpdateStatutRequest struct {
	Statut string `json:"statut"`
}

// UpdateStatut handles PATCH /api/chambres/{id}/statut
func (h *ChambreHandler) UpdateStatut(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp := h.chambres.UpdateStatut(r.Context(), r.PathValue("id"), req.Statut)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "chambre",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.Nom + " -> " + resp.Data.Statut,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// UpdateLoyerRequest carries the new rent and charges amounts.
type UpdateLoyerRequest struct {
	LoyerMensuel      float64 `json:"loyer_mensuel"`
	ChargesMensuelles float64 `json:"charges_mensuelles"`
}

// UpdateLoyer handles PATCH /api/chambres/{id}/loyer
func (h *ChambreHandler) UpdateLoyer(w http.ResponseWriter, r *http.Request) {
	var req UpdateLoyerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp := h.chambres.UpdateLoyer(r.Context(), r.PathValue("id"), req.LoyerMensuel, req.ChargesMensuelles)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "chambre",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.Nom,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Delete handles DELETE /api/chambres/{id}
func (h *ChambreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resp := h.chambres.Delete(r.Context(), id)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "suppression",
			Entite:   "chambre",
			EntiteID: id,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Statistiques handles GET /api/chambres/statistiques
func (h *ChambreHandler) Statistiques(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.chambres.Statistiques(r.Context()), http.StatusOK)
}
