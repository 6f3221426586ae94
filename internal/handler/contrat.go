package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/service"
)

// ContratHandler exposes the lease endpoints.
type ContratHandler struct {
	contrats     *service.ContratService
	activite     *activity.Broadcaster
	logger       *slog.Logger
	defaultLimit int
	maxLimit     int
}

// NewContratHandler creates a new lease handler.
func NewContratHandler(contrats *service.ContratService, activite *activity.Broadcaster, logger *slog.Logger, defaultLimit, maxLimit int) *ContratHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContratHandler{
		contrats:     contrats,
		activite:     activite,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List handles GET /api/contrats
func (h *ContratHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, h.defaultLimit, h.maxLimit)
	filters := domain.ContratFilters{
		ChambreID:   queryString(r, "chambre_id"),
		LocataireID: queryString(r, "locataire_id"),
		Statut:      queryString(r, "statut"),
		Page:        page,
		Limit:       limit,
	}
	writeListEnvelope(w, h.contrats.GetAll(r.Context(), filters))
}

// Get handles GET /api/contrats/{id}
func (h *ContratHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.contrats.GetByID(r.Context(), r.PathValue("id")), http.StatusOK)
}

// Actifs handles GET /api/contrats/actifs
func (h *ContratHandler) Actifs(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.contrats.GetActifs(r.Context()))
}

// ParChambre handles GET /api/chambres/{id}/contrats
func (h *ContratHandler) ParChambre(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.contrats.GetByChambreID(r.Context(), r.PathValue("id")))
}

// Create handles POST /api/contrats
func (h *ContratHandler) Create(w http.ResponseWriter, r *http.Request) {
	var contrat domain.ContratBail
	if !decodeJSON(w, r, &contrat) {
		return
	}

	resp := h.contrats.Create(r.Context(), &contrat)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "creation",
			Entite:   "contrat",
			EntiteID: resp.Data.ID,
			Libelle:  "chambre " + resp.Data.ChambreID,
		})
	}
	writeEnvelope(w, resp, http.StatusCreated)
}

// Update handles PUT /api/contrats/{id}
func (h *ContratHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.ContratPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	resp := h.contrats.Update(r.Context(), r.PathValue("id"), patch)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "contrat",
			EntiteID: resp.Data.ID,
			Libelle:  "chambre " + resp.Data.ChambreID,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Delete handles DELETE /api/contrats/{id}
func (h *ContratHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resp := h.contrats.Delete(r.Context(), id)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "suppression",
			Entite:   "contrat",
			EntiteID: id,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Statistiques handles GET /api/contrats/statistiques
func (h *ContratHandler) Statistiques(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.contrats.Statistiques(r.Context()), http.StatusOK)
}
