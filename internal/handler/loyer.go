package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/service"
)

// LoyerHandler exposes the rent charge endpoints.
type LoyerHandler struct {
	loyers       *service.LoyerService
	activite     *activity.Broadcaster
	logger       *slog.Logger
	defaultLimit int
	maxLimit     int
}

// NewLoyerHandler creates a new rent handler.
func NewLoyerHandler(loyers *service.LoyerService, activite *activity.Broadcaster, logger *slog.Logger, defaultLimit, maxLimit int) *LoyerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoyerHandler{
		loyers:       loyers,
		activite:     activite,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List handles GET /api/loyers
func (h *LoyerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, h.defaultLimit, h.maxLimit)
	filters := domain.LoyerFilters{
		ChambreID: queryString(r, "chambre_id"),
		ContratID: queryString(r, "contrat_id"),
		Statut:    queryString(r, "statut"),
		Mois:      queryInt(r, "mois"),
		Annee:     queryInt(r, "annee"),
		Page:      page,
		Limit:     limit,
	}
	writeListEnvelope(w, h.loyers.GetAll(r.Context(), filters))
}

// Get handles GET /api/loyers/{id}
func (h *LoyerHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.loyers.GetByID(r.Context(), r.PathValue("id")), http.StatusOK)
}

// EnRetard handles GET /api/loyers/en-retard
func (h *LoyerHandler) EnRetard(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.loyers.GetEnRetard(r.Context()))
}

// EnAttente handles GET /api/loyers/en-attente
func (h *LoyerHandler) EnAttente(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.loyers.GetEnAttente(r.Context()))
}

// ParContrat handles GET /api/contrats/{id}/loyers
func (h *LoyerHandler) ParContrat(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.loyers.GetByContratID(r.Context(), r.PathValue("id")))
}

// Create handles POST /api/loyers
func (h *LoyerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var loyer domain.Loyer
	if !decodeJSON(w, r, &loyer) {
		return
	}

	resp := h.loyers.Create(r.Context(), &loyer)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "creation",
			Entite:   "loyer",
			EntiteID: resp.Data.ID,
			Libelle:  "contrat " + resp.Data.ContratID,
		})
	}
	writeEnvelope(w, resp, http.StatusCreated)
}

// Update handles PUT /api/loyers/{id}
func (h *LoyerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.LoyerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	resp := h.loyers.Update(r.Context(), r.PathValue("id"), patch)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "loyer",
			EntiteID: resp.Data.ID,
			Libelle:  "contrat " + resp.Data.ContratID,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// MarquerPayeRequest carries the payment method used.
type MarquerPayeRequest struct {
	ModePaiement string `json:"mode_paiement"`
}

// MarquerPaye handles POST /api/loyers/{id}/payer
func (h *LoyerHandler) MarquerPaye(w http.ResponseWriter, r *http.Request) {
	var req MarquerPayeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp := h.loyers.MarquerPaye(r.Context(), r.PathValue("id"), req.ModePaiement)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "loyer",
			EntiteID: resp.Data.ID,
			Libelle:  "paiement contrat " + resp.Data.ContratID,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Delete handles DELETE /api/loyers/{id}
func (h *LoyerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resp := h.loyers.Delete(r.Context(), id)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "suppression",
			Entite:   "loyer",
			EntiteID: id,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Statistiques handles GET /api/loyers/statistiques
func (h *LoyerHandler) Statistiques(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.loyers.Statistiques(r.Context()), http.StatusOK)
}
