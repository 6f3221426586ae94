package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/service"
)

// LocataireHandler exposes the tenant endpoints.
type LocataireHandler struct {
	locataires   *service.LocataireService
	activite     *activity.Broadcaster
	logger       *slog.Logger
	defaultLimit int
	maxLimit     int
}

// NewLocataireHandler creates a new tenant handler.
func NewLocataireHandler(locataires *service.LocataireService, activite *activity.Broadcaster, logger *slog.Logger, defaultLimit, maxLimit int) *LocataireHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocataireHandler{
		locataires:   locataires,
		activite:     activite,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List handles GET /api/locataires
func (h *LocataireHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, h.defaultLimit, h.maxLimit)
	filters := domain.LocataireFilters{
		Statut:     queryString(r, "statut"),
		Profession: queryString(r, "profession"),
		ChambreID:  queryString(r, "chambre_id"),
		AgeMin:     queryInt(r, "age_min"),
		AgeMax:     queryInt(r, "age_max"),
		Page:       page,
		Limit:      limit,
	}
	writeListEnvelope(w, h.locataires.GetAll(r.Context(), filters))
}

// Get handles GET /api/locataires/{id}
func (h *LocataireHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.locataires.GetByID(r.Context(), r.PathValue("id")), http.StatusOK)
}

// Actifs handles GET /api/locataires/actifs
func (h *LocataireHandler) Actifs(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.locataires.GetActifs(r.Context()))
}

// Inactifs handles GET /api/locataires/inactifs
func (h *LocataireHandler) Inactifs(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.locataires.GetInactifs(r.Context()))
}

// Create handles POST /api/locataires
func (h *LocataireHandler) Create(w http.ResponseWriter, r *http.Request) {
	var locataire domain.Locataire
	if !decodeJSON(w, r, &locataire) {
		return
	}

	resp := h.locataires.Create(r.Context(), &locataire)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "creation",
			Entite:   "locataire",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.NomComplet(),
		})
	}
	writeEnvelope(w, resp, http.StatusCreated)
}

// Update handles PUT /api/locataires/{id}
func (h *LocataireHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.LocatairePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	resp := h.locataires.Update(r.Context(), r.PathValue("id"), patch)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "locataire",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.NomComplet(),
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// UpdateStatut handles PATCH /api/locataires/{id}/statut
func (h *LocataireHandler) UpdateStatut(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp := h.locataires.UpdateStatut(r.Context(), r.PathValue("id"), req.Statut)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "locataire",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.NomComplet() + " -> " + resp.Data.Statut,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// UpdateContactRequest carries the new contact details.
type UpdateContactRequest struct {
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

// UpdateContact handles PATCH /api/locataires/{id}/contact
func (h *LocataireHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req UpdateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp := h.locataires.UpdateContact(r.Context(), r.PathValue("id"), req.Email, req.Telephone)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "locataire",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.NomComplet(),
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Delete handles DELETE /api/locataires/{id}
func (h *LocataireHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resp := h.locataires.Delete(r.Context(), id)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "suppression",
			Entite:   "locataire",
			EntiteID: id,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Rechercher handles GET /api/locataires/rechercher?q=
func (h *LocataireHandler) Rechercher(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.locataires.Rechercher(r.Context(), r.URL.Query().Get("q")))
}

// Statistiques handles GET /api/locataires/statistiques
func (h *LocataireHandler) Statistiques(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.locataires.Statistiques(r.Context()), http.StatusOK)
}
