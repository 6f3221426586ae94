package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/service"
)

// BienHandler exposes the property CRUD and search endpoints.
type BienHandler struct {
	biens        *service.BienService
	activite     *activity.Broadcaster
	logger       *slog.Logger
	defaultLimit int
	maxLimit     int
}

// NewBienHandler creates a new property handler.
func NewBienHandler(biens *service.BienService, activite *activity.Broadcaster, logger *slog.Logger, defaultLimit, maxLimit int) *BienHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BienHandler{
		biens:        biens,
		activite:     activite,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List handles GET /api/biens
func (h *BienHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, h.defaultLimit, h.maxLimit)
	filters := domain.BienFilters{
		Type:       queryString(r, "type"),
		Statut:     queryString(r, "statut"),
		Ville:      queryString(r, "ville"),
		SurfaceMin: queryFloat(r, "surface_min"),
		SurfaceMax: queryFloat(r, "surface_max"),
		Page:       page,
		Limit:      limit,
	}
	writeListEnvelope(w, h.biens.GetAll(r.Context(), filters))
}

// Get handles GET /api/biens/{id}
func (h *BienHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.biens.GetByID(r.Context(), r.PathValue("id")), http.StatusOK)
}

// Create handles POST /api/biens
func (h *BienHandler) Create(w http.ResponseWriter, r *http.Request) {
	var bien domain.Bien
	if !decodeJSON(w, r, &bien) {
		return
	}

	resp := h.biens.Create(r.Context(), &bien)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "creation",
			Entite:   "bien",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.Nom,
		})
	}
	writeEnvelope(w, resp, http.StatusCreated)
}

// Update handles PUT /api/biens/{id}
func (h *BienHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.BienPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	resp := h.biens.Update(r.Context(), r.PathValue("id"), patch)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "modification",
			Entite:   "bien",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.Nom,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Delete handles DELETE /api/biens/{id}
func (h *BienHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resp := h.biens.Delete(r.Context(), id)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "suppression",
			Entite:   "bien",
			EntiteID: id,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}

// Rechercher handles GET /api/biens/rechercher?q=
func (h *BienHandler) Rechercher(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.biens.Rechercher(r.Context(), r.URL.Query().Get("q")))
}

// Statistiques handles GET /api/biens/statistiques
func (h *BienHandler) Statistiques(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.biens.Statistiques(r.Context()), http.StatusOK)
}
