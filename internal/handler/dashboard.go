package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/propmanager/internal/service"
)

// DashboardHandler exposes the cross-entity aggregate endpoints.
type DashboardHandler struct {
	manager *service.PropManagerService
	logger  *slog.Logger
}

// NewDashboardHandler creates a new aggregation handler.
func NewDashboardHandler(manager *service.PropManagerService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{manager: manager, logger: logger}
}

// Dashboard handles GET /api/dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.manager.GetDashboard(r.Context()), http.StatusOK)
}

// Recherche handles GET /api/recherche?q=
func (h *DashboardHandler) Recherche(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.manager.RechercheGlobale(r.Context(), r.URL.Query().Get("q")), http.StatusOK)
}

// Synchroniser handles POST /api/synchroniser
func (h *DashboardHandler) Synchroniser(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.manager.SynchroniserDonnees(r.Context()), http.StatusOK)
}

// Connectivite handles GET /api/connectivite
func (h *DashboardHandler) Connectivite(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, h.manager.VerifierConnectivite(r.Context()), http.StatusOK)
}

// Rapport handles GET /api/rapport?debut=&fin= with dates in YYYY-MM-DD.
func (h *DashboardHandler) Rapport(w http.ResponseWriter, r *http.Request) {
	debut, err := time.Parse("2006-01-02", r.URL.Query().Get("debut"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, service.Response[struct{}]{
			Success: false,
			Error:   "parametre debut invalide, format attendu YYYY-MM-DD",
		})
		return
	}
	fin, err := time.Parse("2006-01-02", r.URL.Query().Get("fin"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, service.Response[struct{}]{
			Success: false,
			Error:   "parametre fin invalide, format attendu YYYY-MM-DD",
		})
		return
	}

	writeEnvelope(w, h.manager.RapportActivite(r.Context(), debut, fin), http.StatusOK)
}
