package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/propmanager/internal/domain"
)

// ReferentielsHandler returns the enumerations the clients need to build
// their forms: types, statuses and payment methods.
type ReferentielsHandler struct {
	log *slog.Logger
}

// NewReferentielsHandler creates a new referentiels handler.
func NewReferentielsHandler(log *slog.Logger) *ReferentielsHandler {
	return &ReferentielsHandler{log: log}
}

// ServeHTTP handles GET /api/referentiels
func (h *ReferentielsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	referentiels := map[string][]string{
		"types_bien":        domain.BienTypes,
		"statuts_bien":      domain.BienStatuts,
		"types_chambre":     domain.ChambreTypes,
		"statuts_chambre":   domain.ChambreStatuts,
		"statuts_locataire": domain.LocataireStatuts,
		"types_bail":        domain.TypesBail,
		"statuts_contrat":   domain.ContratStatuts,
		"statuts_loyer":     domain.LoyerStatuts,
		"modes_paiement":    domain.ModesPaiement,
	}

	writeJSON(w, http.StatusOK, map[string]any{"referentiels": referentiels})
}
