package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/service"
)

// maxUploadMemory bounds how much of a multipart upload stays in memory.
const maxUploadMemory = 10 << 20

// DocumentHandler exposes the tenant document endpoints. Uploads are
// multipart forms with a "fichier" file part and a "type" field.
type DocumentHandler struct {
	documents *service.DocumentService
	activite  *activity.Broadcaster
	logger    *slog.Logger
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(documents *service.DocumentService, activite *activity.Broadcaster, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentHandler{documents: documents, activite: activite, logger: logger}
}

// ListParLocataire handles GET /api/locataires/{id}/documents
func (h *DocumentHandler) ListParLocataire(w http.ResponseWriter, r *http.Request) {
	writeListEnvelope(w, h.documents.ListByLocataire(r.Context(), r.PathValue("id")))
}

// Upload handles POST /api/locataires/{id}/documents
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	locataireID := r.PathValue("id")

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, service.Response[struct{}]{
			Success: false,
			Error:   "formulaire multipart invalide",
		})
		return
	}

	file, header, err := r.FormFile("fichier")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, service.Response[struct{}]{
			Success: false,
			Error:   "champ fichier manquant",
		})
		return
	}
	defer file.Close()

	contenu, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded file", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, service.Response[struct{}]{
			Success: false,
			Error:   "lecture du fichier impossible",
		})
		return
	}

	document := &domain.Document{
		LocataireID: locataireID,
		Nom:         header.Filename,
		Type:        r.FormValue("type"),
		ContentType: header.Header.Get("Content-Type"),
		Contenu:     contenu,
	}

	resp := h.documents.Upload(r.Context(), document)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "creation",
			Entite:   "document",
			EntiteID: resp.Data.ID,
			Libelle:  resp.Data.Nom,
		})
	}
	writeEnvelope(w, resp, http.StatusCreated)
}

// Download handles GET /api/documents/{id} and streams the stored bytes.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	resp := h.documents.Get(r.Context(), r.PathValue("id"))
	if !resp.Success {
		writeEnvelope(w, resp, http.StatusOK)
		return
	}

	document := resp.Data
	contentType := document.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+document.Nom+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(document.Contenu)
}

// Delete handles DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resp := h.documents.Delete(r.Context(), id)
	if resp.Success {
		h.activite.Publish(activity.Event{
			Action:   "suppression",
			Entite:   "document",
			EntiteID: id,
		})
	}
	writeEnvelope(w, resp, http.StatusOK)
}
