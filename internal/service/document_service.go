package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
)

// DocumentTypes are the accepted attachment categories.
var DocumentTypes = []string{"identite", "revenus", "garant", "autre"}

const maxDocumentSize = 10 << 20 // 10 MiB

// DocumentService manages tenant file attachments.
type DocumentService struct {
	documents  domain.DocumentRepository
	locataires domain.LocataireRepository
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(documents domain.DocumentRepository, locataires domain.LocataireRepository, logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{documents: documents, locataires: locataires, logger: logger}
}

// Upload attaches a file to a tenant. The tenant must exist and the file
// must fit the size limit.
func (s *DocumentService) Upload(ctx context.Context, document *domain.Document) Response[domain.Document] {
	var errs []string
	if document.Nom == "" {
		errs = append(errs, "nom requis")
	}
	if !slices.Contains(DocumentTypes, document.Type) {
		errs = append(errs, "type de document invalide")
	}
	if len(document.Contenu) == 0 {
		errs = append(errs, "contenu vide")
	}
	if len(document.Contenu) > maxDocumentSize {
		errs = append(errs, "document trop volumineux")
	}
	if len(errs) > 0 {
		return failFrom[domain.Document](domain.NewValidationError(errs))
	}

	if _, err := s.locataires.GetByID(ctx, document.LocataireID); err != nil {
		return failFrom[domain.Document](err)
	}

	if err := s.documents.Create(document); err != nil {
		s.logger.Error("failed to store document",
			slog.String("locataire_id", document.LocataireID),
			slog.String("error", err.Error()))
		return failFrom[domain.Document](err)
	}
	s.logger.Info("document uploaded",
		slog.String("document_id", document.ID),
		slog.String("locataire_id", document.LocataireID),
		slog.Int64("taille", document.TailleOctets))
	metrics.ObserveEntityOp("document", "upload", "success")
	return ok(document, "document enregistre")
}

// Get retrieves one document with its contents.
func (s *DocumentService) Get(ctx context.Context, id string) Response[domain.Document] {
	document, err := s.documents.GetByID(id)
	if err != nil {
		return failFrom[domain.Document](err)
	}
	return ok(document, "")
}

// ListByLocataire lists a tenant's documents, metadata only.
func (s *DocumentService) ListByLocataire(ctx context.Context, locataireID string) ListResponse[*domain.Document] {
	if _, err := s.locataires.GetByID(ctx, locataireID); err != nil {
		return failListFrom[*domain.Document](err)
	}
	documents, err := s.documents.ListByLocataire(locataireID)
	if err != nil {
		return failListFrom[*domain.Document](err)
	}
	return okList(documents, listMeta(len(documents), 1, 0))
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, id string) Response[struct{}] {
	if err := s.documents.Delete(id); err != nil {
		return failFrom[struct{}](err)
	}
	s.logger.Info("document deleted", slog.String("document_id", id))
	metrics.ObserveEntityOp("document", "delete", "success")
	return ok[struct{}](nil, "document supprime")
}
