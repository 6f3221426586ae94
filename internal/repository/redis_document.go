package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourorg/propmanager/internal/domain"
)

// RedisDocumentRepository implements domain.DocumentRepository using Redis.
// Document metadata and the file contents live under separate keys so a
// listing never pulls the payloads over the wire.
type RedisDocumentRepository struct {
	client *redis.Client
}

// NewRedisDocumentRepository creates a new document repository
func NewRedisDocumentRepository(client *redis.Client) *RedisDocumentRepository {
	return &RedisDocumentRepository{
		client: client,
	}
}

// Create saves a new document and indexes it under its tenant
func (r *RedisDocumentRepository) Create(document *domain.Document) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	document.ID = newID("document")
	document.DateCreation = time.Now()
	document.TailleOctets = int64(len(document.Contenu))

	meta, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	key := fmt.Sprintf("document:%s", document.ID)
	if err := r.client.Set(ctx, key, meta, 0).Err(); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	contentKey := fmt.Sprintf("document_content:%s", document.ID)
	if err := r.client.Set(ctx, contentKey, document.Contenu, 0).Err(); err != nil {
		return fmt.Errorf("failed to store document content: %w", err)
	}

	// Add to tenant's document index
	locataireKey := fmt.Sprintf("locataire_documents:%s", document.LocataireID)
	if err := r.client.SAdd(ctx, locataireKey, document.ID).Err(); err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	return nil
}

// GetByID retrieves a document with its contents
func (r *RedisDocumentRepository) GetByID(id string) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := fmt.Sprintf("document:%s", id)
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.NotFound("document", id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var document domain.Document
	if err := json.Unmarshal([]byte(data), &document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	contentKey := fmt.Sprintf("document_content:%s", id)
	content, err := r.client.Get(ctx, contentKey).Bytes()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get document content: %w", err)
	}
	document.Contenu = content

	return &document, nil
}

// ListByLocataire retrieves all documents attached to a tenant, metadata
// only, newest first
func (r *RedisDocumentRepository) ListByLocataire(locataireID string) ([]*domain.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	locataireKey := fmt.Sprintf("locataire_documents:%s", locataireID)
	documentIDs, err := r.client.SMembers(ctx, locataireKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get document IDs: %w", err)
	}

	documents := []*domain.Document{}
	for _, id := range documentIDs {
		data, err := r.client.Get(ctx, fmt.Sprintf("document:%s", id)).Result()
		if err != nil {
			// Index entry without metadata, skip it
			continue
		}
		var document domain.Document
		if err := json.Unmarshal([]byte(data), &document); err != nil {
			continue
		}
		documents = append(documents, &document)
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].DateCreation.After(documents[j].DateCreation)
	})

	return documents, nil
}

// Delete removes a document and its index entry
func (r *RedisDocumentRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	document, err := r.GetByID(id)
	if err != nil {
		return err
	}

	locataireKey := fmt.Sprintf("locataire_documents:%s", document.LocataireID)
	if err := r.client.SRem(ctx, locataireKey, id).Err(); err != nil {
		return fmt.Errorf("failed to remove document from index: %w", err)
	}

	if err := r.client.Del(ctx,
		fmt.Sprintf("document:%s", id),
		fmt.Sprintf("document_content:%s", id),
	).Err(); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}
