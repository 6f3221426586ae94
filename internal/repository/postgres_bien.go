package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// PostgresBienRepository implements domain.BienRepository using PostgreSQL.
type PostgresBienRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBienRepository creates a new bien repository.
func NewPostgresBienRepository(db *sql.DB, logger *slog.Logger) *PostgresBienRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBienRepository{db: db, logger: logger}
}

const bienColumns = `id, nom, adresse, type, surface, nb_pieces, description, statut, date_creation, date_modification`

func scanBien(row interface{ Scan(...any) error }) (*domain.Bien, error) {
	b := &domain.Bien{}
	err := row.Scan(&b.ID, &b.Nom, &b.Adresse, &b.Type, &b.Surface, &b.NbPieces,
		&b.Description, &b.Statut, &b.DateCreation, &b.DateModification)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresBienRepository) List(ctx context.Context, f domain.BienFilters) ([]*domain.Bien, int, error) {
	var where []string
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Type != nil {
		add("type = $%d", *f.Type)
	}
	if f.Statut != nil {
		add("statut = $%d", *f.Statut)
	}
	if f.Ville != nil {
		add("adresse ILIKE '%%' || $%d || '%%'", *f.Ville)
	}
	if f.SurfaceMin != nil {
		add("surface >= $%d", *f.SurfaceMin)
	}
	if f.SurfaceMax != nil {
		add("surface <= $%d", *f.SurfaceMax)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM biens"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count biens: %w", err)
	}

	query := "SELECT " + bienColumns + " FROM biens" + cond + " ORDER BY date_creation DESC"
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (page-1)*f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list biens: %w", err)
	}
	defer rows.Close()

	var out []*domain.Bien
	for rows.Next() {
		b, err := scanBien(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan bien: %w", err)
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresBienRepository) GetByID(ctx context.Context, id string) (*domain.Bien, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bienColumns+" FROM biens WHERE id = $1", id)
	b, err := scanBien(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("bien", id)
		}
		return nil, fmt.Errorf("failed to get bien: %w", err)
	}
	return b, nil
}

func (r *PostgresBienRepository) Create(ctx context.Context, bien *domain.Bien) error {
	bien.ID = newID("bien")
	now := time.Now()
	bien.DateCreation = now
	bien.DateModification = now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO biens (id, nom, adresse, type, surface, nb_pieces, description, statut, date_creation, date_modification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, bien.ID, bien.Nom, bien.Adresse, bien.Type, bien.Surface, bien.NbPieces,
		bien.Description, bien.Statut, bien.DateCreation, bien.DateModification)
	if err != nil {
		return fmt.Errorf("failed to create bien: %w", err)
	}
	r.logger.Debug("bien created", slog.String("bien_id", bien.ID))
	return nil
}

func (r *PostgresBienRepository) Update(ctx context.Context, bien *domain.Bien) error {
	bien.DateModification = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE biens
		SET nom = $1, adresse = $2, type = $3, surface = $4, nb_pieces = $5,
		    description = $6, statut = $7, date_modification = $8
		WHERE id = $9
	`, bien.Nom, bien.Adresse, bien.Type, bien.Surface, bien.NbPieces,
		bien.Description, bien.Statut, bien.DateModification, bien.ID)
	if err != nil {
		return fmt.Errorf("failed to update bien: %w", err)
	}
	return requireRow(res, "bien", bien.ID)
}

func (r *PostgresBienRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM biens WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete bien: %w", err)
	}
	return requireRow(res, "bien", id)
}

// requireRow converts a zero-row result into a not-found error.
func requireRow(res sql.Result, entite, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.NotFound(entite, id)
	}
	return nil
}
