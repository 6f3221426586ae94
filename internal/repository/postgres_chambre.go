package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// PostgresChambreRepository implements domain.ChambreRepository using
// PostgreSQL. The equipements list is stored as JSONB.
type PostgresChambreRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresChambreRepository creates a new chambre repository.
func NewPostgresChambreRepository(db *sql.DB, logger *slog.Logger) *PostgresChambreRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresChambreRepository{db: db, logger: logger}
}

const chambreColumns = `id, bien_id, nom, surface, loyer_mensuel, charges_mensuelles, type_chambre, statut, description, equipements, date_creation, date_modification`

func scanChambre(row interface{ Scan(...any) error }) (*domain.Chambre, error) {
	c := &domain.Chambre{}
	var equipements []byte
	err := row.Scan(&c.ID, &c.BienID, &c.Nom, &c.Surface, &c.LoyerMensuel, &c.ChargesMensuelles,
		&c.TypeChambre, &c.Statut, &c.Description, &equipements, &c.DateCreation, &c.DateModification)
	if err != nil {
		return nil, err
	}
	if len(equipements) > 0 {
		if err := json.Unmarshal(equipements, &c.Equipements); err != nil {
			return nil, fmt.Errorf("failed to decode equipements: %w", err)
		}
	}
	return c, nil
}

func (r *PostgresChambreRepository) List(ctx context.Context, f domain.ChambreFilters) ([]*domain.Chambre, int, error) {
	var where []string
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.BienID != nil {
		add("bien_id = $%d", *f.BienID)
	}
	if f.Statut != nil {
		add("statut = $%d", *f.Statut)
	}
	if f.TypeChambre != nil {
		add("type_chambre = $%d", *f.TypeChambre)
	}
	if f.SurfaceMin != nil {
		add("surface >= $%d", *f.SurfaceMin)
	}
	if f.SurfaceMax != nil {
		add("surface <= $%d", *f.SurfaceMax)
	}
	if f.LoyerMin != nil {
		add("loyer_mensuel >= $%d", *f.LoyerMin)
	}
	if f.LoyerMax != nil {
		add("loyer_mensuel <= $%d", *f.LoyerMax)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chambres"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count chambres: %w", err)
	}

	query := "SELECT " + chambreColumns + " FROM chambres" + cond + " ORDER BY date_creation DESC"
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (page-1)*f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chambres: %w", err)
	}
	defer rows.Close()

	var out []*domain.Chambre
	for rows.Next() {
		c, err := scanChambre(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan chambre: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *PostgresChambreRepository) GetByID(ctx context.Context, id string) (*domain.Chambre, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+chambreColumns+" FROM chambres WHERE id = $1", id)
	c, err := scanChambre(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("chambre", id)
		}
		return nil, fmt.Errorf("failed to get chambre: %w", err)
	}
	return c, nil
}

func (r *PostgresChambreRepository) Create(ctx context.Context, chambre *domain.Chambre) error {
	chambre.ID = newID("chambre")
	now := time.Now()
	chambre.DateCreation = now
	chambre.DateModification = now
	equipements, err := json.Marshal(chambre.Equipements)
	if err != nil {
		return fmt.Errorf("failed to encode equipements: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO chambres (id, bien_id, nom, surface, loyer_mensuel, charges_mensuelles,
		                      type_chambre, statut, description, equipements, date_creation, date_modification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, chambre.ID, chambre.BienID, chambre.Nom, chambre.Surface, chambre.LoyerMensuel,
		chambre.ChargesMensuelles, chambre.TypeChambre, chambre.Statut, chambre.Description,
		equipements, chambre.DateCreation, chambre.DateModification)
	if err != nil {
		return fmt.Errorf("failed to create chambre: %w", err)
	}
	r.logger.Debug("chambre created", slog.String("chambre_id", chambre.ID))
	return nil
}

func (r *PostgresChambreRepository) Update(ctx context.Context, chambre *domain.Chambre) error {
	chambre.DateModification = time.Now()
	equipements, err := json.Marshal(chambre.Equipements)
	if err != nil {
		return fmt.Errorf("failed to encode equipements: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE chambres
		SET nom = $1, surface = $2, loyer_mensuel = $3, charges_mensuelles = $4,
		    type_chambre = $5, statut = $6, description = $7, equipements = $8, date_modification = $9
		WHERE id = $10
	`, chambre.Nom, chambre.Surface, chambre.LoyerMensuel, chambre.ChargesMensuelles,
		chambre.TypeChambre, chambre.Statut, chambre.Description, equipements,
		chambre.DateModification, chambre.ID)
	if err != nil {
		return fmt.Errorf("failed to update chambre: %w", err)
	}
	return requireRow(res, "chambre", chambre.ID)
}

func (r *PostgresChambreRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM chambres WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete chambre: %w", err)
	}
	return requireRow(res, "chambre", id)
}
