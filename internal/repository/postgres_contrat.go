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

	"github.com/lib/pq"

	"github.com/yourorg/propmanager/internal/domain"
)

// PostgresContratRepository implements domain.ContratRepository using
// PostgreSQL. The single-active-lease-per-room rule is enforced by a partial
// unique index on (chambre_id) WHERE statut = 'actif'.
type PostgresContratRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresContratRepository creates a new contrat repository.
func NewPostgresContratRepository(db *sql.DB, logger *slog.Logger) *PostgresContratRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresContratRepository{db: db, logger: logger}
}

const contratColumns = `id, chambre_id, locataire_id, date_debut, date_fin, loyer_mensuel, charges_mensuelles, depot_garantie, type_bail, statut, clauses_specifiques, date_creation, date_modification`

func scanContrat(row interface{ Scan(...any) error }) (*domain.ContratBail, error) {
	c := &domain.ContratBail{}
	var dateFin sql.NullTime
	var clauses []byte
	err := row.Scan(&c.ID, &c.ChambreID, &c.LocataireID, &c.DateDebut, &dateFin,
		&c.LoyerMensuel, &c.ChargesMensuelles, &c.DepotGarantie, &c.TypeBail, &c.Statut,
		&clauses, &c.DateCreation, &c.DateModification)
	if err != nil {
		return nil, err
	}
	if dateFin.Valid {
		t := dateFin.Time
		c.DateFin = &t
	}
	c.ClausesSpecifiques = []string{}
	if len(clauses) > 0 {
		if err := json.Unmarshal(clauses, &c.ClausesSpecifiques); err != nil {
			return nil, fmt.Errorf("failed to decode clauses_specifiques: %w", err)
		}
	}
	return c, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *PostgresContratRepository) List(ctx context.Context, f domain.ContratFilters) ([]*domain.ContratBail, int, error) {
	var where []string
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.ChambreID != nil {
		add("chambre_id = $%d", *f.ChambreID)
	}
	if f.LocataireID != nil {
		add("locataire_id = $%d", *f.LocataireID)
	}
	if f.Statut != nil {
		add("statut = $%d", *f.Statut)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contrats"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contrats: %w", err)
	}

	query := "SELECT " + contratColumns + " FROM contrats" + cond + " ORDER BY date_creation DESC"
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (page-1)*f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contrats: %w", err)
	}
	defer rows.Close()

	var out []*domain.ContratBail
	for rows.Next() {
		c, err := scanContrat(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contrat: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *PostgresContratRepository) GetByID(ctx context.Context, id string) (*domain.ContratBail, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+contratColumns+" FROM contrats WHERE id = $1", id)
	c, err := scanContrat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("contrat", id)
		}
		return nil, fmt.Errorf("failed to get contrat: %w", err)
	}
	return c, nil
}

func (r *PostgresContratRepository) Create(ctx context.Context, contrat *domain.ContratBail) error {
	contrat.ID = newID("contrat")
	now := time.Now()
	contrat.DateCreation = now
	contrat.DateModification = now
	if contrat.ClausesSpecifiques == nil {
		contrat.ClausesSpecifiques = []string{}
	}
	clauses, err := json.Marshal(contrat.ClausesSpecifiques)
	if err != nil {
		return fmt.Errorf("failed to encode clauses_specifiques: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO contrats (id, chambre_id, locataire_id, date_debut, date_fin, loyer_mensuel,
		                      charges_mensuelles, depot_garantie, type_bail, statut,
		                      clauses_specifiques, date_creation, date_modification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, contrat.ID, contrat.ChambreID, contrat.LocataireID, contrat.DateDebut, contrat.DateFin,
		contrat.LoyerMensuel, contrat.ChargesMensuelles, contrat.DepotGarantie, contrat.TypeBail,
		contrat.Statut, clauses, contrat.DateCreation, contrat.DateModification)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("chambre %s a deja un contrat actif: %w", contrat.ChambreID, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create contrat: %w", err)
	}
	r.logger.Debug("contrat created", slog.String("contrat_id", contrat.ID), slog.String("chambre_id", contrat.ChambreID))
	return nil
}

func (r *PostgresContratRepository) Update(ctx context.Context, contrat *domain.ContratBail) error {
	contrat.DateModification = time.Now()
	clauses, err := json.Marshal(contrat.ClausesSpecifiques)
	if err != nil {
		return fmt.Errorf("failed to encode clauses_specifiques: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE contrats
		SET chambre_id = $1, locataire_id = $2, date_debut = $3, date_fin = $4, loyer_mensuel = $5,
		    charges_mensuelles = $6, depot_garantie = $7, type_bail = $8, statut = $9,
		    clauses_specifiques = $10, date_modification = $11
		WHERE id = $12
	`, contrat.ChambreID, contrat.LocataireID, contrat.DateDebut, contrat.DateFin,
		contrat.LoyerMensuel, contrat.ChargesMensuelles, contrat.DepotGarantie, contrat.TypeBail,
		contrat.Statut, clauses, contrat.DateModification, contrat.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("chambre %s a deja un contrat actif: %w", contrat.ChambreID, domain.ErrConflict)
		}
		return fmt.Errorf("failed to update contrat: %w", err)
	}
	return requireRow(res, "contrat", contrat.ID)
}

func (r *PostgresContratRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contrats WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete contrat: %w", err)
	}
	return requireRow(res, "contrat", id)
}
