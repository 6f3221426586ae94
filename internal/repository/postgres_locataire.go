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

// PostgresLocataireRepository implements domain.LocataireRepository using
// PostgreSQL. Co-occupants are stored as JSONB.
type PostgresLocataireRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresLocataireRepository creates a new locataire repository.
func NewPostgresLocataireRepository(db *sql.DB, logger *slog.Logger) *PostgresLocataireRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLocataireRepository{db: db, logger: logger}
}

const locataireColumns = `id, prenom, nom, email, telephone, age, profession, sera_seul, chambre_id, statut, co_occupants, date_creation, date_modification`

func scanLocataire(row interface{ Scan(...any) error }) (*domain.Locataire, error) {
	l := &domain.Locataire{}
	var chambreID sql.NullString
	var coOccupants []byte
	err := row.Scan(&l.ID, &l.Prenom, &l.Nom, &l.Email, &l.Telephone, &l.Age, &l.Profession,
		&l.SeraSeul, &chambreID, &l.Statut, &coOccupants, &l.DateCreation, &l.DateModification)
	if err != nil {
		return nil, err
	}
	if chambreID.Valid {
		l.ChambreID = &chambreID.String
	}
	l.CoOccupants = []domain.CoOccupant{}
	if len(coOccupants) > 0 {
		if err := json.Unmarshal(coOccupants, &l.CoOccupants); err != nil {
			return nil, fmt.Errorf("failed to decode co_occupants: %w", err)
		}
	}
	return l, nil
}

func (r *PostgresLocataireRepository) List(ctx context.Context, f domain.LocataireFilters) ([]*domain.Locataire, int, error) {
	var where []string
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Statut != nil {
		add("statut = $%d", *f.Statut)
	}
	if f.Profession != nil {
		add("LOWER(profession) = LOWER($%d)", *f.Profession)
	}
	if f.ChambreID != nil {
		add("chambre_id = $%d", *f.ChambreID)
	}
	if f.AgeMin != nil {
		add("age >= $%d", *f.AgeMin)
	}
	if f.AgeMax != nil {
		add("age <= $%d", *f.AgeMax)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM locataires"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count locataires: %w", err)
	}

	query := "SELECT " + locataireColumns + " FROM locataires" + cond + " ORDER BY date_creation DESC"
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (page-1)*f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list locataires: %w", err)
	}
	defer rows.Close()

	var out []*domain.Locataire
	for rows.Next() {
		l, err := scanLocataire(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan locataire: %w", err)
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *PostgresLocataireRepository) GetByID(ctx context.Context, id string) (*domain.Locataire, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+locataireColumns+" FROM locataires WHERE id = $1", id)
	l, err := scanLocataire(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("locataire", id)
		}
		return nil, fmt.Errorf("failed to get locataire: %w", err)
	}
	return l, nil
}

func (r *PostgresLocataireRepository) Create(ctx context.Context, locataire *domain.Locataire) error {
	locataire.ID = newID("locataire")
	now := time.Now()
	locataire.DateCreation = now
	locataire.DateModification = now
	if locataire.CoOccupants == nil {
		locataire.CoOccupants = []domain.CoOccupant{}
	}
	coOccupants, err := json.Marshal(locataire.CoOccupants)
	if err != nil {
		return fmt.Errorf("failed to encode co_occupants: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO locataires (id, prenom, nom, email, telephone, age, profession, sera_seul,
		                        chambre_id, statut, co_occupants, date_creation, date_modification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, locataire.ID, locataire.Prenom, locataire.Nom, locataire.Email, locataire.Telephone,
		locataire.Age, locataire.Profession, locataire.SeraSeul, locataire.ChambreID,
		locataire.Statut, coOccupants, locataire.DateCreation, locataire.DateModification)
	if err != nil {
		return fmt.Errorf("failed to create locataire: %w", err)
	}
	r.logger.Debug("locataire created", slog.String("locataire_id", locataire.ID))
	return nil
}

func (r *PostgresLocataireRepository) Update(ctx context.Context, locataire *domain.Locataire) error {
	locataire.DateModification = time.Now()
	coOccupants, err := json.Marshal(locataire.CoOccupants)
	if err != nil {
		return fmt.Errorf("failed to encode co_occupants: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE locataires
		SET prenom = $1, nom = $2, email = $3, telephone = $4, age = $5, profession = $6,
		    sera_seul = $7, chambre_id = $8, statut = $9, co_occupants = $10, date_modification = $11
		WHERE id = $12
	`, locataire.Prenom, locataire.Nom, locataire.Email, locataire.Telephone, locataire.Age,
		locataire.Profession, locataire.SeraSeul, locataire.ChambreID, locataire.Statut,
		coOccupants, locataire.DateModification, locataire.ID)
	if err != nil {
		return fmt.Errorf("failed to update locataire: %w", err)
	}
	return requireRow(res, "locataire", locataire.ID)
}

func (r *PostgresLocataireRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM locataires WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete locataire: %w", err)
	}
	return requireRow(res, "locataire", id)
}
