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

// PostgresLoyerRepository implements domain.LoyerRepository using PostgreSQL.
type PostgresLoyerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresLoyerRepository creates a new loyer repository.
func NewPostgresLoyerRepository(db *sql.DB, logger *slog.Logger) *PostgresLoyerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLoyerRepository{db: db, logger: logger}
}

const loyerColumns = `id, chambre_id, contrat_id, mois, annee, montant_loyer, montant_charges, montant_total, date_echeance, date_paiement, mode_paiement, statut, montant_paye, commentaire, date_creation, date_modification`

func scanLoyer(row interface{ Scan(...any) error }) (*domain.Loyer, error) {
	l := &domain.Loyer{}
	var datePaiement sql.NullTime
	var montantPaye sql.NullFloat64
	err := row.Scan(&l.ID, &l.ChambreID, &l.ContratID, &l.Mois, &l.Annee,
		&l.MontantLoyer, &l.MontantCharges, &l.MontantTotal, &l.DateEcheance,
		&datePaiement, &l.ModePaiement, &l.Statut, &montantPaye, &l.Commentaire,
		&l.DateCreation, &l.DateModification)
	if err != nil {
		return nil, err
	}
	if datePaiement.Valid {
		t := datePaiement.Time
		l.DatePaiement = &t
	}
	if montantPaye.Valid {
		v := montantPaye.Float64
		l.MontantPaye = &v
	}
	return l, nil
}

func (r *PostgresLoyerRepository) List(ctx context.Context, f domain.LoyerFilters) ([]*domain.Loyer, int, error) {
	var where []string
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.ChambreID != nil {
		add("chambre_id = $%d", *f.ChambreID)
	}
	if f.ContratID != nil {
		add("contrat_id = $%d", *f.ContratID)
	}
	if f.Statut != nil {
		add("statut = $%d", *f.Statut)
	}
	if f.Mois != nil {
		add("mois = $%d", *f.Mois)
	}
	if f.Annee != nil {
		add("annee = $%d", *f.Annee)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM loyers"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count loyers: %w", err)
	}

	query := "SELECT " + loyerColumns + " FROM loyers" + cond + " ORDER BY annee DESC, mois DESC, date_creation DESC"
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (page-1)*f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loyers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Loyer
	for rows.Next() {
		l, err := scanLoyer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan loyer: %w", err)
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *PostgresLoyerRepository) GetByID(ctx context.Context, id string) (*domain.Loyer, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+loyerColumns+" FROM loyers WHERE id = $1", id)
	l, err := scanLoyer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("loyer", id)
		}
		return nil, fmt.Errorf("failed to get loyer: %w", err)
	}
	return l, nil
}

func (r *PostgresLoyerRepository) Create(ctx context.Context, loyer *domain.Loyer) error {
	loyer.ID = newID("loyer")
	now := time.Now()
	loyer.DateCreation = now
	loyer.DateModification = now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loyers (id, chambre_id, contrat_id, mois, annee, montant_loyer, montant_charges,
		                    montant_total, date_echeance, date_paiement, mode_paiement, statut,
		                    montant_paye, commentaire, date_creation, date_modification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, loyer.ID, loyer.ChambreID, loyer.ContratID, loyer.Mois, loyer.Annee,
		loyer.MontantLoyer, loyer.MontantCharges, loyer.MontantTotal, loyer.DateEcheance,
		loyer.DatePaiement, loyer.ModePaiement, loyer.Statut, loyer.MontantPaye,
		loyer.Commentaire, loyer.DateCreation, loyer.DateModification)
	if err != nil {
		return fmt.Errorf("failed to create loyer: %w", err)
	}
	r.logger.Debug("loyer created",
		slog.String("loyer_id", loyer.ID),
		slog.Int("mois", loyer.Mois),
		slog.Int("annee", loyer.Annee))
	return nil
}

func (r *PostgresLoyerRepository) Update(ctx context.Context, loyer *domain.Loyer) error {
	loyer.DateModification = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE loyers
		SET chambre_id = $1, contrat_id = $2, mois = $3, annee = $4, montant_loyer = $5,
		    montant_charges = $6, montant_total = $7, date_echeance = $8, date_paiement = $9,
		    mode_paiement = $10, statut = $11, montant_paye = $12, commentaire = $13,
		    date_modification = $14
		WHERE id = $15
	`, loyer.ChambreID, loyer.ContratID, loyer.Mois, loyer.Annee, loyer.MontantLoyer,
		loyer.MontantCharges, loyer.MontantTotal, loyer.DateEcheance, loyer.DatePaiement,
		loyer.ModePaiement, loyer.Statut, loyer.MontantPaye, loyer.Commentaire,
		loyer.DateModification, loyer.ID)
	if err != nil {
		return fmt.Errorf("failed to update loyer: %w", err)
	}
	return requireRow(res, "loyer", loyer.ID)
}

func (r *PostgresLoyerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM loyers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete loyer: %w", err)
	}
	return requireRow(res, "loyer", id)
}
