package database

import (
	"context"
	"fmt"
)

// schema bootstraps the tables the repositories expect. The partial unique
// index enforces the single-active-lease-per-room rule at the store level.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS biens (
		id TEXT PRIMARY KEY,
		nom TEXT NOT NULL,
		adresse TEXT NOT NULL,
		type TEXT NOT NULL,
		surface DOUBLE PRECISION NOT NULL,
		nb_pieces INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		statut TEXT NOT NULL,
		date_creation TIMESTAMPTZ NOT NULL,
		date_modification TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chambres (
		id TEXT PRIMARY KEY,
		bien_id TEXT NOT NULL,
		nom TEXT NOT NULL,
		surface DOUBLE PRECISION NOT NULL,
		loyer_mensuel DOUBLE PRECISION NOT NULL,
		charges_mensuelles DOUBLE PRECISION NOT NULL,
		type_chambre TEXT NOT NULL,
		statut TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		equipements JSONB NOT NULL DEFAULT '[]',
		date_creation TIMESTAMPTZ NOT NULL,
		date_modification TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS locataires (
		id TEXT PRIMARY KEY,
		prenom TEXT NOT NULL,
		nom TEXT NOT NULL,
		email TEXT NOT NULL,
		telephone TEXT NOT NULL,
		age INTEGER NOT NULL,
		profession TEXT NOT NULL DEFAULT '',
		sera_seul BOOLEAN NOT NULL DEFAULT TRUE,
		chambre_id TEXT,
		statut TEXT NOT NULL,
		co_occupants JSONB NOT NULL DEFAULT '[]',
		date_creation TIMESTAMPTZ NOT NULL,
		date_modification TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contrats (
		id TEXT PRIMARY KEY,
		chambre_id TEXT NOT NULL,
		locataire_id TEXT NOT NULL,
		date_debut TIMESTAMPTZ NOT NULL,
		date_fin TIMESTAMPTZ,
		loyer_mensuel DOUBLE PRECISION NOT NULL,
		charges_mensuelles DOUBLE PRECISION NOT NULL,
		depot_garantie DOUBLE PRECISION NOT NULL,
		type_bail TEXT NOT NULL,
		statut TEXT NOT NULL,
		clauses_specifiques JSONB NOT NULL DEFAULT '[]',
		date_creation TIMESTAMPTZ NOT NULL,
		date_modification TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS contrats_chambre_actif
		ON contrats (chambre_id) WHERE statut = 'actif'`,
	`CREATE TABLE IF NOT EXISTS loyers (
		id TEXT PRIMARY KEY,
		chambre_id TEXT NOT NULL,
		contrat_id TEXT NOT NULL,
		mois INTEGER NOT NULL,
		annee INTEGER NOT NULL,
		montant_loyer DOUBLE PRECISION NOT NULL,
		montant_charges DOUBLE PRECISION NOT NULL,
		montant_total DOUBLE PRECISION NOT NULL,
		date_echeance TIMESTAMPTZ NOT NULL,
		date_paiement TIMESTAMPTZ,
		mode_paiement TEXT NOT NULL DEFAULT '',
		statut TEXT NOT NULL,
		montant_paye DOUBLE PRECISION,
		commentaire TEXT NOT NULL DEFAULT '',
		date_creation TIMESTAMPTZ NOT NULL,
		date_modification TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS loyers_contrat_mois
		ON loyers (contrat_id, annee, mois)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

// EnsureSchema creates missing tables and indexes.
func (cp *ConnectionPool) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	cp.logger.Info("database schema ensured")
	return nil
}
