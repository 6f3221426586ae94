package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/reliability/retry"
)

// LoyerWorker periodically generates the current month's rent records for
// active leases and flips unpaid rents past their due date to en_retard.
// Generation is idempotent per contrat/mois/annee.
type LoyerWorker struct {
	contrats     domain.ContratRepository
	loyers       domain.LoyerRepository
	logger       *slog.Logger
	interval     time.Duration
	retryCfg     *retry.Config
	jourEcheance int
}

// NewLoyerWorker creates a new rent worker. jourEcheance is the day of the
// month rents fall due.
func NewLoyerWorker(
	contrats domain.ContratRepository,
	loyers domain.LoyerRepository,
	logger *slog.Logger,
	interval time.Duration,
	jourEcheance int,
) *LoyerWorker {
	if jourEcheance < 1 || jourEcheance > 28 {
		jourEcheance = 5
	}
	return &LoyerWorker{
		contrats:     contrats,
		loyers:       loyers,
		logger:       logger,
		interval:     interval,
		retryCfg:     retry.DefaultConfig(),
		jourEcheance: jourEcheance,
	}
}

// Start begins the worker loop. It runs one pass per interval until the
// context is cancelled.
func (w *LoyerWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("loyer worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("loyer worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single generation + overdue pass.
func (w *LoyerWorker) RunOnce(ctx context.Context) {
	now := time.Now()
	generated, err := w.genererLoyersDuMois(ctx, now)
	if err != nil {
		w.logger.Error("rent generation failed", slog.String("error", err.Error()))
		metrics.ObserveWorkerRun("loyer", "error")
		return
	}
	if generated > 0 {
		w.logger.Info("loyers generated", slog.Int("count", generated),
			slog.Int("mois", int(now.Month())), slog.Int("annee", now.Year()))
		metrics.AddLoyersGeneres(generated)
	}

	flipped, err := w.marquerRetards(ctx, now)
	if err != nil {
		w.logger.Error("overdue pass failed", slog.String("error", err.Error()))
		metrics.ObserveWorkerRun("loyer", "error")
		return
	}
	if flipped > 0 {
		w.logger.Info("loyers marked overdue", slog.Int("count", flipped))
	}
	metrics.ObserveWorkerRun("loyer", "success")
}

// genererLoyersDuMois creates the missing rent record of the current month
// for each active lease.
func (w *LoyerWorker) genererLoyersDuMois(ctx context.Context, now time.Time) (int, error) {
	statut := "actif"
	contrats, err := retry.Do(ctx, w.retryCfg, w.logger, "list active contrats",
		func(ctx context.Context) ([]*domain.ContratBail, error) {
			list, _, err := w.contrats.List(ctx, domain.ContratFilters{Statut: &statut})
			return list, err
		})
	if err != nil {
		return 0, fmt.Errorf("failed to list contrats: %w", err)
	}

	mois := int(now.Month())
	annee := now.Year()
	generated := 0
	for _, contrat := range contrats {
		if contrat.DateDebut.After(now) {
			continue
		}
		existing, _, err := w.loyers.List(ctx, domain.LoyerFilters{
			ContratID: &contrat.ID, Mois: &mois, Annee: &annee,
		})
		if err != nil {
			return generated, fmt.Errorf("failed to check existing loyer: %w", err)
		}
		if len(existing) > 0 {
			continue
		}

		loyer := &domain.Loyer{
			ChambreID:      contrat.ChambreID,
			ContratID:      contrat.ID,
			Mois:           mois,
			Annee:          annee,
			MontantLoyer:   contrat.LoyerMensuel,
			MontantCharges: contrat.ChargesMensuelles,
			MontantTotal:   contrat.LoyerMensuel + contrat.ChargesMensuelles,
			DateEcheance:   time.Date(annee, now.Month(), w.jourEcheance, 0, 0, 0, 0, now.Location()),
			Statut:         "en_attente",
		}
		if err := w.loyers.Create(ctx, loyer); err != nil {
			return generated, fmt.Errorf("failed to create loyer for contrat %s: %w", contrat.ID, err)
		}
		generated++
	}
	return generated, nil
}

// marquerRetards flips en_attente records past their due date to en_retard.
func (w *LoyerWorker) marquerRetards(ctx context.Context, now time.Time) (int, error) {
	statut := "en_attente"
	enAttente, _, err := w.loyers.List(ctx, domain.LoyerFilters{Statut: &statut})
	if err != nil {
		return 0, fmt.Errorf("failed to list pending loyers: %w", err)
	}

	flipped := 0
	for _, loyer := range enAttente {
		if !now.After(loyer.DateEcheance) {
			continue
		}
		loyer.Statut = "en_retard"
		if err := w.loyers.Update(ctx, loyer); err != nil {
			return flipped, fmt.Errorf("failed to mark loyer %s overdue: %w", loyer.ID, err)
		}
		flipped++
	}
	return flipped, nil
}
