// Package scheduler ejecuta tareas periódicas (conciliación saldo vs. kardex).
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

// ReconcileRunner lo implementa inventory.Reconciler.
type ReconcileRunner interface {
	ReconcileAll(ctx context.Context, repair bool) (*dto.ReconcileResponse, error)
}

// Scheduler ejecuta las tareas programadas (conciliación periódica del kardex).
type Scheduler struct {
	cron       *cron.Cron
	reconciler ReconcileRunner
	spec       string
	repair     bool
	timeout    time.Duration
	log        *logger.Logger
}

// NewScheduler valida spec (cron estándar de 5 campos) y construye el scheduler.
func NewScheduler(spec string, repair bool, reconciler ReconcileRunner, log *logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, err
	}
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		spec:       spec,
		repair:     repair,
		timeout:    5 * time.Minute,
		log:        log,
	}, nil
}

// Start registra la conciliación y arranca el cron.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunReconcile); err != nil {
		return err
	}
	s.log.Info().Str("cron", s.spec).Bool("repair", s.repair).Msg("scheduler iniciado")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine la ejecución en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler detenido")
}

// RunReconcile una ejecución de la conciliación.
func (s *Scheduler) RunReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.reconciler.ReconcileAll(ctx, s.repair)
	if err != nil {
		s.log.Error().Err(err).Msg("conciliación fallida")
		return
	}
	if len(report.Drifts) > 0 {
		s.log.Warn().Int("checked", report.Checked).Int("drifts", len(report.Drifts)).Msg("conciliación con diferencias")
	}
}
