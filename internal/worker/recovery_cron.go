package worker

// recovery_cron.go
// Background goroutine that periodically re-enqueues report jobs for approved
// measurements that still have no stored PDF statement. Covers jobs lost to a
// Redis flush or a crash between approval and report generation.

import (
	"context"
	"time"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	recoveryTickInterval = 2 * time.Minute
	recoveryBatchSize    = 10
)

// StartReportRecovery launches a goroutine that ticks every 2 minutes and
// re-enqueues report jobs for approved measurements missing a statement.
// It respects the context for graceful shutdown.
func StartReportRecovery(ctx context.Context, measurementRepo repository.MeasurementRepository, dispatcher *Dispatcher) {
	go func() {
		ticker := time.NewTicker(recoveryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("report_recovery: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("report_recovery: shutting down")
				return
			case <-ticker.C:
				recoverMissingReports(ctx, measurementRepo, dispatcher)
			}
		}
	}()
}

func recoverMissingReports(ctx context.Context, measurementRepo repository.MeasurementRepository, dispatcher *Dispatcher) {
	pending, err := measurementRepo.ListApprovedWithoutReport(ctx, recoveryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("report_recovery: failed to query pending measurements")
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Info().Int("count", len(pending)).Msg("report_recovery: re-enqueueing report jobs")
	for i := range pending {
		payload := ReportJobPayload{MeasurementID: pending[i].ID.String()}
		if err := dispatcher.EnqueueReport(ctx, payload); err != nil {
			log.Error().Err(err).Str("measurement_id", payload.MeasurementID).Msg("report_recovery: enqueue failed")
		}
	}
}
