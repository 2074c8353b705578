package worker

// report_worker.go
// Processes measurement report jobs from QueueReport.
// Renders the PDF statement for an approved measurement, stores its path on
// the measurement row, and optionally enqueues an email to the supplier.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/infra"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReport.
type ReportJobPayload struct {
	MeasurementID string `json:"measurement_id"`
}

// ReportWorker renders and stores measurement statements.
type ReportWorker struct {
	measurementRepo repository.MeasurementRepository
	contractRepo    repository.ContractRepository
	workRepo        repository.WorkRepository
	supplierRepo    repository.SupplierRepository
	dispatcher      *Dispatcher
	storagePath     string
}

func NewReportWorker(
	measurementRepo repository.MeasurementRepository,
	contractRepo repository.ContractRepository,
	workRepo repository.WorkRepository,
	supplierRepo repository.SupplierRepository,
	dispatcher *Dispatcher,
	storagePath string,
) *ReportWorker {
	return &ReportWorker{
		measurementRepo: measurementRepo,
		contractRepo:    contractRepo,
		workRepo:        workRepo,
		supplierRepo:    supplierRepo,
		dispatcher:      dispatcher,
		storagePath:     storagePath,
	}
}

// Process handles a single report job:
//  1. Parse ReportJobPayload from the job envelope
//  2. Fetch the measurement with items and its contract with work/supplier
//  3. Generate the PDF statement with up to 3 attempts
//  4. Persist the report path
//  5. Enqueue an email job when the supplier has an address on file
//
// A non-nil return sends the job to the dead letter queue.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return fmt.Errorf("invalid payload: %w", err)
	}

	measurementID, err := uuid.Parse(payload.MeasurementID)
	if err != nil {
		log.Error().Str("measurement_id", payload.MeasurementID).Msg("report_worker: invalid measurement_id")
		return fmt.Errorf("invalid measurement_id %q", payload.MeasurementID)
	}

	measurement, err := w.measurementRepo.FindByID(ctx, measurementID)
	if err != nil {
		log.Error().Err(err).Str("measurement_id", payload.MeasurementID).Msg("report_worker: measurement not found")
		return fmt.Errorf("measurement %s: %w", payload.MeasurementID, err)
	}

	contract, err := w.contractRepo.FindByID(ctx, measurement.ContractID)
	if err != nil {
		log.Error().Err(err).Str("contract_id", measurement.ContractID.String()).Msg("report_worker: contract not found")
		return fmt.Errorf("contract %s: %w", measurement.ContractID, err)
	}
	if contract.Work == nil {
		if work, err := w.workRepo.FindByID(ctx, contract.WorkID); err == nil {
			contract.Work = work
		}
	}
	if contract.Supplier == nil {
		if supplier, err := w.supplierRepo.FindByID(ctx, contract.SupplierID); err == nil {
			contract.Supplier = supplier
		}
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateMeasurementPDF(measurement, contract, w.storagePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("measurement_id", payload.MeasurementID).
				Msg("report_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if genErr != nil {
		log.Error().Err(genErr).Str("measurement_id", payload.MeasurementID).Msg("report_worker: PDF generation failed after all retries")
		return fmt.Errorf("pdf generation: %w", genErr)
	}

	if err := w.measurementRepo.SetReportPath(ctx, measurementID, pdfPath); err != nil {
		log.Error().Err(err).Str("measurement_id", payload.MeasurementID).Msg("report_worker: failed to store report path")
		return fmt.Errorf("store report path: %w", err)
	}
	log.Info().Str("pdf", pdfPath).Str("measurement_id", payload.MeasurementID).Msg("report_worker: statement generated")

	if w.dispatcher != nil && contract.Supplier != nil && contract.Supplier.Email != nil && *contract.Supplier.Email != "" {
		workName := ""
		if contract.Work != nil {
			workName = contract.Work.Name
		}
		emailJob := EmailJobPayload{
			ToEmail: *contract.Supplier.Email,
			Subject: fmt.Sprintf("Boletim de medição aprovado - %s", workName),
			Body: fmt.Sprintf(
				"Segue em anexo o boletim de medição aprovado em %s.\nValor líquido: R$ %s",
				time.Now().Format("02/01/2006"), measurement.TotalNetValue.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *contract.Supplier.Email).Msg("report_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *contract.Supplier.Email).Msg("report_worker: email job enqueued")
		}
	}
	return nil
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
