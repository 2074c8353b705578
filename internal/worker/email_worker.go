package worker

// email_worker.go
// Processes email jobs from QueueEmail: measurement statements sent to the
// supplier contact via SMTP. Sends go through a circuit breaker so a mail
// outage fast-fails the queue into the DLQ instead of blocking workers.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// EmailWorker sends measurement statements by email.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process sends an email with the PDF statement as attachment.
// A non-nil return sends the job to the dead letter queue.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return fmt.Errorf("invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendReport(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", payload.ToEmail).Str("cb_state", w.cb.State().String()).Msg("email_worker: failed to send email")
		return fmt.Errorf("send to %s: %w", payload.ToEmail, sendErr)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: statement sent successfully")
	return nil
}
