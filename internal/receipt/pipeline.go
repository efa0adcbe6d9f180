// Package receipt attaches receipt files to transactions through the
// three-phase upload protocol: negotiate a target, transfer bytes directly
// to storage, confirm with the backend.
package receipt

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/homeapp/internal/domain"
)

// Observer is told about every state change of every session.
type Observer func(transactionID string, state domain.UploadState)

// Pipeline runs upload attempts. Two attempts for the same transaction must
// not overlap; callers serialize them.
type Pipeline struct {
	api      API
	sessions *Sessions
	observe  Observer
	log      zerolog.Logger
}

type Option func(*Pipeline)

func WithObserver(fn Observer) Option {
	return func(p *Pipeline) { p.observe = fn }
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithSessions shares a session registry, e.g. with a store.
func WithSessions(s *Sessions) Option {
	return func(p *Pipeline) { p.sessions = s }
}

func New(api API, opts ...Option) *Pipeline {
	p := &Pipeline{
		api:      api,
		sessions: NewSessions(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attach runs one full attempt and returns the new receipt id. Every attempt
// starts at negotiating, including retries after a failure; nothing from a
// previous attempt is reused.
func (p *Pipeline) Attach(ctx context.Context, transactionID string, file domain.ReceiptFile) (string, error) {
	if transactionID == "" {
		return "", errors.New("Attach: transaction id is required")
	}
	log := p.log.With().Str("transaction_id", transactionID).Str("filename", file.Filename).Logger()

	p.set(transactionID, domain.UploadState{Phase: domain.PhaseNegotiating})
	target, err := p.api.RequestUploadTarget(ctx, transactionID, file.Filename, file.ContentType)
	if err != nil {
		return "", p.fail(log, transactionID, "request upload target", err)
	}
	p.set(transactionID, domain.UploadState{Phase: domain.PhaseUploading, Progress: domain.ProgressTargetReceived})

	if err := p.api.UploadBytes(ctx, target.URL, file.Data, file.ContentType); err != nil {
		return "", p.fail(log, transactionID, "upload bytes", err)
	}
	p.set(transactionID, domain.UploadState{Phase: domain.PhaseUploading, Progress: domain.ProgressBytesSent})

	p.set(transactionID, domain.UploadState{Phase: domain.PhaseConfirming, Progress: domain.ProgressBytesSent})
	receiptID, err := p.api.ConfirmUpload(ctx, transactionID, file.Filename)
	if err != nil {
		return "", p.fail(log, transactionID, "confirm upload", err)
	}
	p.set(transactionID, domain.UploadState{Phase: domain.PhaseUploading, Progress: domain.ProgressConfirmed})
	p.set(transactionID, domain.UploadState{Phase: domain.PhaseAttached, Progress: domain.ProgressConfirmed, ReceiptID: receiptID})

	log.Info().Str("receipt_id", receiptID).Int("bytes", len(file.Data)).Msg("Receipt attached")
	return receiptID, nil
}

// State returns the current state for transactionID.
func (p *Pipeline) State(transactionID string) domain.UploadState {
	return p.sessions.Get(transactionID)
}

// Reset forgets a finished session so the transaction reads as PhaseNone.
func (p *Pipeline) Reset(transactionID string) {
	p.sessions.Delete(transactionID)
	p.notify(transactionID, domain.UploadState{Phase: domain.PhaseNone})
}

func (p *Pipeline) set(transactionID string, state domain.UploadState) {
	p.sessions.Save(transactionID, state)
	p.notify(transactionID, state)
}

func (p *Pipeline) notify(transactionID string, state domain.UploadState) {
	if p.observe != nil {
		p.observe(transactionID, state)
	}
}

func (p *Pipeline) fail(log zerolog.Logger, transactionID, phase string, err error) error {
	reason := fmt.Sprintf("%s: %v", phase, err)
	p.set(transactionID, domain.UploadState{Phase: domain.PhaseFailed, Reason: reason})
	log.Warn().Err(err).Str("phase", phase).Msg("Receipt upload failed")
	return err
}
