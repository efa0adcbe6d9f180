package domain

import (
	"fmt"
	"time"
)

// UploadTarget is a short-lived, credential-free write location.
type UploadTarget struct {
	URL       string
	ExpiresIn time.Duration
}

// ViewTarget is a short-lived read location for an attached receipt.
type ViewTarget struct {
	URL         string
	ExpiresIn   time.Duration
	ContentType string
}

// ReceiptFile is an attachment ready to upload.
type ReceiptFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadPhase is the coarse step of a receipt attachment.
type UploadPhase string

const (
	PhaseNone        UploadPhase = "none"
	PhaseNegotiating UploadPhase = "negotiating"
	PhaseUploading   UploadPhase = "uploading"
	PhaseConfirming  UploadPhase = "confirming"
	PhaseAttached    UploadPhase = "attached"
	PhaseFailed      UploadPhase = "failed"
)

// Milestones reported while a receipt is in flight.
const (
	ProgressTargetReceived = 0.3
	ProgressBytesSent      = 0.7
	ProgressConfirmed      = 1.0
)

// UploadState is the observable state of one attachment attempt. Progress is
// meaningful only in the uploading phase; Reason only when failed.
type UploadState struct {
	Phase     UploadPhase
	Progress  float64
	Reason    string
	ReceiptID string
}

func (s UploadState) Terminal() bool {
	return s.Phase == PhaseAttached || s.Phase == PhaseFailed
}

// InFlight reports whether an attempt is between negotiating and confirming.
func (s UploadState) InFlight() bool {
	switch s.Phase {
	case PhaseNegotiating, PhaseUploading, PhaseConfirming:
		return true
	}
	return false
}

func (s UploadState) String() string {
	switch s.Phase {
	case PhaseUploading:
		return fmt.Sprintf("uploading(%.1f)", s.Progress)
	case PhaseFailed:
		return fmt.Sprintf("failed(%s)", s.Reason)
	default:
		return string(s.Phase)
	}
}
