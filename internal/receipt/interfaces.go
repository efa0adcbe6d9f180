package receipt

import (
	"context"

	"github.com/dvloznov/homeapp/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_api.go -package=mocks github.com/dvloznov/homeapp/internal/receipt API

// API is the slice of the backend client the pipeline drives.
// *apiclient.Client satisfies it.
type API interface {
	RequestUploadTarget(ctx context.Context, transactionID, filename, contentType string) (domain.UploadTarget, error)
	UploadBytes(ctx context.Context, target string, data []byte, contentType string) error
	ConfirmUpload(ctx context.Context, transactionID, filename string) (string, error)
}
