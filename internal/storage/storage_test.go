package storage

import (
	"context"
	"strings"
	"testing"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{name: "nested object", uri: "gs://receipts/t1/receipt_1.jpg", wantBucket: "receipts", wantObject: "t1/receipt_1.jpg"},
		{name: "flat object", uri: "gs://b/o", wantBucket: "b", wantObject: "o"},
		{name: "https scheme", uri: "https://storage.googleapis.com/b/o", wantErr: true},
		{name: "bucket only", uri: "gs://receipts", wantErr: true},
		{name: "empty object", uri: "gs://receipts/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseURI(%q) expected error", tt.uri)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURI(%q) unexpected error: %v", tt.uri, err)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseURI(%q) = %q, %q; want %q, %q", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("gs://bucket/receipts/t1/receipt_1.jpg"); got != "receipt_1.jpg" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename("not-a-uri"); got != "" {
		t.Errorf("Filename of invalid URI = %q, want empty", got)
	}
}

func TestUploadRejectsInvalidURIBeforeConnecting(t *testing.T) {
	c := New(Options{})
	err := c.Upload(context.Background(), "s3://bucket/key", strings.NewReader("x"), "image/jpeg")
	if err == nil || !strings.Contains(err.Error(), "invalid GCS URI") {
		t.Fatalf("expected invalid URI error, got %v", err)
	}
	if c.client != nil {
		t.Error("storage client must not be created for an invalid URI")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on unused client: %v", err)
	}
}
