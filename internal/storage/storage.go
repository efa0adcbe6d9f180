// Package storage writes and reads receipt objects addressed by gs:// URIs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Options configure how the Cloud Storage client authenticates.
type Options struct {
	// CredentialsFile is a service account key. Empty means Application Default Credentials.
	CredentialsFile string
	// Endpoint overrides the API endpoint, e.g. a local emulator.
	Endpoint string
	// WriteTimeout bounds one object write. Zero means two minutes.
	WriteTimeout time.Duration
}

func (o Options) clientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if o.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(o.CredentialsFile))
	}
	if o.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(o.Endpoint), option.WithoutAuthentication())
	}
	return opts
}

// Client opens the underlying Cloud Storage client on first use, so a
// process that never sees a gs:// target never needs credentials.
type Client struct {
	opts Options

	once   sync.Once
	client *storage.Client
	err    error
}

func New(opts Options) *Client {
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 2 * time.Minute
	}
	return &Client{opts: opts}
}

func (c *Client) bucket(ctx context.Context, name string) (*storage.BucketHandle, error) {
	c.once.Do(func() {
		c.client, c.err = storage.NewClient(ctx, c.opts.clientOptions()...)
	})
	if c.err != nil {
		return nil, fmt.Errorf("create storage client: %w", c.err)
	}
	return c.client.Bucket(name), nil
}

// Upload streams r to the object named by uri.
func (c *Client) Upload(ctx context.Context, uri string, r io.Reader, contentType string) error {
	bucketName, objectName, err := ParseURI(uri)
	if err != nil {
		return err
	}
	bkt, err := c.bucket(ctx, bucketName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
	defer cancel()

	w := bkt.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy receipt to GCS writer: %w", err)
	}
	// Close finalizes the object; the upload is not visible before it returns.
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}
	return nil
}

// Download reads the whole object named by uri.
func (c *Client) Download(ctx context.Context, uri string) ([]byte, error) {
	bucketName, objectName, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	bkt, err := c.bucket(ctx, bucketName)
	if err != nil {
		return nil, err
	}

	rc, err := bkt.Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("download: reading object %s/%s: %w", bucketName, objectName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("download: reading bytes: %w", err)
	}
	return data, nil
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ParseURI splits gs://bucket/path/to/object.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// Filename returns the last path element of a gs:// URI.
// e.g. "gs://bucket/receipts/t1/receipt_1.jpg" -> "receipt_1.jpg"
func Filename(uri string) string {
	_, object, err := ParseURI(uri)
	if err != nil {
		return ""
	}
	return path.Base(object)
}
