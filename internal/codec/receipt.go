package codec

import (
	"time"

	"github.com/dvloznov/homeapp/internal/domain"
)

var UploadRequestFields = Fields{
	{Domain: "Filename", Wire: "filename", Fallback: Required},
	{Domain: "ContentType", Wire: "content_type", Fallback: Required},
}

var UploadTargetFields = Fields{
	{Domain: "URL", Wire: "upload_url", Fallback: Required},
	{Domain: "ExpiresIn", Wire: "expires_in", Fallback: NilWhenAbsent},
}

var ConfirmRequestFields = Fields{
	{Domain: "Filename", Wire: "filename", Fallback: Required},
}

var ConfirmResultFields = Fields{
	{Domain: "Message", Wire: "message", Fallback: NilWhenAbsent},
	{Domain: "ReceiptID", Wire: "receipt_id", Fallback: Required},
}

var ViewTargetFields = Fields{
	{Domain: "URL", Wire: "view_url", Fallback: Required},
	{Domain: "ExpiresIn", Wire: "expires_in", Fallback: NilWhenAbsent},
	{Domain: "ContentType", Wire: "content_type", Fallback: DefaultWhenAbsent, Default: "application/octet-stream"},
}

type UploadRequestRecord struct {
	Filename    *string `json:"filename"`
	ContentType *string `json:"content_type"`
}

type UploadTargetRecord struct {
	URL       *string `json:"upload_url"`
	ExpiresIn *int    `json:"expires_in"`
}

type ConfirmRequestRecord struct {
	Filename *string `json:"filename"`
}

type ConfirmResultRecord struct {
	Message   *string `json:"message"`
	ReceiptID *string `json:"receipt_id"`
}

type ViewTargetRecord struct {
	URL         *string `json:"view_url"`
	ExpiresIn   *int    `json:"expires_in"`
	ContentType *string `json:"content_type"`
}

func EncodeUploadRequest(filename, contentType string) ([]byte, error) {
	return marshal("upload request", UploadRequestRecord{Filename: &filename, ContentType: &contentType})
}

func EncodeConfirmRequest(filename string) ([]byte, error) {
	return marshal("confirm request", ConfirmRequestRecord{Filename: &filename})
}

// DecodeUploadTarget decodes {upload_url, expires_in}; expires_in is seconds.
func DecodeUploadTarget(data []byte) (domain.UploadTarget, error) {
	var r UploadTargetRecord
	if err := unmarshal("upload target", data, &r); err != nil {
		return domain.UploadTarget{}, err
	}
	d := newDecoder("upload target", UploadTargetFields)
	t := domain.UploadTarget{
		URL:       d.required("URL", r.URL),
		ExpiresIn: time.Duration(d.integer("ExpiresIn", r.ExpiresIn)) * time.Second,
	}
	return t, d.err
}

// DecodeConfirmResult returns the receipt id assigned by the backend.
func DecodeConfirmResult(data []byte) (string, error) {
	var r ConfirmResultRecord
	if err := unmarshal("confirm result", data, &r); err != nil {
		return "", err
	}
	d := newDecoder("confirm result", ConfirmResultFields)
	id := d.required("ReceiptID", r.ReceiptID)
	return id, d.err
}

func DecodeViewTarget(data []byte) (domain.ViewTarget, error) {
	var r ViewTargetRecord
	if err := unmarshal("view target", data, &r); err != nil {
		return domain.ViewTarget{}, err
	}
	d := newDecoder("view target", ViewTargetFields)
	t := domain.ViewTarget{
		URL:         d.required("URL", r.URL),
		ExpiresIn:   time.Duration(d.integer("ExpiresIn", r.ExpiresIn)) * time.Second,
		ContentType: d.required("ContentType", r.ContentType),
	}
	return t, d.err
}
