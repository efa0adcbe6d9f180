package mockapi

import (
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dvloznov/homeapp/internal/codec"
)

// targetTTL is what the mock reports as expires_in; it does not enforce it.
const targetTTL = 300

// POST /expense/{id}/receipt/upload-url negotiates a storage key and hands
// back a URL on this server's own /storage route.
func (b *Backend) createUploadURL(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req codec.UploadRequestRecord
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Filename == nil || *req.Filename == "" || req.ContentType == nil {
		WriteError(w, http.StatusBadRequest, "filename and content_type are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.transactions[id]; !ok {
		WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	up := upload{key: uuid.NewString(), filename: *req.Filename, contentType: *req.ContentType}
	b.uploads[id] = up

	WriteJSON(w, http.StatusOK, codec.UploadTargetRecord{
		URL:       ptr(objectURL(r, up.key, "put")),
		ExpiresIn: ptr(targetTTL),
	})
}

// POST /expense/{id}/receipt/confirm links the transferred object to the
// expense.
func (b *Backend) confirmUpload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req codec.ConfirmRequestRecord
	if !decodeBody(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.transactions[id]
	if !ok {
		WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	up, ok := b.uploads[id]
	if !ok || req.Filename == nil || *req.Filename != up.filename {
		WriteError(w, http.StatusBadRequest, "No pending upload for this file")
		return
	}
	if _, ok := b.objects[up.key]; !ok {
		WriteError(w, http.StatusBadRequest, "Upload not received")
		return
	}

	if old, ok := b.receipts[id]; ok {
		delete(b.objects, old.key)
	}
	rc := receipt{id: uuid.NewString(), key: up.key, contentType: up.contentType}
	b.receipts[id] = rc
	delete(b.uploads, id)
	rec.ReceiptID = ptr(rc.id)

	b.log.Info().Str("expense_id", id).Str("receipt_id", rc.id).Msg("Receipt confirmed")
	WriteJSON(w, http.StatusOK, codec.ConfirmResultRecord{Message: ptr("Receipt attached"), ReceiptID: ptr(rc.id)})
}

// GET /expense/{id}/receipt/view-url
func (b *Backend) viewURL(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b.mu.Lock()
	defer b.mu.Unlock()
	rc, ok := b.receipts[id]
	if !ok {
		WriteError(w, http.StatusNotFound, "Receipt not found")
		return
	}
	WriteJSON(w, http.StatusOK, codec.ViewTargetRecord{
		URL:         ptr(objectURL(r, rc.key, "get")),
		ExpiresIn:   ptr(targetTTL),
		ContentType: ptr(rc.contentType),
	})
}

// PUT /storage/{key} accepts bytes only for a negotiated key.
func (b *Backend) putObject(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if r.Header.Get("Authorization") != "" {
		WriteError(w, http.StatusBadRequest, "Storage does not accept API credentials")
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxObject))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read object")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pendingKey(key) {
		WriteError(w, http.StatusNotFound, "Unknown upload key")
		return
	}
	b.objects[key] = object{contentType: r.Header.Get("Content-Type"), data: data}
	w.WriteHeader(http.StatusOK)
}

func (b *Backend) getObject(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	b.mu.Lock()
	obj, ok := b.objects[key]
	b.mu.Unlock()
	if !ok {
		WriteError(w, http.StatusNotFound, "Object not found")
		return
	}
	w.Header().Set("Content-Type", obj.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.data)
}

func (b *Backend) pendingKey(key string) bool {
	for _, up := range b.uploads {
		if up.key == key {
			return true
		}
	}
	return false
}

// objectURL builds an absolute storage URL on the host the caller used. The
// sig parameter mimics a signed URL so clients treat the query as secret.
func objectURL(r *http.Request, key, verb string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     "/storage/" + key,
		RawQuery: url.Values{"sig": {uuid.NewString()}, "verb": {verb}}.Encode(),
	}
	return u.String()
}
