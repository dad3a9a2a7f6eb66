// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"guialocal/internal/imaging"
	"guialocal/internal/middleware"
)

// maxPhotoSize is the largest accepted photo upload (10 MB).
const maxPhotoSize = 10 << 20

// PhotoStorage is the object store behind listing photos.
type PhotoStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	// KeyFromURL reports the object key of a URL this store handed out.
	KeyFromURL(rawURL string) (string, bool)
}

// Photos accepts listing photo uploads. The returned URL goes into a
// listing's photos list.
type Photos struct {
	storage PhotoStorage
}

// NewPhotos creates a Photos handler. A nil storage disables uploads.
func NewPhotos(storage PhotoStorage) *Photos {
	return &Photos{storage: storage}
}

// Upload handles a multipart upload in the "file" field.
func (p *Photos) Upload(w http.ResponseWriter, r *http.Request) {
	if p.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Envio de fotos indisponível.")
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1024)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Arquivo muito grande. O limite é 10 MB.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Nenhum arquivo enviado.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Falha ao ler o arquivo.")
		return
	}

	photo, err := imaging.Prepare(data)
	if errors.Is(err, imaging.ErrUnsupported) {
		fieldError(w, "file", "Envie uma imagem JPEG, PNG ou WebP.")
		return
	}
	if err != nil {
		slog.Warn("photo rejected", "error", err, "user", sess.UserID)
		fieldError(w, "file", "Imagem inválida ou grande demais.")
		return
	}

	key := fmt.Sprintf("listings/%s/%s%s", sess.UserID, uuid.New(), photo.Ext)
	if err := p.storage.Upload(r.Context(), key, photo.ContentType, bytes.NewReader(photo.Data), int64(len(photo.Data))); err != nil {
		serverError(w, "photo upload failed", err, "key", key)
		return
	}

	slog.Info("photo uploaded", "key", key, "user", sess.UserID, "bytes", len(photo.Data))
	writeJSON(w, http.StatusCreated, map[string]any{
		"url":    p.storage.FileURL(key),
		"width":  photo.Width,
		"height": photo.Height,
	})
}

// removePhotos deletes the stored objects of URLs in before that are not in
// after. URLs outside the store are left alone. Failures are logged only;
// the listing change has already been saved.
func removePhotos(ctx context.Context, storage PhotoStorage, before, after []string) {
	if storage == nil {
		return
	}
	kept := make(map[string]bool, len(after))
	for _, u := range after {
		kept[u] = true
	}
	for _, u := range before {
		if kept[u] {
			continue
		}
		key, ok := storage.KeyFromURL(u)
		if !ok {
			continue
		}
		if err := storage.Delete(ctx, key); err != nil {
			slog.Warn("photo delete failed", "error", err, "key", key)
		}
	}
}
