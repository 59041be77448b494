// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/northbeam/sitecms/internal/imaging"
	"github.com/northbeam/sitecms/internal/middleware"
	"github.com/northbeam/sitecms/internal/store"
)

// maxUploadSize caps uploads at 10MB.
const maxUploadSize = 10 << 20

// MediaResponse is the API shape for an upload record.
type MediaResponse struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	URL          string `json:"url"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	Width        int64  `json:"width"`
	Height       int64  `json:"height"`
	CreatedAt    string `json:"created_at"`
}

func mediaToResponse(m store.Media) MediaResponse {
	return MediaResponse{
		ID:           m.ID,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		URL:          "/uploads/" + m.Filename,
		MimeType:     m.MimeType,
		Size:         m.Size,
		Width:        m.Width,
		Height:       m.Height,
		CreatedAt:    m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// UploadMedia accepts a multipart image upload, processes it to a web
// size plus thumbnail, and records the result.
func (h *API) UploadMedia(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r)
	if !ok {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteBadRequest(w, "Upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("reading upload", "error", err)
		WriteInternalError(w)
		return
	}

	mimeType := imaging.DetectMimeType(data)
	if !imaging.IsImage(mimeType) {
		WriteValidationError(w, map[string]string{"file": fmt.Sprintf("Unsupported file type %s", mimeType)})
		return
	}

	filename := uuid.NewString() + extensionFor(mimeType, header.Filename)
	result, err := h.processor.Process(bytes.NewReader(data), filename)
	if err != nil {
		h.logger.Error("processing upload", "filename", header.Filename, "error", err)
		WriteValidationError(w, map[string]string{"file": "Could not process image"})
		return
	}
	if _, err := h.processor.Thumbnail(result.FilePath, filename); err != nil {
		// The original is stored; a missing thumbnail is recoverable.
		h.logger.Warn("creating thumbnail", "filename", filename, "error", err)
	}

	media, err := h.queries.CreateMedia(r.Context(), store.CreateMediaParams{
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     result.MimeType,
		Size:         result.Size,
		Width:        int64(result.Width),
		Height:       int64(result.Height),
		UploadedBy:   actor.ID,
	})
	if err != nil {
		h.logger.Error("recording upload", "error", err)
		WriteInternalError(w)
		return
	}

	h.logger.Info("media uploaded", "id", media.ID, "filename", filename, "user_id", actor.ID)
	WriteCreated(w, mediaToResponse(media))
}

// ListMedia returns upload records, newest first.
func (h *API) ListMedia(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 24, 100)

	total, err := h.queries.CountMedia(r.Context())
	if err != nil {
		h.logger.Error("counting media", "error", err)
		WriteInternalError(w)
		return
	}

	media, err := h.queries.ListMedia(r.Context(), int64(perPage), int64((page-1)*perPage))
	if err != nil {
		h.logger.Error("listing media", "error", err)
		WriteInternalError(w)
		return
	}

	out := make([]MediaResponse, 0, len(media))
	for _, m := range media {
		out = append(out, mediaToResponse(m))
	}
	WriteJSON(w, http.StatusOK, Response{Data: out, Meta: BuildMeta(total, page, perPage)})
}

// extensionFor picks a file extension from the detected MIME type,
// falling back to the original filename's extension.
func extensionFor(mimeType, originalName string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if ext := strings.ToLower(filepath.Ext(originalName)); ext != "" {
		return ext
	}
	return ".bin"
}
