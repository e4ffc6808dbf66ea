// Package http exposes a stowage.Storage over a minimal REST surface:
// GET redirects to (or proxies) the object, HEAD reports its size, PUT
// uploads, DELETE removes. It is a thin gateway; authentication and retry
// policy belong to the deployment in front of it.
package http

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sagarc03/stowage"
)

// CORSConfig mirrors the go-chi/cors options the gateway supports.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// HandlerConfig configures the gateway.
type HandlerConfig struct {
	// Proxy streams object bodies through the gateway. When false, GET
	// answers with a redirect to the backend's Locate URL.
	Proxy bool
	CORS  CORSConfig
}

// Handler provides HTTP handlers for object storage operations.
type Handler struct {
	config  HandlerConfig
	storage stowage.Storage
}

// NewHandler creates a new Handler over the given backend.
func NewHandler(config *HandlerConfig, storage stowage.Storage) *Handler {
	return &Handler{
		config:  *config,
		storage: storage,
	}
}

// Router returns an http.Handler with the gateway routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/*", h.handleGet)
	r.Head("/*", h.handleHead)
	r.Put("/*", h.handlePut)
	r.Delete("/*", h.handleDelete)

	return r
}

func objectKey(r *http.Request) string {
	return strings.TrimPrefix(r.URL.Path, "/")
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := objectKey(r)

	if !h.config.Proxy {
		url, err := h.storage.Locate(r.Context(), key)
		if err != nil {
			writeStorageError(w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	body, err := h.storage.Open(r.Context(), key)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	defer func() { _ = body.Close() }()

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	_, _ = io.Copy(w, body)
}

func (h *Handler) handleHead(w http.ResponseWriter, r *http.Request) {
	key := objectKey(r)

	size, err := h.storage.Size(r.Context(), key)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	key := objectKey(r)

	// Buffer the body: Upload needs a rewindable source.
	data, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_body", "could not read request body")
		return
	}

	stored, err := h.storage.Upload(r.Context(), bytes.NewReader(data), key)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, UploadResponse{Key: stored, Size: int64(len(data))})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := objectKey(r)

	if err := h.storage.Delete(r.Context(), key); err != nil {
		writeStorageError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
