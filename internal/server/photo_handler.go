package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/goto/salt/log"

	"github.com/goroads/kerbside/core/asset"
	"github.com/goroads/kerbside/core/upload"
)

// maxUploadForm caps the parsed multipart form slightly above the
// pipeline's own file ceiling so oversize files reach the pipeline and
// get its proper validation message.
const maxUploadForm = upload.MaxFileSize + (1 << 20)

// PhotoHandler drives the upload pipeline from the HTTP surface.
type PhotoHandler struct {
	logger   log.Logger
	pipeline *upload.Pipeline
	registry *asset.Registry
}

func NewPhotoHandler(logger log.Logger, pipeline *upload.Pipeline, registry *asset.Registry) *PhotoHandler {
	return &PhotoHandler{
		logger:   logger,
		pipeline: pipeline,
		registry: registry,
	}
}

// Upload accepts a multipart photo for an asset, runs it through the
// pipeline and returns the durable reference URL.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]
	category := r.URL.Query().Get("category")

	if _, err := h.registry.GetByID(assetID); err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadForm); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	part, header, err := r.FormFile("photo")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing \"photo\" form file")
		return
	}
	defer part.Close()

	file := &upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     part,
	}

	url, err := h.pipeline.Upload(r.Context(), file, assetID, category)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	if err := h.registry.SetPhotoURL(assetID, url); err != nil {
		h.logger.Warn("photo stored but asset disappeared from registry", "id", assetID, "err", err)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// Delete removes an asset's photo, best effort. It always reports
// success: a dangling blob is an acceptable degraded state and must not
// break the calling flow.
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]
	category := r.URL.Query().Get("category")
	url := r.URL.Query().Get("url")

	if url == "" {
		if ast, err := h.registry.GetByID(assetID); err == nil {
			url = ast.PhotoURL
		}
	}

	h.pipeline.DeletePhoto(r.Context(), url, assetID, category)
	if err := h.registry.SetPhotoURL(assetID, ""); err != nil {
		h.logger.Debug("photo delete for unregistered asset", "id", assetID)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Metadata looks up stored object metadata for a reference URL.
func (h *PhotoHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")

	meta, ok := h.pipeline.Metadata(r.Context(), url)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no metadata for the given reference URL")
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

// Health probes the blob store with a write-and-delete round trip.
func (h *PhotoHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.TestConnection(r.Context()); err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PhotoHandler) writeUploadError(w http.ResponseWriter, err error) {
	var classified *upload.Error
	if !errors.As(err, &classified) {
		internalServerError(w, h.logger, err.Error())
		return
	}

	switch classified.Kind {
	case upload.KindValidation:
		writeJSONError(w, http.StatusBadRequest, classified.Message())
	case upload.KindAuthorization:
		writeJSONError(w, http.StatusForbidden, classified.Message())
	case upload.KindTransport, upload.KindIntegrity:
		writeJSONError(w, http.StatusBadGateway, classified.Message())
	default:
		internalServerError(w, h.logger, classified.Message())
	}
}
