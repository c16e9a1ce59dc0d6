package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/goto/salt/log"

	"github.com/goroads/kerbside/core/asset"
	"github.com/goroads/kerbside/core/user"
)

// AssetHandler exposes the asset registry over REST and combines
// registry mutations with datastore writes: the registry stays the
// in-memory source of truth for the map while every accepted change is
// mirrored into the realtime store for other clients.
type AssetHandler struct {
	logger    log.Logger
	registry  *asset.Registry
	datastore Datastore
}

func NewAssetHandler(logger log.Logger, registry *asset.Registry, datastore Datastore) *AssetHandler {
	return &AssetHandler{
		logger:    logger,
		registry:  registry,
		datastore: datastore,
	}
}

type createAssetRequest struct {
	ID       string         `json:"id"`
	Layer    asset.Type     `json:"layer"`
	Status   asset.Status   `json:"status"`
	Position asset.Position `json:"position"`
}

type assetView struct {
	asset.Asset
	Visibility asset.Visibility `json:"visibility"`
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if _, err := h.registry.AddAsset(payload.Position, payload.ID, payload.Layer, payload.Status); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	ast, err := h.registry.GetByID(payload.ID)
	if err != nil {
		internalServerError(w, h.logger, err.Error())
		return
	}

	if err := h.persist(r, ast); err != nil {
		h.logger.Error("asset placed but datastore write failed", "id", ast.ID, "err", err)
	}

	writeJSON(w, http.StatusCreated, ast)
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	flt := asset.Filter{
		Query: r.URL.Query().Get("query"),
		Layer: r.URL.Query().Get("layer"),
	}
	if err := flt.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if flt.Layer == "" {
		flt.Layer = asset.LayerAll
	}

	h.registry.SetFilter(flt.Query, flt.Layer)

	assets := h.registry.Assets(nil)
	views := make([]assetView, 0, len(assets))
	for _, ast := range assets {
		views = append(views, assetView{
			Asset:      ast,
			Visibility: flt.Visibility(&ast),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  views,
		"total": h.registry.Size(),
	})
}

func (h *AssetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ast, err := h.registry.GetByID(id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ast)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.registry.RemoveAsset(id); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	if err := h.datastore.Remove(r.Context(), recordPath(id)); err != nil {
		h.logger.Error("asset removed but datastore remove failed", "id", id, "err", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status asset.Status `json:"status"`
}

func (h *AssetHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	changelog, err := h.registry.UpdateStatus(id, payload.Status, user.FromContext(r.Context()))
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	ast, err := h.registry.GetByID(id)
	if err != nil {
		internalServerError(w, h.logger, err.Error())
		return
	}

	if err := h.persist(r, ast); err != nil {
		h.logger.Error("status updated but datastore write failed", "id", id, "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":      ast,
		"changelog": changelog,
	})
}

// persist mirrors an accepted registry change into the realtime store,
// stamped with the store's own timestamp.
func (h *AssetHandler) persist(r *http.Request, ast asset.Asset) error {
	ts, err := h.datastore.ServerTimestamp(r.Context())
	if err != nil {
		return err
	}

	return h.datastore.Write(r.Context(), recordPath(ast.ID), map[string]interface{}{
		"asset":      ast,
		"written_at": ts,
	})
}

func (h *AssetHandler) writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.As(err, new(asset.NotFoundError)):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, new(asset.DuplicateIDError)):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.As(err, new(asset.InvalidPositionError)),
		errors.Is(err, asset.ErrEmptyID),
		errors.Is(err, asset.ErrUnknownLayer),
		errors.Is(err, asset.ErrUnknownStatus):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		internalServerError(w, h.logger, err.Error())
	}
}

func recordPath(id string) string {
	return fmt.Sprintf("assets/%s", id)
}
