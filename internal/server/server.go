package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/goto/salt/log"

	"github.com/goroads/kerbside/core/asset"
	"github.com/goroads/kerbside/core/upload"
)

// Config represents the HTTP service options.
type Config struct {
	Host string `mapstructure:"host" default:"0.0.0.0"`
	Port string `mapstructure:"port" default:"8080"`

	Identity IdentityConfig `mapstructure:"identity"`
}

// IdentityConfig controls how the serving layer resolves the caller
// identity used to stamp audit metadata.
type IdentityConfig struct {
	// HeaderKeyEmail is the request header carrying the authenticated
	// email, populated by whatever auth proxy fronts the service.
	HeaderKeyEmail string `mapstructure:"header_key_email" default:"Kerbside-User-Email"`
	// ProviderDefaultName labels where the identity came from.
	ProviderDefaultName string `mapstructure:"provider_default_name" default:"header"`
}

func (cfg Config) addr() string {
	return fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
}

// Datastore is the realtime store collaborator the serving layer
// persists inspection records through. The registry itself never touches
// it; only the handlers combining registry and pipeline results do.
type Datastore interface {
	Read(ctx context.Context, path string) (interface{}, error)
	Write(ctx context.Context, path string, value interface{}) error
	Remove(ctx context.Context, path string) error
	ServerTimestamp(ctx context.Context) (time.Time, error)
}

// Deps carries the wired collaborators for the HTTP surface.
type Deps struct {
	Logger    log.Logger
	Registry  *asset.Registry
	Pipeline  *upload.Pipeline
	Datastore Datastore
}

// NewRouter builds the full route table.
func NewRouter(cfg Config, deps Deps) *mux.Router {
	assetHandler := NewAssetHandler(deps.Logger, deps.Registry, deps.Datastore)
	photoHandler := NewPhotoHandler(deps.Logger, deps.Pipeline, deps.Registry)

	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(identityMiddleware(cfg.Identity))

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.Methods(http.MethodPost).Path("/assets").HandlerFunc(assetHandler.Create)
	v1.Methods(http.MethodGet).Path("/assets").HandlerFunc(assetHandler.List)
	v1.Methods(http.MethodGet).Path("/assets/{id}").HandlerFunc(assetHandler.GetByID)
	v1.Methods(http.MethodDelete).Path("/assets/{id}").HandlerFunc(assetHandler.Delete)
	v1.Methods(http.MethodPatch).Path("/assets/{id}/status").HandlerFunc(assetHandler.UpdateStatus)

	v1.Methods(http.MethodPost).Path("/assets/{id}/photos").HandlerFunc(photoHandler.Upload)
	v1.Methods(http.MethodDelete).Path("/assets/{id}/photos").HandlerFunc(photoHandler.Delete)
	v1.Methods(http.MethodGet).Path("/photos/metadata").HandlerFunc(photoHandler.Metadata)

	v1.Methods(http.MethodGet).Path("/storage/health").HandlerFunc(photoHandler.Health)

	return router
}

// Serve runs the HTTP service until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, cfg Config, deps Deps) error {
	srv := &http.Server{
		Addr:    cfg.addr(),
		Handler: NewRouter(cfg, deps),
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deps.Logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
