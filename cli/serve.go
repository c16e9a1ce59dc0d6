package cli

import (
	"context"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/log"
	"github.com/spf13/cobra"

	"github.com/goroads/kerbside/core/asset"
	"github.com/goroads/kerbside/core/upload"
	"github.com/goroads/kerbside/core/user"
	"github.com/goroads/kerbside/internal/display"
	"github.com/goroads/kerbside/internal/server"
	"github.com/goroads/kerbside/internal/store/memory"
	minioStore "github.com/goroads/kerbside/internal/store/minio"
	"github.com/goroads/kerbside/pkg/statsd"
)

// Version of the current build. overridden by the build system.
var Version string

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Serve the inspection HTTP service",
		Long:    heredoc.Doc(`Serve the asset registry and photo pipeline over HTTP.`),
		Aliases: []string{"server", "start"},
		Example: heredoc.Doc(`
			$ kerbside serve
		`),
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			"group:core": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func runServer(ctx context.Context, cfg Config) error {
	logger := initLogger(cfg.LogLevel)
	logger.Info("kerbside starting", "version", Version)

	metrics, err := statsd.Init(logger, cfg.StatsD)
	if err != nil {
		return err
	}
	defer metrics.Close()

	blobStore, err := minioStore.NewBlobStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	registry := asset.NewRegistry(asset.RegistryDeps{
		Display: display.NewHeadless(),
		Logger:  logger,
		Metrics: metrics,
	})

	pipeline := upload.NewPipeline(upload.PipelineDeps{
		Store:   blobStore,
		Users:   user.NewContextProvider(user.User{}),
		Logger:  logger,
		Metrics: metrics,
	})

	if err := pipeline.TestConnection(ctx); err != nil {
		logger.Warn("blob storage connection test failed", "err", err)
	} else {
		logger.Info("blob storage connection verified")
	}

	return server.Serve(ctx, cfg.Service, server.Deps{
		Logger:    logger,
		Registry:  registry,
		Pipeline:  pipeline,
		Datastore: memory.NewDatastore(),
	})
}

func initLogger(logLevel string) *log.Logrus {
	return log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(os.Stdout),
	)
}
